package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ludo-technologies/rotron/domain"
	"gopkg.in/yaml.v3"
)

// OutputFormatter renders reports. It is the only component that writes results.
type OutputFormatter struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatter {
	return &OutputFormatter{}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write renders the analysis report in the given format
func (f *OutputFormatter) Write(report *domain.AnalysisReport, format domain.OutputFormat, writer io.Writer) error {
	var err error
	switch format {
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, report)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, report)
	case domain.OutputFormatHTML:
		err = f.writeHTML(report, writer)
	case domain.OutputFormatText, "":
		err = f.writeText(report, writer)
	default:
		return domain.NewOutputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
	if err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

// WriteChecks renders the check registry listing
func (f *OutputFormatter) WriteChecks(checks []domain.CheckInfo, format domain.OutputFormat, writer io.Writer) error {
	var err error
	switch format {
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, checks)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, checks)
	case domain.OutputFormatText, "":
		t := newTable(writer)
		t.AppendHeader(table.Row{"Check", "Enabled", "Description"})
		for _, c := range checks {
			t.AppendRow(table.Row{c.ID, yesNo(c.Enabled), c.Description})
		}
		t.Render()
	default:
		return domain.NewOutputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
	if err != nil {
		return domain.NewOutputError("failed to write check list", err)
	}
	return nil
}

// writeText writes the report as plain text
func (f *OutputFormatter) writeText(report *domain.AnalysisReport, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("\n=== rotron Analysis Report ===\n")
	if report.Project.ModulePath != "" {
		ew.printf("Module: %s (%s)\n", report.Project.ModulePath, report.Project.Path)
	}
	ew.printf("Generated: %s\n", report.GeneratedAt)
	ew.printf("Duration: %dms\n", report.DurationMs)
	ew.printf("Version: %s\n\n", report.Version)

	names, byDoc, project := domain.DiagnosticsByDocument(report.Diagnostics)
	for _, name := range names {
		ew.printf("%s:\n", name)
		for _, d := range byDoc[name] {
			ew.printf("  %-9s %-14s %s\n", d.Location.String(), d.Kind, d.Message)
		}
		ew.printf("\n")
	}
	if len(project) > 0 {
		ew.printf("Project:\n")
		for _, d := range project {
			ew.printf("  %-14s %s\n", d.Kind, d.Message)
		}
		ew.printf("\n")
	}
	if len(report.Diagnostics) == 0 {
		ew.printf("No issues found.\n\n")
	}

	if len(report.Packages) > 0 {
		ew.printf("Packages:\n")
		if ew.err == nil {
			writePackageTable(w, report.Packages)
		}
		ew.printf("\n")
	}

	if len(report.Skipped) > 0 {
		ew.printf("Skipped:\n")
		for _, s := range report.Skipped {
			ew.printf("  - %s (%s)\n", s.DocumentName, s.Reason)
		}
		ew.printf("\n")
	}

	if len(report.Failures) > 0 {
		ew.printf("Check failures:\n")
		for _, cf := range report.Failures {
			ew.printf("  - [%s] %s: %s\n", cf.Check, cf.DocumentName, cf.Message)
		}
		ew.printf("\n")
	}

	s := report.Summary
	ew.printf("Summary:\n")
	ew.printf("  Files analyzed: %d\n", s.DocumentsAnalyzed)
	ew.printf("  Files skipped: %d\n", s.DocumentsSkipped)
	ew.printf("  Long methods: %d\n", s.LongMethods)
	ew.printf("  Magic numbers: %d\n", s.MagicNumbers)
	ew.printf("  Unused imports: %d\n", s.UnusedImports)
	if s.TotalLines > 0 {
		ew.printf("  Total lines: %d\n", s.TotalLines)
	}
	if s.Packages > 0 {
		ew.printf("  Packages: %d (%d outdated, %d unverifiable)\n", s.Packages, s.OutdatedPackages, s.Unverifiable)
	}
	if s.CheckFailures > 0 {
		ew.printf("  Check failures: %d\n", s.CheckFailures)
	}

	return ew.err
}

func writePackageTable(w io.Writer, packages []domain.PackageReport) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Package", "Installed", "Latest", "Status"})
	for _, p := range packages {
		name := p.Name
		if p.Indirect {
			name += " (indirect)"
		}
		latest := p.LatestVersion
		if latest == "" {
			latest = "-"
		}
		t.AppendRow(table.Row{name, p.InstalledVersion, latest, packageStatusText(p)})
	}
	t.Render()
}

func packageStatusText(p domain.PackageReport) string {
	switch p.Status {
	case domain.PackageUpToDate:
		return "up to date"
	case domain.PackageOutdated:
		return "outdated"
	default:
		if p.Error != "" {
			return "could not be verified: " + firstLine(p.Error)
		}
		return "could not be verified"
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// errWriter remembers the first write error so the text renderer can stay linear
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
