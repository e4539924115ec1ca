package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// OutputFormat represents the supported report formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatHTML OutputFormat = "html"
)

// ParseOutputFormat validates a format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatHTML:
		return f, nil
	case "yml":
		return OutputFormatYAML, nil
	case "":
		return OutputFormatText, nil
	}
	return "", fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml, html)", s)
}

// ProjectInfo identifies the analyzed module
type ProjectInfo struct {
	Path         string `json:"path" yaml:"path"`
	ModulePath   string `json:"module" yaml:"module"`
	ManifestPath string `json:"manifest" yaml:"manifest"`
	GoVersion    string `json:"go_version,omitempty" yaml:"go_version,omitempty"`
}

// AnalysisReport is everything a run produced
type AnalysisReport struct {
	Project     ProjectInfo       `json:"project" yaml:"project"`
	Documents   int               `json:"documents" yaml:"documents"`
	Diagnostics []Diagnostic      `json:"diagnostics" yaml:"diagnostics"`
	Packages    []PackageReport   `json:"packages,omitempty" yaml:"packages,omitempty"`
	Skipped     []SkippedDocument `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failures    []CheckFailure    `json:"failures,omitempty" yaml:"failures,omitempty"`
	Summary     Summary           `json:"summary" yaml:"summary"`
	GeneratedAt string            `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64             `json:"duration_ms" yaml:"duration_ms"`
	Version     string            `json:"version" yaml:"version"`
}

// Summary aggregates a report
type Summary struct {
	DocumentsAnalyzed int `json:"documents_analyzed" yaml:"documents_analyzed"`
	DocumentsSkipped  int `json:"documents_skipped" yaml:"documents_skipped"`
	LongMethods       int `json:"long_methods" yaml:"long_methods"`
	MagicNumbers      int `json:"magic_numbers" yaml:"magic_numbers"`
	UnusedImports     int `json:"unused_imports" yaml:"unused_imports"`
	TotalLines        int `json:"total_lines,omitempty" yaml:"total_lines,omitempty"`
	CheckFailures     int `json:"check_failures" yaml:"check_failures"`
	Packages          int `json:"packages,omitempty" yaml:"packages,omitempty"`
	OutdatedPackages  int `json:"outdated_packages,omitempty" yaml:"outdated_packages,omitempty"`
	Unverifiable      int `json:"unverifiable_packages,omitempty" yaml:"unverifiable_packages,omitempty"`
}

// Summarize recomputes the summary from the report contents
func (r *AnalysisReport) Summarize() {
	s := Summary{
		DocumentsAnalyzed: r.Documents,
		DocumentsSkipped:  len(r.Skipped),
		CheckFailures:     len(r.Failures),
		Packages:          len(r.Packages),
	}
	for _, d := range r.Diagnostics {
		switch d.Kind {
		case KindMethodLength:
			s.LongMethods++
		case KindMagicNumber:
			s.MagicNumbers++
		case KindUnusedImport:
			s.UnusedImports++
		case KindLineTotal:
			if n, err := strconv.Atoi(d.Value); err == nil {
				s.TotalLines = n
			}
		}
	}
	for _, p := range r.Packages {
		switch p.Status {
		case PackageOutdated:
			s.OutdatedPackages++
		case PackageUnverifiable:
			s.Unverifiable++
		}
	}
	r.Summary = s
}
