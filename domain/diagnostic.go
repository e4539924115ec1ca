package domain

import "fmt"

// DiagnosticKind identifies what a diagnostic reports
type DiagnosticKind string

const (
	KindMethodLength DiagnosticKind = "method_length"
	KindMagicNumber  DiagnosticKind = "magic_number"
	KindLineCount    DiagnosticKind = "line_count"
	KindLineTotal    DiagnosticKind = "line_total"
	KindUnusedImport DiagnosticKind = "unused_import"
)

// Severity of a diagnostic
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Location is a line range within a document. Lines and columns are 1-based.
type Location struct {
	StartLine int `json:"start_line" yaml:"start_line"`
	EndLine   int `json:"end_line" yaml:"end_line"`
	Column    int `json:"column,omitempty" yaml:"column,omitempty"`
}

// String formats the location as line:column or start-end
func (l Location) String() string {
	switch {
	case l.StartLine == 0:
		return "-"
	case l.EndLine > l.StartLine:
		return fmt.Sprintf("%d-%d", l.StartLine, l.EndLine)
	case l.Column > 0:
		return fmt.Sprintf("%d:%d", l.StartLine, l.Column)
	default:
		return fmt.Sprintf("%d", l.StartLine)
	}
}

// Diagnostic is a single finding produced by a check
type Diagnostic struct {
	Kind         DiagnosticKind `json:"kind" yaml:"kind"`
	Check        string         `json:"check" yaml:"check"`
	Severity     Severity       `json:"severity" yaml:"severity"`
	DocumentName string         `json:"document,omitempty" yaml:"document,omitempty"`
	Location     Location       `json:"location" yaml:"location"`
	Scope        string         `json:"scope,omitempty" yaml:"scope,omitempty"`
	Message      string         `json:"message" yaml:"message"`
	Value        string         `json:"value,omitempty" yaml:"value,omitempty"`
}

// IsProjectLevel reports whether the diagnostic belongs to the whole project rather than a document
func (d Diagnostic) IsProjectLevel() bool {
	return d.DocumentName == ""
}

// DiagnosticsByDocument groups diagnostics by document, keeping first-seen document order.
// Project-level diagnostics are returned separately.
func DiagnosticsByDocument(diags []Diagnostic) (names []string, byDoc map[string][]Diagnostic, project []Diagnostic) {
	byDoc = make(map[string][]Diagnostic)
	for _, d := range diags {
		if d.IsProjectLevel() {
			project = append(project, d)
			continue
		}
		if _, seen := byDoc[d.DocumentName]; !seen {
			names = append(names, d.DocumentName)
		}
		byDoc[d.DocumentName] = append(byDoc[d.DocumentName], d)
	}
	return names, byDoc, project
}
