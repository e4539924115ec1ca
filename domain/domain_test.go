package domain

import (
	"errors"
	"fmt"
	"testing"
)

// Error tests

func TestError_Error(t *testing.T) {
	err := &Error{Code: ErrCodeConfiguration, Message: "bad threshold"}
	if err.Error() != "bad threshold" {
		t.Errorf("Expected 'bad threshold', got '%s'", err.Error())
	}

	withCause := &Error{Code: ErrCodeConfiguration, Message: "bad threshold", Cause: errors.New("must be positive")}
	if withCause.Error() != "bad threshold: must be positive" {
		t.Errorf("Unexpected message: '%s'", withCause.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewProjectLoadError("failed", cause)

	if !errors.Is(err, cause) {
		t.Error("Cause should be reachable with errors.Is")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("loading: %w", NewConfigError("bad", nil))

	if !errors.Is(err, &Error{Code: ErrCodeConfiguration}) {
		t.Error("errors.Is should match on code")
	}
	if errors.Is(err, &Error{Code: ErrCodeOutput}) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  error
		code ErrorCode
	}{
		{NewConfigError("m", nil), ErrCodeConfiguration},
		{NewConfigFileParseError("m", nil), ErrCodeConfigFileParse},
		{NewProjectLoadError("m", nil), ErrCodeProjectLoad},
		{NewDocumentParseError("m", nil), ErrCodeDocumentParse},
		{NewUnresolvedSymbolError("m"), ErrCodeUnresolvedSymbol},
		{NewRegistryQueryError("m", nil), ErrCodeRegistryQuery},
		{NewOutputError("m", nil), ErrCodeOutput},
	}
	for _, tt := range tests {
		if got := CodeOf(tt.err); got != tt.code {
			t.Errorf("CodeOf() = %s, want %s", got, tt.code)
		}
	}
}

func TestCodeOf_PlainError(t *testing.T) {
	if CodeOf(errors.New("plain")) != "" {
		t.Error("A plain error has no code")
	}
	if CodeOf(nil) != "" {
		t.Error("nil has no code")
	}
}

func TestIsFatal(t *testing.T) {
	fatal := []error{
		NewConfigError("m", nil),
		NewProjectLoadError("m", nil),
		fmt.Errorf("wrapped: %w", NewConfigError("m", nil)),
	}
	for _, err := range fatal {
		if !IsFatal(err) {
			t.Errorf("%v should be fatal", err)
		}
	}

	recoverable := []error{
		NewConfigFileParseError("m", nil),
		NewDocumentParseError("m", nil),
		NewUnresolvedSymbolError("m"),
		NewRegistryQueryError("m", nil),
		errors.New("plain"),
	}
	for _, err := range recoverable {
		if IsFatal(err) {
			t.Errorf("%v should not be fatal", err)
		}
	}
}

func TestIsConfigFileParseError(t *testing.T) {
	if !IsConfigFileParseError(NewConfigFileParseError("m", nil)) {
		t.Error("Expected a config file parse error")
	}
	if IsConfigFileParseError(NewConfigError("m", nil)) {
		t.Error("A configuration error is not a file parse error")
	}
	if IsConfigurationError(NewConfigFileParseError("m", nil)) {
		t.Error("A file parse error is not a configuration error")
	}
}

// Output format tests

func TestParseOutputFormat(t *testing.T) {
	tests := map[string]OutputFormat{
		"":       OutputFormatText,
		"text":   OutputFormatText,
		"JSON":   OutputFormatJSON,
		" yaml ": OutputFormatYAML,
		"yml":    OutputFormatYAML,
		"html":   OutputFormatHTML,
	}
	for in, want := range tests {
		got, err := ParseOutputFormat(in)
		if err != nil {
			t.Errorf("ParseOutputFormat(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseOutputFormat(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseOutputFormat("csv"); err == nil {
		t.Error("csv should be rejected")
	}
}

// Location tests

func TestLocation_String(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{}, "-"},
		{Location{StartLine: 3, EndLine: 52}, "3-52"},
		{Location{StartLine: 4, EndLine: 4, Column: 2}, "4:2"},
		{Location{StartLine: 7, EndLine: 7}, "7"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("%+v.String() = %s, want %s", tt.loc, got, tt.want)
		}
	}
}

// Report tests

func TestDiagnosticsByDocument(t *testing.T) {
	diags := []Diagnostic{
		{DocumentName: "b.go", Message: "b1"},
		{DocumentName: "a.go", Message: "a1"},
		{Message: "total"},
		{DocumentName: "b.go", Message: "b2"},
	}

	names, byDoc, project := DiagnosticsByDocument(diags)

	if len(names) != 2 || names[0] != "b.go" || names[1] != "a.go" {
		t.Errorf("Expected first-seen order [b.go a.go], got %v", names)
	}
	if len(byDoc["b.go"]) != 2 || byDoc["b.go"][1].Message != "b2" {
		t.Errorf("Unexpected b.go diagnostics: %v", byDoc["b.go"])
	}
	if len(project) != 1 || !project[0].IsProjectLevel() {
		t.Errorf("Expected one project-level diagnostic, got %v", project)
	}
}

func TestAnalysisReport_Summarize(t *testing.T) {
	report := &AnalysisReport{
		Documents: 3,
		Diagnostics: []Diagnostic{
			{Kind: KindMethodLength, DocumentName: "a.go"},
			{Kind: KindMagicNumber, DocumentName: "a.go"},
			{Kind: KindMagicNumber, DocumentName: "b.go"},
			{Kind: KindUnusedImport, DocumentName: "b.go"},
			{Kind: KindLineCount, DocumentName: "a.go", Value: "10"},
			{Kind: KindLineTotal, Value: "25"},
		},
		Packages: []PackageReport{
			{Status: PackageUpToDate},
			{Status: PackageOutdated},
			{Status: PackageUnverifiable},
			{Status: PackageOutdated},
		},
		Skipped:  []SkippedDocument{{DocumentName: "gen.go", Reason: SkipGenerated}},
		Failures: []CheckFailure{{Check: "magic-numbers", DocumentName: "c.go"}},
	}

	report.Summarize()
	s := report.Summary

	if s.DocumentsAnalyzed != 3 || s.DocumentsSkipped != 1 || s.CheckFailures != 1 {
		t.Errorf("Unexpected document counts: %+v", s)
	}
	if s.LongMethods != 1 || s.MagicNumbers != 2 || s.UnusedImports != 1 {
		t.Errorf("Unexpected diagnostic counts: %+v", s)
	}
	if s.TotalLines != 25 {
		t.Errorf("Expected total lines 25, got %d", s.TotalLines)
	}
	if s.Packages != 4 || s.OutdatedPackages != 2 || s.Unverifiable != 1 {
		t.Errorf("Unexpected package counts: %+v", s)
	}
}
