package domain

// CheckInfo describes a registered check
type CheckInfo struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
}

// CheckFailure records a check that failed on one document.
// The failure is isolated: other checks and documents still run.
type CheckFailure struct {
	Check        string `json:"check" yaml:"check"`
	DocumentName string `json:"document" yaml:"document"`
	Message      string `json:"message" yaml:"message"`
}

// SkippedDocument records a document that no check ran against
type SkippedDocument struct {
	DocumentName string `json:"document" yaml:"document"`
	Reason       string `json:"reason" yaml:"reason"`
}

// Skip reasons
const (
	SkipGenerated  = "generated"
	SkipExcluded   = "excluded"
	SkipGitignored = "gitignored"
	SkipParseError = "parse error"
)

// RunResult is what the check runner collected over one run
type RunResult struct {
	DocumentsAnalyzed int               `json:"documents_analyzed" yaml:"documents_analyzed"`
	Diagnostics       []Diagnostic      `json:"diagnostics" yaml:"diagnostics"`
	Skipped           []SkippedDocument `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failures          []CheckFailure    `json:"failures,omitempty" yaml:"failures,omitempty"`
}
