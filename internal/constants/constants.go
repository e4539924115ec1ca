package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "rotron"

	// ConfigFileName is the config file read from the working directory
	ConfigFileName = "rotron.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "ROTRON"

	// ManifestFileName is the project manifest
	ManifestFileName = "go.mod"

	// GitignoreFileName is read from the module root when gitignore exclusion is on
	GitignoreFileName = ".gitignore"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatHTML = "html"
)

// Exit codes
const (
	ExitOK          = 0
	ExitError       = 1
	ExitConfigError = 2
	ExitInterrupted = 130
)
