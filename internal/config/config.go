package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/ludo-technologies/rotron/internal/constants"
)

// Default analysis settings
const (
	// DefaultMethodLengthThreshold is the longest method, in lines, that is not reported
	DefaultMethodLengthThreshold = 40

	// DefaultRegistryURL is the Go module proxy queried for package freshness
	DefaultRegistryURL = "https://proxy.golang.org"

	// DefaultRegistryTimeout bounds a single registry query
	DefaultRegistryTimeout = 10 * time.Second

	// DefaultRegistryConcurrency caps in-flight registry queries
	DefaultRegistryConcurrency = 8

	// DefaultRegistryRateLimit is the sustained registry request rate per second
	DefaultRegistryRateLimit = 20.0

	// DefaultOutputFormat is used when no format is configured
	DefaultOutputFormat = constants.OutputFormatText
)

// DefaultGeneratedSuffixes name files that are produced by tooling.
// Files carrying the standard "Code generated ... DO NOT EDIT." header are always excluded.
var DefaultGeneratedSuffixes = []string{"_gen.go", ".pb.go", "_string.go"}

// Settings is one partial configuration source, such as the command line or the config file.
// A nil field means the source did not mention it.
type Settings struct {
	ProjectPath           *string `mapstructure:"project_path" yaml:"project_path,omitempty"`
	CheckMethodLength     *bool   `mapstructure:"check_method_length" yaml:"check_method_length,omitempty"`
	MethodLengthThreshold *int    `mapstructure:"method_length_threshold" yaml:"method_length_threshold,omitempty"`
	CheckMagicNumbers     *bool   `mapstructure:"check_magic_numbers" yaml:"check_magic_numbers,omitempty"`
	CountLines            *bool   `mapstructure:"count_lines" yaml:"count_lines,omitempty"`
	CheckPackages         *bool   `mapstructure:"check_packages" yaml:"check_packages,omitempty"`
	CheckUnusedImports    *bool   `mapstructure:"check_unused_imports" yaml:"check_unused_imports,omitempty"`

	IncludeTests      *bool    `mapstructure:"include_tests" yaml:"include_tests,omitempty"`
	ExcludePatterns   []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns,omitempty"`
	GeneratedSuffixes []string `mapstructure:"generated_suffixes" yaml:"generated_suffixes,omitempty"`
	UseGitignore      *bool    `mapstructure:"use_gitignore" yaml:"use_gitignore,omitempty"`
	MaxConcurrency    *int     `mapstructure:"max_concurrency" yaml:"max_concurrency,omitempty"`

	RegistryURL         *string        `mapstructure:"registry_url" yaml:"registry_url,omitempty"`
	RegistryTimeout     *time.Duration `mapstructure:"registry_timeout" yaml:"registry_timeout,omitempty"`
	RegistryConcurrency *int           `mapstructure:"registry_concurrency" yaml:"registry_concurrency,omitempty"`
	RegistryRateLimit   *float64       `mapstructure:"registry_rate_limit" yaml:"registry_rate_limit,omitempty"`
	IncludeIndirect     *bool          `mapstructure:"include_indirect" yaml:"include_indirect,omitempty"`

	OutputFormat *string `mapstructure:"output_format" yaml:"output_format,omitempty"`
}

// Config is the resolved configuration of one run. It is not modified after Resolve.
type Config struct {
	ProjectPath           string `json:"project_path" yaml:"project_path"`
	CheckMethodLength     bool   `json:"check_method_length" yaml:"check_method_length"`
	MethodLengthThreshold int    `json:"method_length_threshold" yaml:"method_length_threshold"`
	CheckMagicNumbers     bool   `json:"check_magic_numbers" yaml:"check_magic_numbers"`
	CountLines            bool   `json:"count_lines" yaml:"count_lines"`
	CheckPackages         bool   `json:"check_packages" yaml:"check_packages"`
	CheckUnusedImports    bool   `json:"check_unused_imports" yaml:"check_unused_imports"`

	IncludeTests      bool     `json:"include_tests" yaml:"include_tests"`
	ExcludePatterns   []string `json:"exclude_patterns,omitempty" yaml:"exclude_patterns,omitempty"`
	GeneratedSuffixes []string `json:"generated_suffixes" yaml:"generated_suffixes"`
	UseGitignore      bool     `json:"use_gitignore" yaml:"use_gitignore"`
	MaxConcurrency    int      `json:"max_concurrency" yaml:"max_concurrency"`

	RegistryURL         string        `json:"registry_url" yaml:"registry_url"`
	RegistryTimeout     time.Duration `json:"registry_timeout" yaml:"registry_timeout"`
	RegistryConcurrency int           `json:"registry_concurrency" yaml:"registry_concurrency"`
	RegistryRateLimit   float64       `json:"registry_rate_limit" yaml:"registry_rate_limit"`
	IncludeIndirect     bool          `json:"include_indirect" yaml:"include_indirect"`

	OutputFormat string `json:"output_format" yaml:"output_format"`
}

// DefaultConfig returns the configuration used when no source sets anything
func DefaultConfig() *Config {
	return &Config{
		MethodLengthThreshold: DefaultMethodLengthThreshold,
		GeneratedSuffixes:     append([]string(nil), DefaultGeneratedSuffixes...),
		UseGitignore:          true,
		MaxConcurrency:        runtime.NumCPU(),
		RegistryURL:           defaultRegistryURL(),
		RegistryTimeout:       DefaultRegistryTimeout,
		RegistryConcurrency:   DefaultRegistryConcurrency,
		RegistryRateLimit:     DefaultRegistryRateLimit,
		OutputFormat:          DefaultOutputFormat,
	}
}

// defaultRegistryURL honors the first proxy listed in GOPROXY
func defaultRegistryURL() string {
	for _, entry := range strings.FieldsFunc(os.Getenv("GOPROXY"), func(r rune) bool { return r == ',' || r == '|' }) {
		if entry == "direct" || entry == "off" {
			break
		}
		if strings.HasPrefix(entry, "https://") || strings.HasPrefix(entry, "http://") {
			return strings.TrimSuffix(entry, "/")
		}
	}
	return DefaultRegistryURL
}

// Resolve merges the sources field by field: a CLI value wins when present,
// then the file value, then the default.
func Resolve(cli, file Settings) *Config {
	cfg := DefaultConfig()

	cfg.ProjectPath = pick(cli.ProjectPath, file.ProjectPath, cfg.ProjectPath)
	cfg.CheckMethodLength = pick(cli.CheckMethodLength, file.CheckMethodLength, cfg.CheckMethodLength)
	cfg.MethodLengthThreshold = pick(cli.MethodLengthThreshold, file.MethodLengthThreshold, cfg.MethodLengthThreshold)
	cfg.CheckMagicNumbers = pick(cli.CheckMagicNumbers, file.CheckMagicNumbers, cfg.CheckMagicNumbers)
	cfg.CountLines = pick(cli.CountLines, file.CountLines, cfg.CountLines)
	cfg.CheckPackages = pick(cli.CheckPackages, file.CheckPackages, cfg.CheckPackages)
	cfg.CheckUnusedImports = pick(cli.CheckUnusedImports, file.CheckUnusedImports, cfg.CheckUnusedImports)

	cfg.IncludeTests = pick(cli.IncludeTests, file.IncludeTests, cfg.IncludeTests)
	cfg.ExcludePatterns = pickSlice(cli.ExcludePatterns, file.ExcludePatterns, cfg.ExcludePatterns)
	cfg.GeneratedSuffixes = pickSlice(cli.GeneratedSuffixes, file.GeneratedSuffixes, cfg.GeneratedSuffixes)
	cfg.UseGitignore = pick(cli.UseGitignore, file.UseGitignore, cfg.UseGitignore)
	cfg.MaxConcurrency = pick(cli.MaxConcurrency, file.MaxConcurrency, cfg.MaxConcurrency)

	cfg.RegistryURL = pick(cli.RegistryURL, file.RegistryURL, cfg.RegistryURL)
	cfg.RegistryTimeout = pick(cli.RegistryTimeout, file.RegistryTimeout, cfg.RegistryTimeout)
	cfg.RegistryConcurrency = pick(cli.RegistryConcurrency, file.RegistryConcurrency, cfg.RegistryConcurrency)
	cfg.RegistryRateLimit = pick(cli.RegistryRateLimit, file.RegistryRateLimit, cfg.RegistryRateLimit)
	cfg.IncludeIndirect = pick(cli.IncludeIndirect, file.IncludeIndirect, cfg.IncludeIndirect)

	cfg.OutputFormat = pick(cli.OutputFormat, file.OutputFormat, cfg.OutputFormat)

	return cfg
}

func pick[T any](cli, file *T, def T) T {
	if cli != nil {
		return *cli
	}
	if file != nil {
		return *file
	}
	return def
}

func pickSlice(cli, file, def []string) []string {
	if cli != nil {
		return append([]string(nil), cli...)
	}
	if file != nil {
		return append([]string(nil), file...)
	}
	return def
}

// Validate checks the values that do not depend on the file system
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ProjectPath) == "" {
		return fmt.Errorf("project_path must be set")
	}

	if c.MethodLengthThreshold <= 0 {
		return fmt.Errorf("method_length_threshold must be greater than 0, got %d", c.MethodLengthThreshold)
	}

	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be greater than 0, got %d", c.MaxConcurrency)
	}

	if c.CheckPackages {
		if c.RegistryURL == "" {
			return fmt.Errorf("registry_url must be set when check_packages is enabled")
		}
		if c.RegistryTimeout <= 0 {
			return fmt.Errorf("registry_timeout must be positive, got %s", c.RegistryTimeout)
		}
		if c.RegistryConcurrency <= 0 {
			return fmt.Errorf("registry_concurrency must be greater than 0, got %d", c.RegistryConcurrency)
		}
	}

	switch strings.ToLower(c.OutputFormat) {
	case constants.OutputFormatText, constants.OutputFormatJSON, constants.OutputFormatYAML, constants.OutputFormatHTML, "yml":
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml, html)", c.OutputFormat)
	}

	return nil
}

// MethodLengthEnabled reports whether long methods are reported. Nil-safe.
func (c *Config) MethodLengthEnabled() bool {
	return c != nil && c.CheckMethodLength
}

// MagicNumbersEnabled reports whether magic numbers are reported. Nil-safe.
func (c *Config) MagicNumbersEnabled() bool {
	return c != nil && c.CheckMagicNumbers
}

// LineCountEnabled reports whether lines are counted. Nil-safe.
func (c *Config) LineCountEnabled() bool {
	return c != nil && c.CountLines
}

// UnusedImportsEnabled reports whether unused imports are reported. Nil-safe.
func (c *Config) UnusedImportsEnabled() bool {
	return c != nil && c.CheckUnusedImports
}

// PackagesEnabled reports whether package freshness is checked. Nil-safe.
func (c *Config) PackagesEnabled() bool {
	return c != nil && c.CheckPackages
}

// Threshold returns the method length threshold, falling back to the default
// for a nil or unvalidated config.
func (c *Config) Threshold() int {
	if c == nil || c.MethodLengthThreshold <= 0 {
		return DefaultMethodLengthThreshold
	}
	return c.MethodLengthThreshold
}

// NeedsTypes reports whether documents must be type-checked, not only parsed
func (c *Config) NeedsTypes() bool {
	return c.UnusedImportsEnabled()
}

// AnyDocumentCheckEnabled reports whether at least one per-document check runs
func (c *Config) AnyDocumentCheckEnabled() bool {
	return c.MethodLengthEnabled() || c.MagicNumbersEnabled() || c.LineCountEnabled() || c.UnusedImportsEnabled()
}
