package config

import (
	"strconv"
	"strings"
)

// ProjectType represents the kind of Go module being configured
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeService ProjectType = "service"
	ProjectTypeLibrary ProjectType = "library"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds configuration presets for different project types
type ProjectPreset struct {
	IncludeTests    bool
	ExcludePatterns []string
}

// StrictnessPreset holds check settings for different strictness levels
type StrictnessPreset struct {
	MethodLengthThreshold int
	CheckMagicNumbers     bool
	CheckUnusedImports    bool
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			ExcludePatterns: []string{"vendor/**", "testdata/**"},
		},
		ProjectTypeService: {
			ExcludePatterns: []string{"vendor/**", "testdata/**", "**/mocks/**", "**/*_mock.go"},
		},
		ProjectTypeLibrary: {
			IncludeTests:    true,
			ExcludePatterns: []string{"vendor/**", "testdata/**", "examples/**"},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MethodLengthThreshold: 60,
		},
		StrictnessStandard: {
			MethodLengthThreshold: DefaultMethodLengthThreshold,
			CheckUnusedImports:    true,
		},
		StrictnessStrict: {
			MethodLengthThreshold: 25,
			CheckMagicNumbers:     true,
			CheckUnusedImports:    true,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	preset, ok := GetProjectPresets()[projectType]
	if !ok {
		preset = GetProjectPresets()[ProjectTypeGeneric]
	}
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	return `# rotron configuration
# Command line flags override these values; ROTRON_<KEY> environment
# variables override the file.

# ============================================================================
# PROJECT
# ============================================================================
# Path to go.mod or to the directory containing it
project_path: .

# Analyze _test.go files as well
include_tests: ` + strconv.FormatBool(preset.IncludeTests) + `

# Glob patterns (relative to the module root) that are never analyzed
exclude_patterns:` + formatYAMLList(preset.ExcludePatterns) + `

# Files ending in one of these suffixes are treated as generated.
# Files with a "Code generated ... DO NOT EDIT." header always are.
generated_suffixes:` + formatYAMLList(DefaultGeneratedSuffixes) + `

# Skip files ignored by the module's .gitignore
use_gitignore: true

# ============================================================================
# CHECKS
# ============================================================================
# Report functions and methods longer than method_length_threshold lines
check_method_length: true
method_length_threshold: ` + strconv.Itoa(strict.MethodLengthThreshold) + `

# Report numeric literals other than 0 and 1 inside functions
check_magic_numbers: ` + strconv.FormatBool(strict.CheckMagicNumbers) + `

# Report the line count of every file and the module total
count_lines: true

# Report imports that no identifier in the file refers to
check_unused_imports: ` + strconv.FormatBool(strict.CheckUnusedImports) + `

# ============================================================================
# PACKAGES
# ============================================================================
# Compare go.mod requirements with the latest versions on the module proxy
check_packages: false
registry_url: ` + DefaultRegistryURL + `
registry_timeout: ` + DefaultRegistryTimeout.String() + `
registry_concurrency: ` + strconv.Itoa(DefaultRegistryConcurrency) + `
include_indirect: false

# ============================================================================
# OUTPUT
# ============================================================================
# Output format: text, json, yaml, html
output_format: text
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# rotron configuration (minimal)
project_path: .
check_method_length: true
method_length_threshold: ` + strconv.Itoa(DefaultMethodLengthThreshold) + `
check_magic_numbers: false
count_lines: true
check_unused_imports: true
check_packages: false
`
}

// formatYAMLList formats a string slice as an indented YAML block sequence
func formatYAMLList(items []string) string {
	if len(items) == 0 {
		return " []"
	}

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("\n  - ")
		sb.WriteString(strconv.Quote(item))
	}
	return sb.String()
}
