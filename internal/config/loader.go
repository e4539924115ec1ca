package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/rotron/internal/constants"
	"github.com/spf13/viper"
)

// DefaultConfigFile is read from the working directory when --config is not given
const DefaultConfigFile = constants.ConfigFileName

// EnvPrefix is the prefix of environment variables that override file settings
const EnvPrefix = constants.EnvVarPrefix

// settingKeys lists every key a file or the environment may set
var settingKeys = []string{
	"project_path",
	"check_method_length",
	"method_length_threshold",
	"check_magic_numbers",
	"count_lines",
	"check_packages",
	"check_unused_imports",
	"include_tests",
	"exclude_patterns",
	"generated_suffixes",
	"use_gitignore",
	"max_concurrency",
	"registry_url",
	"registry_timeout",
	"registry_concurrency",
	"registry_rate_limit",
	"include_indirect",
	"output_format",
}

// FileError reports a configuration file that exists but cannot be used
type FileError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("failed to read config file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Err
}

// ParseSettings parses configuration content in the given format (yaml, json, toml)
func ParseSettings(content []byte, format string) (Settings, error) {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigType(strings.TrimPrefix(format, "."))

	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return Settings{}, err
	}
	return decode(v)
}

// LoadSettings reads the file layer: the config file at path with ROTRON_* environment
// variables applied over it. A missing file is not an error. When the file exists but
// cannot be parsed, the environment settings are returned together with a *FileError.
func LoadSettings(path string) (Settings, error) {
	v := newEnvViper()

	if path == "" {
		return decode(v)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return decode(v)
		}
		envOnly, _ := decode(v)
		return envOnly, &FileError{Path: path, Err: err}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		envOnly, _ := decode(v)
		return envOnly, &FileError{Path: path, Err: err}
	}

	v.SetConfigType(configType(path))
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		envOnly, _ := decode(newEnvViper())
		return envOnly, &FileError{Path: path, Err: err}
	}

	settings, err := decode(v)
	if err != nil {
		envOnly, _ := decode(newEnvViper())
		return envOnly, &FileError{Path: path, Err: err}
	}
	return settings, nil
}

func newEnvViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range settingKeys {
		_ = v.BindEnv(key)
	}
	return v
}

func decode(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return s, nil
}

// configType derives the viper config type from the file extension, defaulting to yaml
func configType(path string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "yaml", "yml", "json", "toml":
		return ext
	default:
		return "yaml"
	}
}
