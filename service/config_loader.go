package service

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/constants"
)

// ConfigurationLoader turns the command line, the config file and the
// environment into one validated configuration.
type ConfigurationLoader struct {
	logger *slog.Logger
}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader(logger *slog.Logger) *ConfigurationLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigurationLoader{logger: logger}
}

// Load reads the file layer from path (the default config file when empty),
// merges it under the CLI settings and validates the result. A malformed
// config file is logged and ignored. Every returned error is a
// ConfigurationError.
func (l *ConfigurationLoader) Load(cli config.Settings, path string) (*config.Config, error) {
	file := l.LoadFileSettings(path)

	cfg := config.Resolve(cli, file)
	if err := cfg.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	if err := l.ValidateProject(cfg); err != nil {
		return nil, err
	}

	l.logger.Debug("configuration resolved",
		"project", cfg.ProjectPath,
		"method_length", cfg.CheckMethodLength,
		"threshold", cfg.MethodLengthThreshold,
		"magic_numbers", cfg.CheckMagicNumbers,
		"count_lines", cfg.CountLines,
		"packages", cfg.CheckPackages,
		"unused_imports", cfg.CheckUnusedImports)
	return cfg, nil
}

// LoadFileSettings returns the file layer. A missing file yields the
// environment settings alone; so does a malformed one, after a warning.
func (l *ConfigurationLoader) LoadFileSettings(path string) config.Settings {
	if path == "" {
		path = config.DefaultConfigFile
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		var fileErr *config.FileError
		if errors.As(err, &fileErr) {
			parseErr := domain.NewConfigFileParseError("ignoring config file "+fileErr.Path, fileErr.Err)
			l.logger.Warn("falling back to defaults", "code", domain.CodeOf(parseErr), "error", parseErr)
			return settings
		}
		l.logger.Warn("failed to load config file", "path", path, "error", err)
		return settings
	}

	l.logger.Debug("config file layer loaded", "path", path)
	return settings
}

// ValidateProject checks that the project path names a readable Go module,
// either its directory or its go.mod, and normalizes it to the absolute
// module directory.
func (l *ConfigurationLoader) ValidateProject(cfg *config.Config) error {
	abs, err := filepath.Abs(cfg.ProjectPath)
	if err != nil {
		return domain.NewConfigError("invalid project path "+cfg.ProjectPath, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewConfigError(fmt.Sprintf("project path %s does not exist", cfg.ProjectPath), err)
		}
		return domain.NewConfigError(fmt.Sprintf("project path %s is not accessible", cfg.ProjectPath), err)
	}

	dir := abs
	if !info.IsDir() {
		if filepath.Base(abs) != constants.ManifestFileName {
			return domain.NewConfigError(
				fmt.Sprintf("project path %s must be a module directory or its %s", cfg.ProjectPath, constants.ManifestFileName), nil)
		}
		dir = filepath.Dir(abs)
	}

	manifest := filepath.Join(dir, constants.ManifestFileName)
	f, err := os.Open(manifest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewConfigError(fmt.Sprintf("no %s found in %s", constants.ManifestFileName, dir), err)
		}
		return domain.NewConfigError(fmt.Sprintf("%s is not readable", manifest), err)
	}
	_ = f.Close()

	if _, err := os.ReadDir(dir); err != nil {
		return domain.NewConfigError(fmt.Sprintf("project directory %s is not readable", dir), err)
	}

	cfg.ProjectPath = dir
	return nil
}
