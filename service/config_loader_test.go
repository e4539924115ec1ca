package service

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestConfigurationLoader_Load_FieldLevelMerge(t *testing.T) {
	project := testutil.WriteModule(t, map[string]string{"main.go": "package main\n"})
	configFile := filepath.Join(t.TempDir(), "rotron.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("check_method_length: false\ncheck_magic_numbers: true\n"), 0o644))

	cli := config.Settings{ProjectPath: ptr(project), CheckMethodLength: ptr(true)}
	cfg, err := NewConfigurationLoader(nil).Load(cli, configFile)
	require.NoError(t, err)

	assert.True(t, cfg.CheckMethodLength)
	assert.True(t, cfg.CheckMagicNumbers)
	assert.Equal(t, config.DefaultMethodLengthThreshold, cfg.MethodLengthThreshold)
}

func TestConfigurationLoader_Load_MalformedFileFallsBack(t *testing.T) {
	project := testutil.WriteModule(t, map[string]string{"main.go": "package main\n"})
	configFile := filepath.Join(t.TempDir(), "rotron.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("check_method_length: [unterminated\n"), 0o644))

	var logs bytes.Buffer
	cfg, err := NewConfigurationLoader(bufferLogger(&logs)).Load(config.Settings{ProjectPath: ptr(project)}, configFile)
	require.NoError(t, err)

	assert.False(t, cfg.CheckMethodLength)
	assert.Contains(t, logs.String(), "falling back to defaults")
	assert.Contains(t, logs.String(), string(domain.ErrCodeConfigFileParse))
}

func TestConfigurationLoader_Load_MissingFileIsNotAnError(t *testing.T) {
	project := testutil.WriteModule(t, map[string]string{"main.go": "package main\n"})

	cfg, err := NewConfigurationLoader(nil).Load(
		config.Settings{ProjectPath: ptr(project), CountLines: ptr(true)},
		filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.CountLines)
}

func TestConfigurationLoader_Load_ProjectFromFile(t *testing.T) {
	project := testutil.WriteModule(t, map[string]string{"main.go": "package main\n"})
	configFile := filepath.Join(t.TempDir(), "rotron.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("project_path: "+project+"\n"), 0o644))

	cfg, err := NewConfigurationLoader(nil).Load(config.Settings{}, configFile)
	require.NoError(t, err)
	assert.Equal(t, project, cfg.ProjectPath)
}

func TestConfigurationLoader_Load_InvalidConfiguration(t *testing.T) {
	project := testutil.WriteModule(t, map[string]string{"main.go": "package main\n"})
	noModule := t.TempDir()
	absent := filepath.Join(t.TempDir(), "file.yaml")

	tests := []struct {
		name string
		cli  config.Settings
	}{
		{"empty project path", config.Settings{}},
		{"missing project", config.Settings{ProjectPath: ptr(filepath.Join(noModule, "missing"))}},
		{"directory without go.mod", config.Settings{ProjectPath: ptr(noModule)}},
		{"non-positive threshold", config.Settings{ProjectPath: ptr(project), MethodLengthThreshold: ptr(0)}},
		{"unknown format", config.Settings{ProjectPath: ptr(project), OutputFormat: ptr("xml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfigurationLoader(nil).Load(tt.cli, absent)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, domain.IsConfigurationError(err), "got %v", err)
			assert.True(t, domain.IsFatal(err))
		})
	}
}

func TestConfigurationLoader_ValidateProject_AcceptsManifest(t *testing.T) {
	project := testutil.WriteModule(t, map[string]string{"main.go": "package main\n"})
	cfg := config.DefaultConfig()
	cfg.ProjectPath = filepath.Join(project, "go.mod")

	require.NoError(t, NewConfigurationLoader(nil).ValidateProject(cfg))
	assert.Equal(t, project, cfg.ProjectPath)
}

func TestConfigurationLoader_ValidateProject_RejectsOtherFile(t *testing.T) {
	project := testutil.WriteModule(t, map[string]string{"main.go": "package main\n"})
	cfg := config.DefaultConfig()
	cfg.ProjectPath = filepath.Join(project, "main.go")

	err := NewConfigurationLoader(nil).ValidateProject(cfg)
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestConfigurationLoader_EnvironmentLayer(t *testing.T) {
	project := testutil.WriteModule(t, map[string]string{"main.go": "package main\n"})
	t.Setenv("ROTRON_CHECK_UNUSED_IMPORTS", "true")

	cfg, err := NewConfigurationLoader(nil).Load(config.Settings{ProjectPath: ptr(project)}, filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.CheckUnusedImports)
}
