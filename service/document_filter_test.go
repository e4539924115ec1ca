package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentFilter_SkipReason(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("scratch/\n*_local.go\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.ExcludePatterns = []string{"vendor", "internal/legacy/*.go", "*_mock.go"}
	filter := NewDocumentFilter(root, cfg, nil)

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"main.go", "package main\n", ""},
		{"internal/legacy/old.go", "package legacy\n", domain.SkipExcluded},
		{"internal/legacy/sub/old.go", "package sub\n", ""},
		{"vendor/example.com/lib/lib.go", "package lib\n", domain.SkipExcluded},
		{"store/store_mock.go", "package store\n", domain.SkipExcluded},
		{"scratch/try.go", "package scratch\n", domain.SkipGitignored},
		{"debug_local.go", "package main\n", domain.SkipGitignored},
		{"api/api.pb.go", "package api\n", domain.SkipGenerated},
		{"kind_string.go", "package main\n", domain.SkipGenerated},
		{"zz_deepcopy.go", "// Code generated by controller-gen. DO NOT EDIT.\n\npackage main\n", domain.SkipGenerated},
		{"notes.go", "// Code generated is mentioned here but this is handwritten.\n\npackage main\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testutil.ParseDocument(t, tt.name, tt.source)
			assert.Equal(t, tt.want, filter.SkipReason(doc))
		})
	}
}

func TestDocumentFilter_DoubleStarExcludes(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ExcludePatterns = []string{" ./vendor/** ", "**/mocks/**", "**/*_mock.go", ""}
	filter := NewDocumentFilter("", cfg, nil)

	tests := map[string]string{
		"vendor/example.com/lib/lib.go": domain.SkipExcluded,
		"internal/store/mocks/store.go": domain.SkipExcluded,
		"deep/nested/repo_mock.go":      domain.SkipExcluded,
		"internal/store/store.go":       "",
		"vendored.go":                   "",
	}
	for name, want := range tests {
		doc := testutil.ParseDocument(t, name, "package x\n")
		assert.Equal(t, want, filter.SkipReason(doc), name)
	}
}

func TestDocumentFilter_GitignoreDisabled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.go\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.UseGitignore = false
	filter := NewDocumentFilter(root, cfg, nil)

	assert.Empty(t, filter.SkipReason(testutil.ParseDocument(t, "main.go", "package main\n")))
}

func TestDocumentFilter_NoGitignoreFile(t *testing.T) {
	filter := NewDocumentFilter(t.TempDir(), config.DefaultConfig(), nil)
	assert.Empty(t, filter.SkipReason(testutil.ParseDocument(t, "main.go", "package main\n")))
}

func TestDocumentFilter_Partition(t *testing.T) {
	docs := sampleDocs(t, 3)
	docs = append(docs, testutil.ParseDocument(t, "gen_gen.go", "package sample\n"))

	eligible, skipped := NewDocumentFilter("", config.DefaultConfig(), nil).Partition(docs)

	assert.Len(t, eligible, 3)
	assert.Equal(t, []domain.SkippedDocument{{DocumentName: "gen_gen.go", Reason: domain.SkipGenerated}}, skipped)
}

func TestDocumentFilter_NilConfig(t *testing.T) {
	filter := NewDocumentFilter("", nil, nil)
	assert.Equal(t, domain.SkipGenerated, filter.SkipReason(testutil.ParseDocument(t, "x.pb.go", "package x\n")))
	assert.Empty(t, filter.SkipReason(testutil.ParseDocument(t, "x.go", "package x\n")))
}
