package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/rotron/domain"
)

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// OpenOutput returns the writer a report goes to: fallback when path is
// empty, otherwise the created file. Parent directories are created.
// The returned close function must always be called.
func (h *FileHelper) OpenOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, domain.NewOutputError("failed to create output directory "+dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, domain.NewOutputError("failed to create output file "+path, err)
	}
	return f, f.Close, nil
}

// WriteNewFile writes content to path. An existing file is only replaced
// when force is set.
func (h *FileHelper) WriteNewFile(path string, content []byte, force bool) error {
	exists, err := h.FileExists(path)
	if err != nil {
		return err
	}
	if exists && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, content, 0o644)
}
