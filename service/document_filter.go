package service

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/constants"
	"github.com/ludo-technologies/rotron/internal/parser"
	ignore "github.com/sabhiram/go-gitignore"
)

// DocumentFilter decides which documents the checks see. Every exclusion rule
// lives here so that no check has to repeat it.
type DocumentFilter struct {
	generatedSuffixes []string
	excludes          *ignore.GitIgnore
	gitignore         *ignore.GitIgnore
}

// NewDocumentFilter builds the filter for a module rooted at root. A missing
// or unreadable .gitignore disables gitignore matching without failing.
func NewDocumentFilter(root string, cfg *config.Config, logger *slog.Logger) *DocumentFilter {
	if logger == nil {
		logger = slog.Default()
	}
	f := &DocumentFilter{}
	if cfg == nil {
		f.generatedSuffixes = config.DefaultGeneratedSuffixes
		return f
	}

	f.generatedSuffixes = cfg.GeneratedSuffixes
	var patterns []string
	for _, p := range cfg.ExcludePatterns {
		if p = strings.TrimSpace(filepath.ToSlash(p)); p != "" {
			patterns = append(patterns, strings.TrimPrefix(p, "./"))
		}
	}
	if len(patterns) > 0 {
		// exclude patterns follow .gitignore syntax, including **
		f.excludes = ignore.CompileIgnoreLines(patterns...)
	}

	if cfg.UseGitignore && root != "" {
		gitignorePath := filepath.Join(root, constants.GitignoreFileName)
		gi, err := ignore.CompileIgnoreFile(gitignorePath)
		switch {
		case err == nil:
			f.gitignore = gi
		case errors.Is(err, fs.ErrNotExist):
		default:
			logger.Warn("ignoring unreadable .gitignore", "path", gitignorePath, "error", err)
		}
	}
	return f
}

// SkipReason returns why doc is excluded, or "" when every check should see it.
// Documents that failed to parse are reported separately by the runner.
func (f *DocumentFilter) SkipReason(doc *parser.Document) string {
	if f == nil || doc == nil {
		return ""
	}
	if f.excludes != nil && f.excludes.MatchesPath(doc.Name) {
		return domain.SkipExcluded
	}
	if f.gitignore != nil && f.gitignore.MatchesPath(doc.Name) {
		return domain.SkipGitignored
	}
	if parser.IsGenerated(doc, f.generatedSuffixes) {
		return domain.SkipGenerated
	}
	return ""
}

// Partition splits documents into those to analyze and those skipped, keeping order
func (f *DocumentFilter) Partition(docs []*parser.Document) ([]*parser.Document, []domain.SkippedDocument) {
	var eligible []*parser.Document
	var skipped []domain.SkippedDocument
	for _, doc := range docs {
		if reason := f.SkipReason(doc); reason != "" {
			skipped = append(skipped, domain.SkippedDocument{DocumentName: doc.Name, Reason: reason})
			continue
		}
		eligible = append(eligible, doc)
	}
	return eligible, skipped
}
