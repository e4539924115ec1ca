package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/analyzer"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/parser"
	"golang.org/x/sync/errgroup"
)

// CheckRunner runs the enabled checks against every eligible document.
// Documents are analyzed concurrently; the result does not depend on scheduling.
type CheckRunner struct {
	maxConcurrency int
	progress       domain.ProgressManager
	filter         *DocumentFilter
	logger         *slog.Logger
}

// CheckRunnerOption configures a CheckRunner
type CheckRunnerOption func(*CheckRunner)

// WithProgress reports per-document progress to pm
func WithProgress(pm domain.ProgressManager) CheckRunnerOption {
	return func(r *CheckRunner) {
		if pm != nil {
			r.progress = pm
		}
	}
}

// WithFilter excludes documents the filter rejects
func WithFilter(f *DocumentFilter) CheckRunnerOption {
	return func(r *CheckRunner) {
		r.filter = f
	}
}

// WithLogger sets the logger for check failures
func WithLogger(logger *slog.Logger) CheckRunnerOption {
	return func(r *CheckRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewCheckRunner creates a runner with at most maxConcurrency documents in flight.
// A non-positive value uses runtime.NumCPU().
func NewCheckRunner(maxConcurrency int, opts ...CheckRunnerOption) *CheckRunner {
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.NumCPU()
	}
	r := &CheckRunner{
		maxConcurrency: maxConcurrency,
		progress:       SilentProgress{},
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// documentResult is the slot one worker fills for one document
type documentResult struct {
	diagnostics []domain.Diagnostic
	failures    []domain.CheckFailure
}

// Run analyzes docs with checks. Within a document, checks run in the given
// order and each check's diagnostics keep source order; documents are merged
// in input order. A failing check is recorded and the run continues. The only
// error returned is the context's.
func (r *CheckRunner) Run(ctx context.Context, docs []*parser.Document, checks []analyzer.Check, cfg *config.Config) (*domain.RunResult, error) {
	result := &domain.RunResult{}

	var eligible []*parser.Document
	for _, doc := range docs {
		if doc.Err != nil {
			r.logger.Debug("skipping document that failed to parse", "document", doc.Name, "error", doc.Err)
			result.Skipped = append(result.Skipped, domain.SkippedDocument{
				DocumentName: doc.Name,
				Reason:       domain.SkipParseError,
			})
			continue
		}
		eligible = append(eligible, doc)
	}

	if r.filter != nil {
		var skipped []domain.SkippedDocument
		eligible, skipped = r.filter.Partition(eligible)
		result.Skipped = append(result.Skipped, skipped...)
	}

	var enabled []analyzer.Check
	for _, c := range checks {
		if c.Enabled(cfg) {
			enabled = append(enabled, c)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.DocumentsAnalyzed = len(eligible)
	if len(eligible) == 0 || len(enabled) == 0 {
		result.Diagnostics = append(result.Diagnostics, finish(enabled, cfg)...)
		return result, nil
	}

	task := r.progress.StartTask("Analyzing files", len(eligible))
	defer task.Complete()

	slots := make([]documentResult, len(eligible))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i, doc := range eligible {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			slots[i] = r.runDocument(doc, enabled, cfg)
			task.Describe(doc.Name)
			task.Increment(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, slot := range slots {
		result.Diagnostics = append(result.Diagnostics, slot.diagnostics...)
		result.Failures = append(result.Failures, slot.failures...)
	}
	result.Diagnostics = append(result.Diagnostics, finish(enabled, cfg)...)

	return result, nil
}

// runDocument runs every check against one document, sharing one context
func (r *CheckRunner) runDocument(doc *parser.Document, checks []analyzer.Check, cfg *config.Config) documentResult {
	var res documentResult
	dctx := analyzer.NewDocumentContext(doc)
	for _, c := range checks {
		diags, err := runCheck(c, dctx, cfg)
		if err != nil {
			r.logger.Warn("check failed", "check", c.ID(), "document", doc.Name, "error", err)
			res.failures = append(res.failures, domain.CheckFailure{
				Check:        c.ID(),
				DocumentName: doc.Name,
				Message:      err.Error(),
			})
			continue
		}
		res.diagnostics = append(res.diagnostics, diags...)
	}
	return res
}

// runCheck turns a panic inside a check into an error
func runCheck(c analyzer.Check, dctx *analyzer.DocumentContext, cfg *config.Config) (diags []domain.Diagnostic, err error) {
	defer func() {
		if p := recover(); p != nil {
			diags = nil
			err = fmt.Errorf("panic: %v", p)
			slog.Debug("recovered check panic", "check", c.ID(), "document", dctx.Name(), "stack", string(debug.Stack()))
		}
	}()
	return c.Run(dctx, cfg)
}

func finish(checks []analyzer.Check, cfg *config.Config) []domain.Diagnostic {
	var diags []domain.Diagnostic
	for _, c := range checks {
		if f, ok := c.(analyzer.Finisher); ok {
			diags = append(diags, f.Finish(cfg)...)
		}
	}
	return diags
}
