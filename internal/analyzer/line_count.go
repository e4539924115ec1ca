package analyzer

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/config"
)

// CheckLineCount is the ID of LineCountCheck
const CheckLineCount = "line-count"

// LineCountCheck reports the line count of every document and, once all
// documents ran, the total. It is safe for concurrent use.
type LineCountCheck struct {
	total     atomic.Int64
	documents atomic.Int64
}

// NewLineCountCheck creates a line count check with a zero total
func NewLineCountCheck() *LineCountCheck {
	return &LineCountCheck{}
}

func (c *LineCountCheck) ID() string { return CheckLineCount }

func (c *LineCountCheck) Description() string {
	return "Reports the number of lines of every file and of the whole module"
}

func (c *LineCountCheck) Enabled(cfg *config.Config) bool {
	return cfg.LineCountEnabled()
}

func (c *LineCountCheck) Run(dctx *DocumentContext, cfg *config.Config) ([]domain.Diagnostic, error) {
	if !c.Enabled(cfg) {
		return nil, nil
	}

	lines := dctx.Document().LineCount()
	c.total.Add(int64(lines))
	c.documents.Add(1)

	return []domain.Diagnostic{{
		Kind:         domain.KindLineCount,
		Check:        CheckLineCount,
		Severity:     domain.SeverityInfo,
		DocumentName: dctx.Name(),
		Location:     domain.Location{StartLine: 1, EndLine: lines},
		Message:      fmt.Sprintf("%d lines", lines),
		Value:        strconv.Itoa(lines),
	}}, nil
}

// Total returns the lines counted so far
func (c *LineCountCheck) Total() int {
	return int(c.total.Load())
}

// Finish reports the module total
func (c *LineCountCheck) Finish(cfg *config.Config) []domain.Diagnostic {
	if !c.Enabled(cfg) {
		return nil
	}

	total := c.Total()
	return []domain.Diagnostic{{
		Kind:     domain.KindLineTotal,
		Check:    CheckLineCount,
		Severity: domain.SeverityInfo,
		Message:  fmt.Sprintf("%d lines in %d files", total, c.documents.Load()),
		Value:    strconv.Itoa(total),
	}}
}
