package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/ludo-technologies/rotron/internal/analyzer"
	"github.com/ludo-technologies/rotron/internal/config"
	"github.com/ludo-technologies/rotron/internal/parser"
	"github.com/ludo-technologies/rotron/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCheck is a check whose behavior is scripted per document
type stubCheck struct {
	id      string
	enabled bool
	calls   atomic.Int32
	run     func(dctx *analyzer.DocumentContext) ([]domain.Diagnostic, error)
}

func (c *stubCheck) ID() string { return c.id }
func (c *stubCheck) Description() string { return "stub" }
func (c *stubCheck) Enabled(_ *config.Config) bool { return c.enabled }
func (c *stubCheck) Run(dctx *analyzer.DocumentContext, _ *config.Config) ([]domain.Diagnostic, error) {
	c.calls.Add(1)
	if c.run == nil {
		return nil, nil
	}
	return c.run(dctx)
}

func echoCheck(id string) *stubCheck {
	return &stubCheck{id: id, enabled: true, run: func(dctx *analyzer.DocumentContext) ([]domain.Diagnostic, error) {
		return []domain.Diagnostic{{Check: id, DocumentName: dctx.Name(), Value: id}}, nil
	}}
}

func sampleDocs(t *testing.T, n int) []*parser.Document {
	t.Helper()
	docs := make([]*parser.Document, n)
	for i := range docs {
		docs[i] = testutil.ParseDocument(t, fmt.Sprintf("file%02d.go", i), "package sample\n")
	}
	return docs
}

func TestCheckRunner_DeterministicOrder(t *testing.T) {
	docs := sampleDocs(t, 20)
	checks := []analyzer.Check{echoCheck("first"), echoCheck("second")}

	result, err := NewCheckRunner(8).Run(context.Background(), docs, checks, config.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 40)
	for i, doc := range docs {
		assert.Equal(t, doc.Name, result.Diagnostics[2*i].DocumentName)
		assert.Equal(t, "first", result.Diagnostics[2*i].Check)
		assert.Equal(t, "second", result.Diagnostics[2*i+1].Check)
	}
	assert.Equal(t, 20, result.DocumentsAnalyzed)
}

func TestCheckRunner_FailureIsolated(t *testing.T) {
	docs := sampleDocs(t, 3)
	failing := &stubCheck{id: "failing", enabled: true, run: func(dctx *analyzer.DocumentContext) ([]domain.Diagnostic, error) {
		if dctx.Name() == "file01.go" {
			return nil, errors.New("cannot resolve symbol")
		}
		return nil, nil
	}}
	checks := []analyzer.Check{failing, echoCheck("after")}

	result, err := NewCheckRunner(2).Run(context.Background(), docs, checks, config.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "failing", result.Failures[0].Check)
	assert.Equal(t, "file01.go", result.Failures[0].DocumentName)
	assert.Contains(t, result.Failures[0].Message, "cannot resolve symbol")
	assert.Len(t, result.Diagnostics, 3, "the other check still runs on every document")
}

func TestCheckRunner_PanicIsolated(t *testing.T) {
	docs := sampleDocs(t, 2)
	panicking := &stubCheck{id: "panicking", enabled: true, run: func(dctx *analyzer.DocumentContext) ([]domain.Diagnostic, error) {
		if dctx.Name() == "file00.go" {
			panic("boom")
		}
		return []domain.Diagnostic{{Check: "panicking", DocumentName: dctx.Name()}}, nil
	}}

	result, err := NewCheckRunner(1).Run(context.Background(), docs, []analyzer.Check{panicking}, config.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Message, "boom")
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "file01.go", result.Diagnostics[0].DocumentName)
}

func TestCheckRunner_DisabledChecksNotCalled(t *testing.T) {
	disabled := &stubCheck{id: "disabled"}

	result, err := NewCheckRunner(4).Run(context.Background(), sampleDocs(t, 5), []analyzer.Check{disabled}, config.DefaultConfig())
	require.NoError(t, err)

	assert.Zero(t, disabled.calls.Load())
	assert.Empty(t, result.Diagnostics)
}

func TestCheckRunner_ParseErrorSkipped(t *testing.T) {
	docs := sampleDocs(t, 2)
	broken := &parser.Document{Name: "broken.go", Err: domain.NewDocumentParseError("expected declaration", nil)}
	docs = append(docs, broken)
	check := echoCheck("echo")

	result, err := NewCheckRunner(2).Run(context.Background(), docs, []analyzer.Check{check}, config.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, result.DocumentsAnalyzed)
	assert.Len(t, result.Diagnostics, 2)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, domain.SkippedDocument{DocumentName: "broken.go", Reason: domain.SkipParseError}, result.Skipped[0])
}

func TestCheckRunner_GeneratedFilesSkippedCentrally(t *testing.T) {
	docs := []*parser.Document{
		testutil.ParseDocument(t, "main.go", "package sample\n"),
		testutil.ParseDocument(t, "api.pb.go", "package sample\n"),
		testutil.ParseDocument(t, "zz_types.go", "// Code generated by tool. DO NOT EDIT.\n\npackage sample\n"),
	}
	cfg := config.DefaultConfig()
	check := echoCheck("echo")

	runner := NewCheckRunner(2, WithFilter(NewDocumentFilter("", cfg, nil)))
	result, err := runner.Run(context.Background(), docs, []analyzer.Check{check}, cfg)
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "main.go", result.Diagnostics[0].DocumentName)
	assert.Len(t, result.Skipped, 2)
	assert.EqualValues(t, 1, check.calls.Load())
}

func TestCheckRunner_LineTotalEqualsSum(t *testing.T) {
	docs := []*parser.Document{
		testutil.ParseDocument(t, "a.go", "package sample\n"),
		testutil.ParseDocument(t, "b.go", "package sample\n\nvar x = 1\n"),
		testutil.ParseDocument(t, "c.go", "package sample"),
	}
	cfg := config.DefaultConfig()
	cfg.CountLines = true

	result, err := NewCheckRunner(3).Run(context.Background(), docs, analyzer.NewRegistry().Enabled(cfg), cfg)
	require.NoError(t, err)

	sum := 0
	total := -1
	for _, d := range result.Diagnostics {
		switch d.Kind {
		case domain.KindLineCount:
			sum += d.Location.EndLine
		case domain.KindLineTotal:
			fmt.Sscan(d.Value, &total)
		}
	}
	assert.Equal(t, 7, sum)
	assert.Equal(t, sum, total)
	assert.Equal(t, domain.KindLineTotal, result.Diagnostics[len(result.Diagnostics)-1].Kind)
}

func TestCheckRunner_FiftyLineMethod(t *testing.T) {
	src := "package sample\n\n" + testutil.FuncWithLines("Process", 50)
	cfg := config.DefaultConfig()
	cfg.CheckMethodLength = true

	result, err := NewCheckRunner(1).Run(context.Background(),
		[]*parser.Document{testutil.ParseDocument(t, "process.go", src)},
		analyzer.NewRegistry().Enabled(cfg), cfg)
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.KindMethodLength, result.Diagnostics[0].Kind)
	assert.Equal(t, "Process", result.Diagnostics[0].Scope)
	assert.Equal(t, "50", result.Diagnostics[0].Value)
}

func TestCheckRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewCheckRunner(2).Run(ctx, sampleDocs(t, 4), []analyzer.Check{echoCheck("echo")}, config.DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestCheckRunner_ReportsProgress(t *testing.T) {
	pm := &countingProgress{}
	_, err := NewCheckRunner(2, WithProgress(pm)).Run(context.Background(), sampleDocs(t, 6), []analyzer.Check{echoCheck("echo")}, config.DefaultConfig())
	require.NoError(t, err)

	assert.EqualValues(t, 6, pm.task.done.Load())
	assert.True(t, pm.task.completed.Load())
}

type countingProgress struct {
	SilentProgress
	task countingTask
}

func (p *countingProgress) StartTask(_ string, _ int) domain.TaskProgress { return &p.task }

type countingTask struct {
	done      atomic.Int32
	completed atomic.Bool
}

func (t *countingTask) Increment(n int) { t.done.Add(int32(n)) }
func (t *countingTask) Describe(_ string) {}
func (t *countingTask) Complete() { t.completed.Store(true) }
