package service

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/ludo-technologies/rotron/domain"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// NewProgressManager returns terminal progress bars on stderr when enabled
// and stderr is an interactive terminal, and silent progress otherwise.
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return NewProgressManagerWithWriter(os.Stderr)
	}
	return SilentProgress{}
}

// IsInteractiveEnvironment reports whether stderr is attached to a terminal
// and the environment does not ask for plain output.
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TerminalProgress draws one progress bar per task on a writer. Tasks may be
// started from several goroutines; Close finishes whatever is still open.
type TerminalProgress struct {
	out io.Writer

	mu   sync.Mutex
	open []*barTask
}

// NewProgressManagerWithWriter draws progress bars on w regardless of the environment
func NewProgressManagerWithWriter(w io.Writer) *TerminalProgress {
	return &TerminalProgress{out: w}
}

var barTheme = progressbar.Theme{
	Saucer:        "█",
	SaucerHead:    "█",
	SaucerPadding: "░",
	BarStart:      "[",
	BarEnd:        "]",
}

func (p *TerminalProgress) StartTask(description string, total int) domain.TaskProgress {
	task := &barTask{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(barTheme),
		progressbar.OptionSetWidth(18),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(p.out, "\n") }),
	)}

	p.mu.Lock()
	p.open = append(p.open, task)
	p.mu.Unlock()
	return task
}

func (p *TerminalProgress) IsInteractive() bool { return true }

func (p *TerminalProgress) Close() {
	p.mu.Lock()
	open := p.open
	p.open = nil
	p.mu.Unlock()

	for _, task := range open {
		task.Complete()
	}
}

// barTask finishes its bar at most once, whether completed by the task's
// owner or by Close.
type barTask struct {
	bar  *progressbar.ProgressBar
	once sync.Once
}

func (t *barTask) Increment(n int)             { _ = t.bar.Add(n) }
func (t *barTask) Describe(description string) { t.bar.Describe(description) }
func (t *barTask) Complete()                   { t.once.Do(func() { _ = t.bar.Finish() }) }

// SilentProgress discards all progress. It serves as both the manager and
// every task it starts.
type SilentProgress struct{}

func (SilentProgress) StartTask(string, int) domain.TaskProgress { return SilentProgress{} }
func (SilentProgress) IsInteractive() bool                      { return false }
func (SilentProgress) Close()                                   {}
func (SilentProgress) Increment(int)                            {}
func (SilentProgress) Describe(string)                          {}
func (SilentProgress) Complete()                                {}
