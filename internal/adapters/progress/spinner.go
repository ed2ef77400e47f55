package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// SpinnerProgressReporter shows a spinner for long running stages (mining, chain
// checks) and prints counted events such as mined salts as they arrive
type SpinnerProgressReporter struct {
	mu         sync.Mutex
	out        io.Writer
	spinner    *spinner.Spinner
	stage      string
	stageStart time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter writing to out
func NewSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
	}
}

// ProvideProgressSink returns a spinner on stderr for interactive runs and a no-op sink
// when output is JSON or prompts are disabled
func ProvideProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON || cfg.NonInteractive {
		return usecase.NopProgress{}
	}
	return NewSpinnerProgressReporter(os.Stderr)
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != r.stage {
		r.stage = event.Stage
		r.stageStart = time.Now()
	}

	if event.Current > 0 && !event.Spinner {
		r.printLocked(color.New(color.FgGreen), fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message))
		return
	}

	if event.Spinner {
		r.spinner.Suffix = fmt.Sprintf(" %s (%s)", event.Message, time.Since(r.stageStart).Round(time.Second))
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printLocked(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printLocked(color.New(color.FgRed), message)
}

// Stop stops the spinner if it is running
func (r *SpinnerProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// printLocked prints a line without the spinner overwriting it
func (r *SpinnerProgressReporter) printLocked(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
