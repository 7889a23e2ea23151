package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/agricarbon/internal/model"
	"github.com/Veraticus/agricarbon/internal/progress"
	"github.com/Veraticus/agricarbon/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Tracker displays analysis progress. Update is safe to use as a
// progress.Observer.
type Tracker interface {
	// Start begins rendering. The returned context is canceled if the user
	// aborts from the view.
	Start(ctx context.Context) context.Context
	Update(steps []model.ProgressStep)
	// Finish stops rendering once the request has settled.
	Finish(err error)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewTracker picks the spinner view for terminals and a plain progress bar
// for everything else.
func NewTracker(w io.Writer) Tracker {
	if IsTerminal(w) {
		return NewViewTracker(w, nil)
	}
	return NewBarTracker(w)
}

// ViewTracker runs the bubbletea progress view.
type ViewTracker struct {
	program *tea.Program
	done    chan struct{}
	out     io.Writer
	in      io.Reader
	cancel  context.CancelFunc
}

// NewViewTracker creates a tracker rendering to w. A nil input reads from
// the terminal.
func NewViewTracker(w io.Writer, in io.Reader) *ViewTracker {
	return &ViewTracker{out: w, in: in, done: make(chan struct{})}
}

// Start launches the program in the background.
func (t *ViewTracker) Start(ctx context.Context) context.Context {
	ctx, t.cancel = context.WithCancel(ctx)

	opts := []tea.ProgramOption{tea.WithOutput(t.out), tea.WithContext(ctx)}
	if t.in != nil {
		opts = append(opts, tea.WithInput(t.in))
	}
	t.program = tea.NewProgram(NewProgressModel(themes.Default, t.cancel), opts...)

	go func() {
		defer close(t.done)
		if _, err := t.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			slog.Warn("Progress view stopped", "error", err)
		}
	}()
	return ctx
}

// Update forwards a snapshot to the view.
func (t *ViewTracker) Update(steps []model.ProgressStep) {
	if t.program != nil {
		t.program.Send(StepsMsg(steps))
	}
}

// Finish closes the view and waits for the terminal to be restored.
func (t *ViewTracker) Finish(err error) {
	if t.program == nil {
		return
	}
	t.program.Send(DoneMsg{Err: err})
	<-t.done
	t.cancel()
}

// BarTracker reports progress as a single-line bar.
type BarTracker struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

// NewBarTracker creates a bar writing to w.
func NewBarTracker(w io.Writer) *BarTracker {
	return &BarTracker{out: w}
}

// Start draws the empty bar.
func (t *BarTracker) Start(ctx context.Context) context.Context {
	t.bar = progressbar.NewOptions(len(progress.InitialSteps()),
		progressbar.OptionSetWriter(t.out),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(t.out); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return ctx
}

// Update moves the bar to the number of completed steps and names the
// active one.
func (t *BarTracker) Update(steps []model.ProgressStep) {
	if t.bar == nil {
		return
	}

	completed, active := 0, ""
	for _, s := range steps {
		switch s.Status {
		case model.StepComplete:
			completed++
		case model.StepInProgress:
			if active == "" {
				active = s.Name
			}
		}
	}

	if active != "" {
		t.bar.Describe(active)
	}
	if err := t.bar.Set(completed); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish fills the bar on success and abandons it on failure.
func (t *BarTracker) Finish(err error) {
	if t.bar == nil {
		return
	}

	if err != nil {
		if exitErr := t.bar.Exit(); exitErr != nil {
			slog.Warn("Failed to stop progress bar", "error", exitErr)
		}
		return
	}

	t.bar.Describe("Analysis complete")
	if finishErr := t.bar.Finish(); finishErr != nil {
		slog.Warn("Failed to finish progress bar", "error", finishErr)
	}
}
