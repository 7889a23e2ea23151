package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Veraticus/agricarbon/internal/model"
	"github.com/Veraticus/agricarbon/internal/progress"
	"github.com/Veraticus/agricarbon/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advanced(ticks int) []model.ProgressStep {
	steps := progress.InitialSteps()
	steps[0].Status = model.StepInProgress
	for range ticks {
		progress.Advance(steps)
	}
	return steps
}

func TestProgressModel_View(t *testing.T) {
	m := NewProgressModel(themes.Plain, nil)

	view := m.View()
	assert.Contains(t, view, "Analyzing your land")
	assert.Contains(t, view, "○ Processing image")
	assert.Contains(t, view, "cancel analysis")

	updated, cmd := m.Update(StepsMsg(advanced(2)))
	assert.Nil(t, cmd)
	view = updated.View()

	assert.Contains(t, view, "✓ Processing image")
	assert.Contains(t, view, "✓ Fetching location data")
	assert.Contains(t, view, "Running AI analysis...")
	assert.Contains(t, view, "○ Calculating carbon potential")
}

func TestProgressModel_StepsMsgIsCopied(t *testing.T) {
	steps := advanced(1)
	updated, _ := NewProgressModel(themes.Plain, nil).Update(StepsMsg(steps))

	steps[0].Status = model.StepError
	assert.NotContains(t, updated.View(), "✗ Processing image")
}

func TestProgressModel_Done(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "success", want: "Analysis complete"},
		{name: "failure", err: errors.New("boom"), want: "Analysis failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, cmd := NewProgressModel(themes.Plain, nil).Update(DoneMsg{Err: tt.err})
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Contains(t, updated.View(), tt.want)
		})
	}
}

func TestProgressModel_ErrorStep(t *testing.T) {
	steps := advanced(1)
	steps[1].Status = model.StepError

	updated, _ := NewProgressModel(themes.Plain, nil).Update(StepsMsg(steps))
	assert.Contains(t, updated.View(), "✗ Fetching location data")
}

func TestProgressModel_Cancel(t *testing.T) {
	canceled := false
	m := NewProgressModel(themes.Plain, func() { canceled = true })

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, canceled)
	assert.True(t, updated.(ProgressModel).Canceled())
	assert.Contains(t, updated.View(), "Analysis canceled")

	// Keys are ignored once the request has settled.
	done, _ := NewProgressModel(themes.Plain, nil).Update(DoneMsg{})
	_, cmd = done.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
}

func TestBarTracker(t *testing.T) {
	var out bytes.Buffer
	tracker := NewBarTracker(&out)

	tracker.Update(advanced(1))
	assert.Empty(t, out.String(), "updates before Start are ignored")

	ctx := context.Background()
	assert.Equal(t, ctx, tracker.Start(ctx))

	tracker.Update(advanced(3))
	tracker.Finish(nil)

	assert.True(t, tracker.bar.IsFinished())
	assert.Contains(t, out.String(), "Analysis complete")
	assert.Contains(t, out.String(), "5/5")
}

func TestBarTracker_Failure(t *testing.T) {
	var out bytes.Buffer
	tracker := NewBarTracker(&out)
	tracker.Start(context.Background())

	tracker.Update(advanced(2))
	tracker.Finish(errors.New("service down"))

	assert.False(t, tracker.bar.IsFinished())
	assert.NotContains(t, out.String(), "Analysis complete")
}

func TestNewTracker_NonTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
	assert.IsType(t, &BarTracker{}, NewTracker(&bytes.Buffer{}))
}

func TestViewTracker(t *testing.T) {
	var out bytes.Buffer
	tracker := NewViewTracker(&out, strings.NewReader(""))

	tracker.Update(advanced(1))

	ctx := tracker.Start(context.Background())
	tracker.Update(advanced(5))
	tracker.Finish(nil)

	assert.Error(t, ctx.Err(), "the view context is released on Finish")
	assert.Contains(t, out.String(), "Analysis complete")
}
