package tui

import (
	"strings"

	"github.com/Veraticus/agricarbon/internal/cli"
	"github.com/Veraticus/agricarbon/internal/model"
	"github.com/Veraticus/agricarbon/internal/progress"
	"github.com/Veraticus/agricarbon/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StepsMsg carries a new snapshot of the step list.
type StepsMsg []model.ProgressStep

// DoneMsg ends the view once the request has settled.
type DoneMsg struct {
	Err error
}

// ProgressModel shows the step list with a spinner on the active step.
type ProgressModel struct {
	err      error
	onCancel func()
	theme    themes.Theme
	keymap   KeyMap
	steps    []model.ProgressStep
	spinner  spinner.Model
	done     bool
	canceled bool
}

// NewProgressModel creates a view over the initial step list. onCancel runs
// when the user quits before the request settles.
func NewProgressModel(theme themes.Theme, onCancel func()) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return ProgressModel{
		steps:    progress.InitialSteps(),
		spinner:  s,
		theme:    theme,
		keymap:   DefaultKeyMap(),
		onCancel: onCancel,
	}
}

// Init starts the spinner.
func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StepsMsg:
		m.steps = append(m.steps[:0:0], msg...)
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.Quit) && !m.done {
			m.canceled = true
			if m.onCancel != nil {
				m.onCancel()
			}
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the step list.
func (m ProgressModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(cli.LeafIcon + " Analyzing your land"))
	b.WriteString("\n")

	for _, step := range m.steps {
		b.WriteString(m.renderStep(step))
		b.WriteString("\n")
	}

	switch {
	case m.canceled:
		b.WriteString(m.theme.StatusError.Render("Analysis canceled"))
	case m.done && m.err != nil:
		b.WriteString(m.theme.StatusError.Render("Analysis failed"))
	case m.done:
		b.WriteString(m.theme.StatusSuccess.Render("Analysis complete"))
	default:
		b.WriteString(m.theme.Help.Render(m.keymap.Quit.Help().Key + " " + m.keymap.Quit.Help().Desc))
	}

	return m.theme.RoundedBox.Render(b.String()) + "\n"
}

func (m ProgressModel) renderStep(step model.ProgressStep) string {
	switch step.Status {
	case model.StepComplete:
		return m.theme.StatusSuccess.Render(cli.SuccessIcon) + " " + m.theme.Normal.Render(step.Name)
	case model.StepInProgress:
		return m.spinner.View() + m.theme.StatusActive.Render(step.Name+"...")
	case model.StepError:
		return m.theme.StatusError.Render(cli.ErrorIcon + " " + step.Name)
	default:
		return m.theme.StatusPending.Render(cli.PendingIcon + " " + step.Name)
	}
}

// Canceled reports whether the user quit the view.
func (m ProgressModel) Canceled() bool {
	return m.canceled
}
