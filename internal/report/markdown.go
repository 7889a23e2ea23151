package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the word-wrap width used when the terminal width is unknown.
const DefaultWrap = 80

// RenderMarkdown renders the professional report for the terminal.
func RenderMarkdown(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrap
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}
