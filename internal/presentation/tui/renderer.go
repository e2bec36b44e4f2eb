package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Renderer turns a markdown view into terminal output.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a glamour renderer that adapts to the terminal
// background and wraps at width (no wrapping when width <= 0).
func NewRenderer(width int) (Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// Plain returns the markdown unchanged, for pipes and non-terminals.
func Plain(markdown string) (string, error) {
	return markdown, nil
}
