package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var artifactTitleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#808080")).
	Italic(true)

// ConsoleSink writes rendered output to a writer. Artifacts are printed
// as a delimited block right after the preview that references them.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink creates a sink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// Print writes a chunk of rendered output.
func (s *ConsoleSink) Print(text string) error {
	_, err := io.WriteString(s.w, text)
	return err
}

// Artifact writes the full content of a collapsed tool result under a
// titled divider.
func (s *ConsoleSink) Artifact(name, content string) error {
	title := artifactTitleStyle.Render(fmt.Sprintf("── %s ──", name))
	_, err := fmt.Fprintf(s.w, "%s\n%s\n\n", title, content)
	return err
}
