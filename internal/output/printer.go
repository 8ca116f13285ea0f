package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes prefixed status lines. Colors are dropped automatically when
// the writer is not a terminal.
type Printer struct {
	w            io.Writer
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	renderer := lipgloss.NewRenderer(w)
	return &Printer{
		w:            w,
		successStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		warningStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		errorStyle:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

func (p *Printer) Success(message string) error {
	return p.prefixed(p.successStyle, "Success:", message)
}

func (p *Printer) Warning(message string) error {
	return p.prefixed(p.warningStyle, "Warning:", message)
}

func (p *Printer) Error(message string) error {
	return p.prefixed(p.errorStyle, "Error:", message)
}

// ErrorLines prints each line as its own Error: entry.
func (p *Printer) ErrorLines(lines ...string) error {
	for _, line := range lines {
		if err := p.Error(line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) prefixed(style lipgloss.Style, prefix string, message string) error {
	_, err := fmt.Fprintf(p.w, "%s %s\n", style.Render(prefix), message)
	return err
}
