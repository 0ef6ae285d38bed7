package report

import "github.com/charmbracelet/lipgloss"

// Styles colors outcome markers. A renderer bound to a non-terminal writer
// drops the colors, so piped output stays plain.
type Styles struct {
	Valid   lipgloss.Style
	Fixed   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Bold    lipgloss.Style
}

func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Valid:   r.NewStyle().Foreground(lipgloss.Color("2")),
		Fixed:   r.NewStyle().Foreground(lipgloss.Color("6")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Bold:    r.NewStyle().Bold(true),
	}
}
