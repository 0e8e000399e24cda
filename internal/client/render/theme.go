// Package render formats marketplace data for the terminal: styled tables
// with lipgloss, Markdown through glamour and code through chroma.
package render

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used by a Renderer. Colors are ANSI 256 codes.
type Theme struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Faint    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Owned    lipgloss.Style
	Price    lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Border   lipgloss.Style
	CodeName string
}

func defaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Label:    r.NewStyle().Foreground(lipgloss.Color("245")),
		Faint:    r.NewStyle().Foreground(lipgloss.Color("240")),
		Success:  r.NewStyle().Foreground(lipgloss.Color("78")),
		Error:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		Owned:    r.NewStyle().Foreground(lipgloss.Color("78")),
		Price:    r.NewStyle().Foreground(lipgloss.Color("221")),
		Header:   r.NewStyle().Bold(true).Padding(0, 1),
		Cell:     r.NewStyle().Padding(0, 1),
		Border:   r.NewStyle().Foreground(lipgloss.Color("238")),
		CodeName: "monokai",
	}
}
