package report

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles used by the table format and diffs.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Border   lipgloss.Style
	Pass     lipgloss.Style
	Fail     lipgloss.Style
	Inserted lipgloss.Style
	Deleted  lipgloss.Style
	Hunk     lipgloss.Style
}

func DefaultStyles() Styles {
	cell := lipgloss.NewStyle().Padding(0, 1)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Header:   cell.Bold(true).Foreground(lipgloss.Color("12")),
		Cell:     cell,
		Border:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Pass:     cell.Foreground(lipgloss.Color("10")),
		Fail:     cell.Foreground(lipgloss.Color("9")).Bold(true),
		Inserted: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Deleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Hunk:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	}
}
