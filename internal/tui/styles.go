package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle styles the header line above the progress bar.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	barFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	barEmptyStyle  = lipgloss.NewStyle().Faint(true)

	stageStyles = map[string]lipgloss.Style{
		// Terminal states
		"done": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		// Active states
		"validating":     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"downloading":    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"building-graph": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"encoding":       lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"finalizing":     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Error
		"error": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// StageStyle returns the lipgloss style for the given stage name.
func StageStyle(stage string) lipgloss.Style {
	if s, ok := stageStyles[stage]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
