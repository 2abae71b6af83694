package app

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary = lipgloss.Color("#82AAFF")
	Success = lipgloss.Color("#C3E88D")
	Warning = lipgloss.Color("#FFCB6B")
	Error   = lipgloss.Color("#F07178")
	Muted   = lipgloss.Color("#546E7A")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	TextStyle = lipgloss.NewStyle()

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error)
)

// StatusStyle maps a progress status to its display style.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "complete":
		return SuccessStyle
	case "error":
		return ErrorStyle
	case "downloading":
		return lipgloss.NewStyle().Foreground(Warning)
	default:
		return MutedStyle
	}
}
