package main

import "github.com/charmbracelet/lipgloss"

var (
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorRed    = lipgloss.Color("#D14D41")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// Styled text may carry escape codes: only use it on its own line or in the
// last column of a tabwriter row.
func renderTitle(s string) string {
	return titleStyle.Render(s)
}

func renderHeader(s string) string {
	return headerStyle.Render(s)
}

func renderWarn(s string) string {
	return warnStyle.Render(s)
}
