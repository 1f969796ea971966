package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI palette indices so the chat follows the user's terminal theme.
var (
	mutedColor   = lipgloss.Color("7")
	accentColor  = lipgloss.Color("12")
	successColor = lipgloss.Color("10")
	pickColor    = lipgloss.Color("11")
	failColor    = lipgloss.Color("9")
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(accentColor)
	errorStyle     = lipgloss.NewStyle().Foreground(failColor).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(mutedColor)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(pickColor).Bold(true)
	hintKeyStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	samplesBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(successColor).
			Padding(1, 2)
)

// keyHints renders key/description pairs for the footer, e.g.
// keyHints("Enter", "Send", "Ctrl+R", "Reset").
func keyHints(pairs ...string) string {
	hints := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		hints = append(hints, pairs[i]+" "+hintKeyStyle.Render(pairs[i+1]))
	}
	return strings.Join(hints, "  ")
}
