// Package tui provides the Bubble Tea history browser for the log command.
//
// TUI rules:
//   - TUI is opt-in only (--tui flag)
//   - TUI is read-only: it renders the same history records as the
//     non-TUI output, never mutating the store
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	primaryColor = lipgloss.Color("#0DBC79") // Green
	errorColor   = lipgloss.Color("#EF4444") // Red
	mutedColor   = lipgloss.Color("#6B7280") // Gray
)

// Styles for TUI components.
var (
	// TitleStyle for the browser header.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// OKStyle for successful run statuses.
	OKStyle = lipgloss.NewStyle().
		Foreground(primaryColor)

	// ErrStyle for failed run statuses.
	ErrStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// HelpStyle for the key hint footer.
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	// BorderStyle wraps the history table.
	BorderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(mutedColor)
)
