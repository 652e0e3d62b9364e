// Package ui renders crashstats views in the terminal: styled tables, text
// charts and the interactive bubbletea dashboard.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	ColorPrimary   = lipgloss.Color("#101F38")
	ColorAccent    = lipgloss.Color("#8BC34A")
	ColorMuted     = lipgloss.Color("#6b7280")
	ColorHighlight = lipgloss.Color("#ffffff")
	ColorError     = lipgloss.Color("#e53935")

	// Pie slice colors, in slice order
	ChartColors = []lipgloss.Color{
		lipgloss.Color("#e57373"),
		lipgloss.Color("#4db6ac"),
		lipgloss.Color("#ffd54f"),
		lipgloss.Color("#29434e"),
	}
)

// darkPrimary replaces ColorPrimary on dark terminals.
var darkPrimary = lipgloss.Color("#8BC34A")

// Styles holds the styles of every rendered component.
type Styles struct {
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Bar      lipgloss.Style
}

// NewStyles creates styles around primary, the title and header color.
func NewStyles(primary lipgloss.Color) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(ColorHighlight).
			Padding(0, 2).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 2),
		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),
		Body: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Bold: lipgloss.NewStyle().
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(ColorAccent).
			Foreground(ColorPrimary).
			Padding(0, 1).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Bar: lipgloss.NewStyle().
			Foreground(ColorAccent),
	}
}

// DefaultStyles picks the primary color from the terminal background.
// CRASHSTATS_DARK_MODE=1 forces the dark variant.
func DefaultStyles() Styles {
	if os.Getenv("CRASHSTATS_DARK_MODE") == "1" || lipgloss.HasDarkBackground() {
		return NewStyles(darkPrimary)
	}
	return NewStyles(ColorPrimary)
}

// PlainStyles renders without any decoration. Used for piped output and tests.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:   plain,
		Footer:   plain,
		Title:    plain,
		Body:     plain,
		Muted:    plain,
		Bold:     plain,
		Selected: plain,
		Error:    plain,
		Bar:      plain,
	}
}
