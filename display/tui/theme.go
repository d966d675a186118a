package tui

import "github.com/charmbracelet/lipgloss"

// activeTheme is the preset currently applied. Tab renderers read their
// accent colors from it so ApplyTheme retints the whole view.
var activeTheme = DarkTheme

// Styles used throughout the TUI, rebuilt by ApplyTheme.
var (
	styleActiveTab   lipgloss.Style
	styleInactiveTab lipgloss.Style
	styleHeader      lipgloss.Style
	styleFooter      lipgloss.Style
	styleContent     lipgloss.Style
	styleTitle       lipgloss.Style
	styleLabel       lipgloss.Style
	styleValue       lipgloss.Style
	styleMuted       lipgloss.Style
)

func init() {
	ApplyTheme(DarkTheme)
}
