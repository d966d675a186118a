package tui

import "github.com/charmbracelet/lipgloss"

// ThemePreset defines a complete color scheme and layout configuration
// that can be applied at runtime to change the TUI appearance.
type ThemePreset struct {
	Name        string
	Description string
	// Colors. An empty color leaves the terminal default in place.
	Primary   lipgloss.Color // labels and the active tab
	Secondary lipgloss.Color // section titles and chart accents
	Muted     lipgloss.Color // chrome, separators, help text
	Text      lipgloss.Color // plain values
	// Layout
	ShowBorders bool
	CompactMode bool
}

// Predefined theme presets.
var (
	// DarkTheme is the default theme for dark terminal backgrounds.
	DarkTheme = ThemePreset{
		Name:        "dark",
		Description: "Default theme for dark backgrounds",
		Primary:     lipgloss.Color("#06B6D4"),
		Secondary:   lipgloss.Color("#67E8F9"),
		Muted:       lipgloss.Color("#6B7280"),
		Text:        lipgloss.Color("#E5E7EB"),
		ShowBorders: true,
	}

	// LightTheme adjusts the palette for light terminal backgrounds.
	LightTheme = ThemePreset{
		Name:        "light",
		Description: "Theme for light backgrounds",
		Primary:     lipgloss.Color("#0E7490"),
		Secondary:   lipgloss.Color("#155E75"),
		Muted:       lipgloss.Color("#9CA3AF"),
		Text:        lipgloss.Color("#1F2937"),
		ShowBorders: true,
	}

	// MonoTheme drops the accent colors for monochrome terminals. Health
	// dots and gauge fills keep their semantic colors.
	MonoTheme = ThemePreset{
		Name:        "mono",
		Description: "Monochrome chrome",
		Muted:       lipgloss.Color("8"),
		ShowBorders: true,
		CompactMode: true,
	}
)

// allPresets is the canonical list of available theme presets.
var allPresets = []ThemePreset{DarkTheme, LightTheme, MonoTheme}

// GetThemePreset returns the theme preset matching the given name.
// Unknown names return DarkTheme as the default.
func GetThemePreset(name string) ThemePreset {
	for _, p := range allPresets {
		if p.Name == name {
			return p
		}
	}
	return DarkTheme
}

// AllThemePresets returns all available theme presets.
func AllThemePresets() []ThemePreset {
	out := make([]ThemePreset, len(allPresets))
	copy(out, allPresets)
	return out
}

// ApplyTheme updates the package-level style variables to use the given
// preset's colors. This allows runtime theme switching without restarting
// the application.
func ApplyTheme(preset ThemePreset) {
	activeTheme = preset

	if preset.Primary != "" {
		styleActiveTab = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(preset.Primary).
			Padding(0, 2)
	} else {
		// Monochrome active tab: reverse video instead of a colored fill.
		styleActiveTab = lipgloss.NewStyle().
			Bold(true).
			Reverse(true).
			Padding(0, 2)
	}

	styleInactiveTab = lipgloss.NewStyle().
		Foreground(preset.Muted).
		Padding(0, 2)

	if preset.ShowBorders {
		styleHeader = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(preset.Muted).
			MarginBottom(1)
	} else {
		styleHeader = lipgloss.NewStyle().
			MarginBottom(1)
	}

	styleFooter = lipgloss.NewStyle().
		Foreground(preset.Muted).
		MarginTop(1)

	if preset.CompactMode {
		styleContent = lipgloss.NewStyle().
			Padding(0, 1)
	} else {
		styleContent = lipgloss.NewStyle().
			Padding(1, 2)
	}

	styleTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(preset.Secondary)

	styleLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(preset.Primary)

	styleValue = lipgloss.NewStyle().
		Foreground(preset.Text)

	styleMuted = lipgloss.NewStyle().
		Foreground(preset.Muted)
}
