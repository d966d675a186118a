// Package color provides color profile handling for link-pulse output.
//
// It resolves the configured color mode ("auto", "always", "never")
// against the NO_COLOR convention (https://no-color.org/) and pipe
// detection, and carries the level palette shared by the prompt
// segment, the report card, and the watch TUI. When color is off,
// lipgloss is set to the Ascii profile so all styled renders produce
// plain text.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/link-pulse/status"
)

// Color modes accepted by Apply. These match the display.color values
// in the config file; the -no-color flag maps to ModeNever.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

// ShouldDisableColor returns true if color output should be suppressed
// under automatic detection. This happens when:
//   - The NO_COLOR environment variable is set (any value, per https://no-color.org/)
//   - stdout is not a terminal (pipe or redirect)
func ShouldDisableColor() bool {
	// NO_COLOR spec: if the variable exists, disable color.
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}

	// Pipe/redirect detection: if stdout is not a TTY, disable color.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return true
	}

	return false
}

// Enabled reports whether the given mode results in colored output.
// ModeNever is always off, ModeAlways is always on (it outranks
// NO_COLOR, matching grep --color=always), and anything else falls
// back to automatic detection.
func Enabled(mode string) bool {
	switch mode {
	case ModeNever:
		return false
	case ModeAlways:
		return true
	default:
		return !ShouldDisableColor()
	}
}

// Apply configures the global lipgloss renderer for the given mode.
// ModeAlways forces the TrueColor profile so styling survives pipes;
// a disabled mode sets termenv.Ascii so all lipgloss.Style.Render()
// calls produce plain text without ANSI escape sequences.
// Returns true if color is enabled, false if disabled.
func Apply(mode string) bool {
	if !Enabled(mode) {
		lipgloss.SetColorProfile(termenv.Ascii)
		return false
	}
	if mode == ModeAlways {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
	return true
}

// ForceDisable sets the lipgloss color profile to Ascii, unconditionally
// disabling all color output. This is useful for tests.
func ForceDisable() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// levelColors maps each health level to its display color.
var levelColors = map[status.Level]lipgloss.Color{
	status.LevelHealthy:  lipgloss.Color("#22C55E"),
	status.LevelWarning:  lipgloss.Color("#EAB308"),
	status.LevelCritical: lipgloss.Color("#EF4444"),
	status.LevelUnknown:  lipgloss.Color("#6B7280"),
}

// LevelColor returns the display color for a health level. Unknown
// levels get the LevelUnknown gray.
func LevelColor(level status.Level) lipgloss.Color {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return levelColors[status.LevelUnknown]
}

// LevelStyle returns a lipgloss style with the level's foreground color.
func LevelStyle(level status.Level) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LevelColor(level))
}

// StripANSI removes all ANSI escape sequences from a string.
// This is a safety net for any output that bypasses lipgloss styling.
func StripANSI(s string) string {
	var result []byte
	inEscape := false
	for i := 0; i < len(s); i++ {
		if inEscape {
			if (s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z') || s[i] == '~' {
				inEscape = false
			}
			continue
		}
		if s[i] == '\x1b' {
			inEscape = true
			continue
		}
		result = append(result, s[i])
	}
	return string(result)
}
