package widgets

import (
	"gitlab.com/tinyland/lab/link-pulse/display/color"
	"gitlab.com/tinyland/lab/link-pulse/status"
)

// StatusConfig holds the configuration for rendering a status indicator.
type StatusConfig struct {
	// Level determines the color and icon.
	Level status.Level
	// Text is the label shown next to the indicator.
	Text string
	// ShowIcon controls whether the colored dot is shown.
	ShowIcon bool
}

// statusIcons maps each health level to its display icon.
var statusIcons = map[status.Level]string{
	status.LevelHealthy:  "●", // ● green dot
	status.LevelWarning:  "●", // ● yellow dot
	status.LevelCritical: "●", // ● red dot
	status.LevelUnknown:  "○", // ○ gray outline
}

// statusIcon returns the icon for a level, defaulting to the unknown outline.
func statusIcon(level status.Level) string {
	if icon, ok := statusIcons[level]; ok {
		return icon
	}
	return statusIcons[status.LevelUnknown]
}

// RenderStatus renders a status indicator with an optional colored icon and text.
func RenderStatus(cfg StatusConfig) string {
	style := color.LevelStyle(cfg.Level)

	if cfg.ShowIcon {
		coloredIcon := style.Render(statusIcon(cfg.Level))
		if cfg.Text == "" {
			return coloredIcon
		}
		return coloredIcon + " " + cfg.Text
	}

	return style.Render(cfg.Text)
}

// RenderDot renders just the colored level dot.
func RenderDot(level status.Level) string {
	return color.LevelStyle(level).Render(statusIcon(level))
}
