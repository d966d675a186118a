package tui

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/link-pulse/internal/format"
	"gitlab.com/tinyland/lab/link-pulse/sampler"
)

// LayoutSize represents a responsive breakpoint for terminal width.
type LayoutSize int

const (
	// LayoutCompact is used for terminals narrower than 60 characters.
	LayoutCompact LayoutSize = iota
	// LayoutNormal is used for terminals between 60 and 120 characters wide.
	LayoutNormal
	// LayoutWide is used for terminals wider than 120 characters.
	LayoutWide
)

// DetectLayout returns the appropriate LayoutSize for the given terminal width.
func DetectLayout(width int) LayoutSize {
	switch {
	case width < 60:
		return LayoutCompact
	case width <= 120:
		return LayoutNormal
	default:
		return LayoutWide
	}
}

// LayoutConfig holds responsive layout values that adapt to terminal width.
type LayoutConfig struct {
	// GaugeWidth is the character width for gauge bars.
	GaugeWidth int
	// SparkWidth is the character width for sparkline charts.
	SparkWidth int
	// RuleWidth is the width for horizontal separators.
	RuleWidth int
	// ShowSparklines controls whether sparkline charts are rendered.
	ShowSparklines bool
}

// LayoutForSize returns a LayoutConfig appropriate for the given size and width.
func LayoutForSize(size LayoutSize, width int) LayoutConfig {
	switch size {
	case LayoutCompact:
		return LayoutConfig{
			GaugeWidth:     10,
			SparkWidth:     20,
			RuleWidth:      width - 4,
			ShowSparklines: false,
		}
	case LayoutWide:
		return LayoutConfig{
			GaugeWidth:     30,
			SparkWidth:     45,
			RuleWidth:      width - 12,
			ShowSparklines: true,
		}
	default: // LayoutNormal
		return LayoutConfig{
			GaugeWidth:     20,
			SparkWidth:     30,
			RuleWidth:      width - 8,
			ShowSparklines: true,
		}
	}
}

// labelWidth aligns the value column across tab rows.
const labelWidth = 11

// labeledRow renders a "Label:  value" row with the label column aligned.
func labeledRow(label, value string) string {
	padded := fmt.Sprintf("%-*s", labelWidth, label+":")
	return styleLabel.Render(padded) + " " + styleValue.Render(value)
}

// statsLine summarizes a sampler's loop counters for the tab footers.
func statsLine(stats sampler.Stats) string {
	return fmt.Sprintf("ticks %d, gaps %d, observers %d", stats.Ticks, stats.GapEvents, stats.Observers)
}

// truncateText is a convenience wrapper for format.TruncateWithEllipsis.
func truncateText(s string, maxWidth int) string {
	return format.TruncateWithEllipsis(s, maxWidth)
}

// horizontalRule returns a horizontal line of the given width using box-drawing
// characters.
func horizontalRule(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("─", width)
}
