package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/link-pulse/internal/format"
)

// sparkBlocks contains 8 unicode block characters for sparkline rendering,
// ordered from lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SparklineConfig controls the appearance and behavior of a sparkline chart.
type SparklineConfig struct {
	// Data points to render (most recent last).
	Data []float64
	// Width is the number of characters to render. If 0, uses len(Data).
	Width int
	// Min is the minimum value for scaling. If Min == Max, auto-scale.
	Min float64
	// Max is the maximum value for scaling.
	Max float64
	// Label is optional text shown before the sparkline.
	Label string
	// Color is the lipgloss color for the sparkline characters.
	Color lipgloss.Color
}

// RenderSparkline renders a unicode sparkline chart from the given configuration.
func RenderSparkline(cfg SparklineConfig) string {
	if len(cfg.Data) == 0 {
		return ""
	}

	data := cfg.Data

	// Determine effective width.
	width := cfg.Width
	if width <= 0 {
		width = len(data)
	}

	// Truncate to last Width points if needed.
	if width < len(data) {
		data = data[len(data)-width:]
	}

	// Auto-scale if Min == Max.
	minVal := cfg.Min
	maxVal := cfg.Max
	if minVal == maxVal {
		minVal = data[0]
		maxVal = data[0]
		for _, v := range data {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}

	// Build sparkline characters.
	var runes []rune
	allEqual := minVal == maxVal

	for _, v := range data {
		if allEqual {
			// All values equal: use mid-level block.
			runes = append(runes, sparkBlocks[len(sparkBlocks)/2])
			continue
		}
		// Normalize to 0-1 range, clamped.
		normalized := (v - minVal) / (maxVal - minVal)
		normalized = math.Max(0, math.Min(1, normalized))
		// Map to block index (0 to 7).
		idx := int(normalized * float64(len(sparkBlocks)-1))
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		runes = append(runes, sparkBlocks[idx])
	}

	// Left-pad with spaces if Width > len(data).
	sparkStr := string(runes)
	if width > len(data) {
		padding := strings.Repeat(" ", width-len(data))
		sparkStr = padding + sparkStr
	}

	// Apply color if set.
	if cfg.Color != "" {
		style := lipgloss.NewStyle().Foreground(cfg.Color)
		sparkStr = style.Render(sparkStr)
	}

	// Prepend label if set.
	if cfg.Label != "" {
		sparkStr = cfg.Label + " " + sparkStr
	}

	return sparkStr
}

// RenderRateSparkline renders a throughput history sparkline with the peak
// rate as a suffix label. Scaling is anchored at zero so a quiet link reads
// as a flat low line rather than auto-scaled noise.
func RenderRateSparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}

	peak := data[0]
	for _, v := range data {
		if v > peak {
			peak = v
		}
	}

	// An idle link renders as a baseline, not auto-scaled mid blocks.
	if peak <= 0 {
		n := width
		if n <= 0 || n > len(data) {
			n = len(data)
		}
		return strings.Repeat(string(sparkBlocks[0]), n) + " peak " + format.ByteRate(0)
	}

	spark := RenderSparkline(SparklineConfig{
		Data:  data,
		Width: width,
		Min:   0,
		Max:   peak,
	})

	return spark + " peak " + format.ByteRate(peak)
}

// RenderPercentSparkline renders a 0-100 gauge history sparkline. The fixed
// scale keeps successive frames comparable as new samples arrive.
func RenderPercentSparkline(data []float64, width int, color lipgloss.Color) string {
	return RenderSparkline(SparklineConfig{
		Data:  data,
		Width: width,
		Min:   0,
		Max:   100,
		Color: color,
	})
}
