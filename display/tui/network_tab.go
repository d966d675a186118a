package tui

import (
	"strings"

	"gitlab.com/tinyland/lab/link-pulse/display/widgets"
	"gitlab.com/tinyland/lab/link-pulse/internal/format"
	"gitlab.com/tinyland/lab/link-pulse/sampler"
)

// renderNetworkContent renders the Network tab: smoothed aggregate
// throughput, cumulative totals, the Wi-Fi-only track when the pinned
// interface is up, and rate history sparklines.
func renderNetworkContent(data *sampler.NetworkState, down, up []float64, stats sampler.Stats, width, height int) string {
	if data == nil {
		return "No network samples yet\n\nWaiting for the first tick."
	}

	layout := LayoutForSize(DetectLayout(width), width)
	var sections []string

	sections = append(sections, styleTitle.Render("Network Throughput"))
	sections = append(sections, "")

	sections = append(sections, labeledRow("Down", format.ByteRate(data.DownloadRate)))
	sections = append(sections, labeledRow("Up", format.ByteRate(data.UploadRate)))
	sections = append(sections, labeledRow("Total down", format.ByteCount(data.TotalDownloaded)))
	sections = append(sections, labeledRow("Total up", format.ByteCount(data.TotalUploaded)))

	if data.HasWifiData {
		sections = append(sections, "")
		sections = append(sections, styleMuted.Render(horizontalRule(layout.RuleWidth)))
		sections = append(sections, labeledRow("Wi-Fi down", format.ByteRate(data.WifiDownloadRate)))
		sections = append(sections, labeledRow("Wi-Fi up", format.ByteRate(data.WifiUploadRate)))
	}

	if layout.ShowSparklines && len(down) > 1 {
		sections = append(sections, "")
		sections = append(sections, labeledRow("History ↓", widgets.RenderRateSparkline(down, layout.SparkWidth)))
		if len(up) > 1 {
			sections = append(sections, labeledRow("History ↑", widgets.RenderRateSparkline(up, layout.SparkWidth)))
		}
	}

	sections = append(sections, "")
	sections = append(sections, styleMuted.Render(statsLine(stats)))
	if !data.LastUpdated.IsZero() {
		sections = append(sections, styleMuted.Render("Last change: "+format.TimeSince(data.LastUpdated)))
	}

	return strings.Join(sections, "\n")
}
