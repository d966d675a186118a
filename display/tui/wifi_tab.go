package tui

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/link-pulse/display/widgets"
	"gitlab.com/tinyland/lab/link-pulse/internal/format"
	"gitlab.com/tinyland/lab/link-pulse/probe"
	"gitlab.com/tinyland/lab/link-pulse/sampler"
	"gitlab.com/tinyland/lab/link-pulse/status"
)

// renderWifiContent renders the Wi-Fi tab: link status, the association,
// and the smoothed radio readings with a signal quality gauge.
func renderWifiContent(data *sampler.WifiState, stats sampler.Stats, width, height int) string {
	if data == nil {
		return "No wireless samples yet\n\nWaiting for the first tick."
	}

	layout := LayoutForSize(DetectLayout(width), width)
	var sections []string

	sections = append(sections, styleTitle.Render("Wi-Fi Link"))
	sections = append(sections, "")

	sections = append(sections, widgets.RenderStatus(widgets.StatusConfig{
		Level:    linkLevel(data.Status),
		Text:     data.Status.String(),
		ShowIcon: true,
	}))

	switch data.Status {
	case probe.LinkConnected:
		sections = append(sections, "")
		name := data.NetworkName
		if name == "" {
			name = "(name withheld)"
		}
		sections = append(sections, labeledRow("Network", truncateText(name, 32)))

		if data.SignalPercent >= 0 {
			sections = append(sections, labeledRow("Quality", widgets.RenderSignalGauge(float64(data.SignalPercent), layout.GaugeWidth)))
			sections = append(sections, labeledRow("Tier", tierBars(data.QualityTier)))
		} else {
			sections = append(sections, styleMuted.Render("No signal reading yet."))
		}

		if data.SignalDBM != 0 {
			sections = append(sections, labeledRow("Signal", fmt.Sprintf("%d dBm", data.SignalDBM)))
		}
		if data.NoiseDBM != 0 {
			sections = append(sections, labeledRow("Noise", fmt.Sprintf("%d dBm", data.NoiseDBM)))
			if data.SignalDBM != 0 {
				sections = append(sections, labeledRow("SNR", fmt.Sprintf("%d dB", data.SignalDBM-data.NoiseDBM)))
			}
		}
		if data.BitrateMbps > 0 {
			sections = append(sections, labeledRow("Bitrate", fmt.Sprintf("%.0f Mb/s", data.BitrateMbps)))
		}

	case probe.LinkDisconnected:
		sections = append(sections, "")
		sections = append(sections, styleMuted.Render("The radio is up but not associated with a network."))

	case probe.LinkRadioOff:
		sections = append(sections, "")
		sections = append(sections, styleMuted.Render("The radio is disabled. Check rfkill or the kill switch."))

	default: // LinkUnavailable
		sections = append(sections, "")
		sections = append(sections, styleMuted.Render("No wireless interface was found on this host."))
	}

	sections = append(sections, "")
	sections = append(sections, styleMuted.Render(statsLine(stats)))
	if !data.LastUpdated.IsZero() {
		sections = append(sections, styleMuted.Render("Last change: "+format.TimeSince(data.LastUpdated)))
	}

	return strings.Join(sections, "\n")
}

// linkLevel maps a link status onto the health palette for the status dot.
func linkLevel(s probe.LinkStatus) status.Level {
	switch s {
	case probe.LinkConnected:
		return status.LevelHealthy
	case probe.LinkDisconnected, probe.LinkRadioOff:
		return status.LevelWarning
	default:
		return status.LevelUnknown
	}
}

// tierBars renders the 0-3 quality tier as stacked bars.
func tierBars(tier int) string {
	if tier < 0 {
		tier = 0
	}
	if tier > 3 {
		tier = 3
	}
	bars := []rune{'▂', '▄', '▆'} // ▂▄▆
	lit := string(bars[:tier])
	dim := strings.Repeat("▁", 3-tier) // ▁ for the unlit remainder
	return fmt.Sprintf("%s%s %d/3", lit, styleMuted.Render(dim), tier)
}
