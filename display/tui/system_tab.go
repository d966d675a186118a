package tui

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/link-pulse/display/widgets"
	"gitlab.com/tinyland/lab/link-pulse/internal/format"
	"gitlab.com/tinyland/lab/link-pulse/sampler"
)

// renderSystemContent renders the System tab: host gauges, load, uptime,
// battery, and the CPU history sparkline.
func renderSystemContent(data *sampler.SystemState, cpuHistory []float64, stats sampler.Stats, width, height int) string {
	if data == nil {
		return "No host samples yet\n\nWaiting for the first tick."
	}

	layout := LayoutForSize(DetectLayout(width), width)
	var sections []string

	sections = append(sections, styleTitle.Render("Host"))
	sections = append(sections, "")

	// Gauge thresholds match the health evaluator's warning and critical
	// cutoffs per metric.
	sections = append(sections, labeledRow("CPU", widgets.RenderGauge(widgets.GaugeConfig{
		Width:            layout.GaugeWidth,
		Percent:          data.CPUPercent,
		ShowPercent:      true,
		ThresholdWarning: 85,
		ThresholdDanger:  95,
	})))
	sections = append(sections, labeledRow("Memory", widgets.RenderGauge(widgets.GaugeConfig{
		Width:            layout.GaugeWidth,
		Percent:          data.MemPercent,
		ShowPercent:      true,
		ThresholdWarning: 85,
		ThresholdDanger:  95,
	})))
	sections = append(sections, labeledRow("Disk", widgets.RenderGauge(widgets.GaugeConfig{
		Width:            layout.GaugeWidth,
		Percent:          data.DiskPercent,
		ShowPercent:      true,
		ThresholdWarning: 90,
		ThresholdDanger:  98,
	})))

	sections = append(sections, "")
	sections = append(sections, labeledRow("Load", fmt.Sprintf("%.2f %.2f %.2f", data.Load1, data.Load5, data.Load15)))
	if data.Uptime > 0 {
		sections = append(sections, labeledRow("Uptime", format.Duration(data.Uptime)))
	}
	if data.HasBattery {
		sections = append(sections, labeledRow("Battery", fmt.Sprintf("%.0f%% %s", data.BatteryPercent, strings.ToLower(data.BatteryState))))
	}

	if layout.ShowSparklines && len(cpuHistory) > 1 {
		sections = append(sections, "")
		sections = append(sections, labeledRow("CPU trend", widgets.RenderPercentSparkline(cpuHistory, layout.SparkWidth, activeTheme.Secondary)))
	}

	sections = append(sections, "")
	sections = append(sections, styleMuted.Render(statsLine(stats)))
	if !data.LastUpdated.IsZero() {
		sections = append(sections, styleMuted.Render("Last change: "+format.TimeSince(data.LastUpdated)))
	}

	return strings.Join(sections, "\n")
}
