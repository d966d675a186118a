// Package report renders the one-shot boxed card for the three link
// snapshots.
//
// The card combines the published network, Wi-Fi, and host states with the
// health evaluation into a single terminal-ready string. Snapshots the
// caller does not supply are filled from the warm-start cache, so a plain
// invocation shows the last known picture without waiting for a sampler
// tick.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/link-pulse/cache"
	"gitlab.com/tinyland/lab/link-pulse/display/color"
	"gitlab.com/tinyland/lab/link-pulse/display/widgets"
	"gitlab.com/tinyland/lab/link-pulse/internal/format"
	"gitlab.com/tinyland/lab/link-pulse/probe"
	"gitlab.com/tinyland/lab/link-pulse/sampler"
	"gitlab.com/tinyland/lab/link-pulse/status"
)

// ReportConfig controls report generation behavior.
type ReportConfig struct {
	// CacheDir is the link-pulse cache directory.
	CacheDir string
	// CacheTTL is how long cached snapshots are considered fresh.
	CacheTTL time.Duration
	// Width overrides terminal width detection.
	Width int
	// Logger for report operations.
	Logger *slog.Logger
}

// DefaultReportConfig returns sensible defaults for report generation.
func DefaultReportConfig() ReportConfig {
	home, _ := os.UserHomeDir()
	return ReportConfig{
		CacheDir: home + "/.cache/link-pulse",
		CacheTTL: 5 * time.Minute,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Report renders the boxed snapshot card:
//  1. Fill missing snapshots from the warm-start cache
//  2. Evaluate link health
//  3. Format the per-component sections
//  4. Wrap everything in a box sized to the terminal
type Report struct {
	config ReportConfig
}

// NewReport creates a Report with the given configuration.
// If Logger is nil, a no-op logger is used.
func NewReport(cfg ReportConfig) *Report {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Report{config: cfg}
}

// systemSnapshot mirrors the persisted system entry: the published state
// plus the CPU ring the sampler stores alongside it.
type systemSnapshot struct {
	State      sampler.SystemState `json:"state"`
	CPUHistory []float64           `json:"cpu_history"`
}

// Generate produces the complete report card string. Nil snapshots are
// filled from the cache; a snapshot that is missing there too renders as
// "(no data)" rather than failing.
func (r *Report) Generate(network *sampler.NetworkState, wifi *sampler.WifiState, system *sampler.SystemState) string {
	// Step 1: Fill missing snapshots from the cache. If the store cannot
	// be opened, continue with what the caller gave us.
	var cpuHistory []float64
	if network == nil || wifi == nil || system == nil {
		store, err := cache.NewStore(r.config.CacheDir, r.config.Logger)
		if err != nil {
			r.config.Logger.Warn("report: failed to open cache store", "error", err)
		} else {
			network, wifi, system, cpuHistory = r.loadCachedData(store, network, wifi, system)
		}
	}

	// Step 2: Evaluate link health.
	evaluator := status.NewEvaluator(status.DefaultEvaluatorConfig())
	health := evaluator.Evaluate(network, wifi, system)

	// Step 3: Resolve the card width.
	width := r.config.Width
	if width <= 0 {
		width, _ = DetectTerminalSize()
	}
	if width > 72 {
		width = 72
	}
	if width < 40 {
		width = 40
	}

	// Step 4: Build the card body.
	lines := r.buildLines(network, wifi, system, cpuHistory, health, width)

	// Step 5: Wrap it in the box, title colored by the overall level.
	return RenderBox(lines, width, "link-pulse", RoundedBox, color.LevelColor(health.Overall))
}

// loadCachedData reads missing snapshots from the cache store. Snapshots
// already supplied by the caller win over cached ones.
func (r *Report) loadCachedData(store *cache.Store, network *sampler.NetworkState, wifi *sampler.WifiState, system *sampler.SystemState) (*sampler.NetworkState, *sampler.WifiState, *sampler.SystemState, []float64) {
	ttl := r.config.CacheTTL

	if network == nil {
		cached, _, err := cache.GetTyped[sampler.NetworkState](store, "network", ttl)
		if err != nil {
			r.config.Logger.Warn("report: failed to load network snapshot", "error", err)
		} else {
			network = cached
		}
	}

	if wifi == nil {
		cached, _, err := cache.GetTyped[sampler.WifiState](store, "wifi", ttl)
		if err != nil {
			r.config.Logger.Warn("report: failed to load wifi snapshot", "error", err)
		} else {
			wifi = cached
		}
	}

	var cpuHistory []float64
	if system == nil {
		cached, _, err := cache.GetTyped[systemSnapshot](store, "system", ttl)
		if err != nil {
			r.config.Logger.Warn("report: failed to load system snapshot", "error", err)
		} else if cached != nil {
			system = &cached.State
			cpuHistory = cached.CPUHistory
		}
	}

	return network, wifi, system, cpuHistory
}

// buildLines assembles the card body: a header with the overall level, one
// section per component, and a freshness footer.
func (r *Report) buildLines(network *sampler.NetworkState, wifi *sampler.WifiState, system *sampler.SystemState, cpuHistory []float64, health status.SystemStatus, width int) []string {
	// Inner text width: box borders plus one space of padding each side.
	inner := width - 4

	var lines []string
	lines = append(lines, widgets.RenderStatus(widgets.StatusConfig{
		Level:    health.Overall,
		Text:     health.Overall.String(),
		ShowIcon: true,
	}))
	lines = append(lines, "")

	sections := []struct {
		title   string
		key     string // evaluator component name
		content []string
	}{
		{"Network", "network", r.formatNetworkLines(network)},
		{"Wi-Fi", "wifi", r.formatWifiLines(wifi, inner)},
		{"System", "system", r.formatSystemLines(system, cpuHistory, inner)},
	}

	for _, sec := range sections {
		title := sec.title
		if reason := componentReason(health, sec.key); reason != "" {
			title += "  (" + reason + ")"
		}
		lines = append(lines, sectionTitle(title))
		for _, c := range sec.content {
			lines = append(lines, "  "+c)
		}
	}

	lines = append(lines, "")
	lines = append(lines, r.footerLine(network, wifi, system))
	return lines
}

// componentReason returns the reason string for a component when it is not
// healthy, empty otherwise.
func componentReason(health status.SystemStatus, component string) string {
	for _, c := range health.Components {
		if c.Component == component && c.Level != status.LevelHealthy {
			return c.Reason
		}
	}
	return ""
}

// sectionTitle styles a section heading.
func sectionTitle(title string) string {
	return lipgloss.NewStyle().Bold(true).Render(title)
}

// styleMuted dims the meta text; it borrows the palette's gray.
var styleMuted = lipgloss.NewStyle().Foreground(color.LevelColor(status.LevelUnknown))

// formatNetworkLines formats the throughput snapshot.
func (r *Report) formatNetworkLines(data *sampler.NetworkState) []string {
	if data == nil {
		return []string{"(no data)"}
	}

	lines := []string{
		fmt.Sprintf("↓ %-12s ↑ %s", format.ByteRate(data.DownloadRate), format.ByteRate(data.UploadRate)),
		fmt.Sprintf("total ↓ %s  ↑ %s", format.ByteCount(data.TotalDownloaded), format.ByteCount(data.TotalUploaded)),
	}
	if data.HasWifiData {
		lines = append(lines, fmt.Sprintf("wifi  ↓ %-10s ↑ %s", format.ByteRate(data.WifiDownloadRate), format.ByteRate(data.WifiUploadRate)))
	}
	return lines
}

// formatWifiLines formats the link snapshot.
func (r *Report) formatWifiLines(data *sampler.WifiState, inner int) []string {
	if data == nil {
		return []string{"(no data)"}
	}

	switch data.Status {
	case probe.LinkConnected:
		name := data.NetworkName
		if name == "" {
			name = "(name withheld)"
		}
		lines := []string{format.TruncateWithEllipsis(name, inner-2)}

		if data.SignalPercent >= 0 {
			gauge := widgets.RenderSignalGauge(float64(data.SignalPercent), 10)
			lines = append(lines, gauge)
		}
		if data.SignalDBM != 0 {
			radio := fmt.Sprintf("%d dBm", data.SignalDBM)
			if data.NoiseDBM != 0 {
				radio += fmt.Sprintf("  snr %d dB", data.SignalDBM-data.NoiseDBM)
			}
			if data.BitrateMbps > 0 {
				radio += fmt.Sprintf("  %.0f Mb/s", data.BitrateMbps)
			}
			lines = append(lines, radio)
		}
		return lines

	case probe.LinkDisconnected:
		return []string{"disconnected"}
	case probe.LinkRadioOff:
		return []string{"radio off"}
	default:
		return []string{"no wireless adapter"}
	}
}

// formatSystemLines formats the host snapshot.
func (r *Report) formatSystemLines(data *sampler.SystemState, cpuHistory []float64, inner int) []string {
	if data == nil {
		return []string{"(no data)"}
	}

	gauge := func(label string, pct, warn, danger float64) string {
		bar := widgets.RenderGauge(widgets.GaugeConfig{
			Width:            10,
			Percent:          pct,
			ShowPercent:      true,
			ThresholdWarning: warn,
			ThresholdDanger:  danger,
		})
		return fmt.Sprintf("%-5s %s", label, bar)
	}

	lines := []string{
		gauge("cpu", data.CPUPercent, 85, 95),
		gauge("mem", data.MemPercent, 85, 95),
		gauge("disk", data.DiskPercent, 90, 98),
		fmt.Sprintf("load  %.2f %.2f %.2f", data.Load1, data.Load5, data.Load15),
	}
	if data.Uptime > 0 {
		lines = append(lines, "up    "+format.Duration(data.Uptime))
	}
	if data.HasBattery {
		lines = append(lines, fmt.Sprintf("batt  %.0f%% %s", data.BatteryPercent, strings.ToLower(data.BatteryState)))
	}
	if len(cpuHistory) > 1 {
		sparkWidth := inner - 8
		if sparkWidth > 30 {
			sparkWidth = 30
		}
		if sparkWidth >= 5 {
			lines = append(lines, "trend "+widgets.RenderPercentSparkline(cpuHistory, sparkWidth, ""))
		}
	}
	return lines
}

// footerLine reports how old the newest snapshot is.
func (r *Report) footerLine(network *sampler.NetworkState, wifi *sampler.WifiState, system *sampler.SystemState) string {
	var newest time.Time
	if network != nil && network.LastUpdated.After(newest) {
		newest = network.LastUpdated
	}
	if wifi != nil && wifi.LastUpdated.After(newest) {
		newest = wifi.LastUpdated
	}
	if system != nil && system.LastUpdated.After(newest) {
		newest = system.LastUpdated
	}

	if newest.IsZero() {
		return styleMuted.Render("no samples yet")
	}
	return styleMuted.Render("sampled " + format.TimeSince(newest))
}
