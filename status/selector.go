package status

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/link-pulse/internal/format"
	"gitlab.com/tinyland/lab/link-pulse/probe"
	"gitlab.com/tinyland/lab/link-pulse/sampler"
)

// Part identifies one segment readout.
type Part int

const (
	PartWifi Part = iota
	PartRates
	PartBattery
)

// partOrder is the render priority. When width runs out, later parts drop
// first so the prompt keeps the link readout.
var partOrder = []Part{PartWifi, PartRates, PartBattery}

// SelectorConfig configures segment assembly.
type SelectorConfig struct {
	// MaxWidth caps the assembled width in cells. 0 means uncapped.
	MaxWidth int
	// Wifi, Rates, and Battery toggle individual readouts.
	Wifi    bool
	Rates   bool
	Battery bool
	// Separator joins adjacent readouts. Empty means two spaces.
	Separator string
}

// DefaultSelectorConfig returns a SelectorConfig with every readout enabled.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		Wifi:      true,
		Rates:     true,
		Battery:   true,
		Separator: "  ",
	}
}

// Selector assembles the one-line prompt segment from published snapshots.
type Selector struct {
	config SelectorConfig
}

// NewSelector creates a Selector with the given configuration.
func NewSelector(cfg SelectorConfig) *Selector {
	if cfg.Separator == "" {
		cfg.Separator = "  "
	}
	return &Selector{config: cfg}
}

// Segment renders the enabled readouts that fit within MaxWidth, in
// priority order. The first readout always renders even when it alone
// exceeds the cap, so the segment never goes blank on a narrow budget.
// Nil snapshots and absent hardware contribute nothing.
func (s *Selector) Segment(network *sampler.NetworkState, wifi *sampler.WifiState, system *sampler.SystemState) string {
	out := ""
	for _, p := range partOrder {
		text := s.renderPart(p, network, wifi, system)
		if text == "" {
			continue
		}
		if out == "" {
			out = text
			continue
		}
		candidate := out + s.config.Separator + text
		if s.config.MaxWidth > 0 && lipgloss.Width(candidate) > s.config.MaxWidth {
			break
		}
		out = candidate
	}
	return out
}

func (s *Selector) renderPart(p Part, network *sampler.NetworkState, wifi *sampler.WifiState, system *sampler.SystemState) string {
	switch p {
	case PartWifi:
		if !s.config.Wifi {
			return ""
		}
		return wifiPart(wifi)
	case PartRates:
		if !s.config.Rates {
			return ""
		}
		return ratesPart(network)
	case PartBattery:
		if !s.config.Battery {
			return ""
		}
		return batteryPart(system)
	default:
		return ""
	}
}

// wifiPart summarizes the link: network name plus quality score when
// connected, a short status word otherwise. Machines without a wireless
// interface contribute nothing.
func wifiPart(wifi *sampler.WifiState) string {
	if wifi == nil {
		return ""
	}
	switch wifi.Status {
	case probe.LinkConnected:
		name := wifi.NetworkName
		if name == "" {
			name = "wifi"
		}
		if wifi.SignalPercent < 0 {
			return name
		}
		return fmt.Sprintf("%s %d%%", name, wifi.SignalPercent)
	case probe.LinkDisconnected:
		return "no link"
	case probe.LinkRadioOff:
		return "radio off"
	default:
		return ""
	}
}

// ratesPart renders current throughput. Unsampled snapshots contribute
// nothing rather than a misleading 0 B/s.
func ratesPart(network *sampler.NetworkState) string {
	if network == nil || network.LastUpdated.IsZero() {
		return ""
	}
	return fmt.Sprintf("↓%s ↑%s",
		format.ByteRate(network.DownloadRate), format.ByteRate(network.UploadRate))
}

// batteryPart renders charge level, marking charging with a trailing plus.
func batteryPart(system *sampler.SystemState) string {
	if system == nil || !system.HasBattery {
		return ""
	}
	pct := int(math.Round(system.BatteryPercent))
	if system.BatteryState == "Charging" || system.BatteryState == "Full" {
		return fmt.Sprintf("bat %d%%+", pct)
	}
	return fmt.Sprintf("bat %d%%", pct)
}
