// Package probe reads raw telemetry from the operating system: cumulative
// network interface byte counters, Wi-Fi link state, battery charge, and
// basic system gauges. Readers are synchronous, side-effect free, and never
// fail loudly. A source that cannot be read reports "no data" or a zero
// snapshot so the sampling loops above stay live (degraded readings are
// expected and common, not errors).
//
// Every reader has a deterministic scripted counterpart in scripted.go for
// tests and demos.
package probe

import "fmt"

// CounterSnapshot holds cumulative byte counters for one interface or for an
// aggregate of interfaces. Counters are monotonically non-decreasing within
// a boot session; a decrease observed across reads means the underlying
// interface was re-enumerated or its counters reset.
type CounterSnapshot struct {
	// ReceivedBytes is the cumulative inbound byte count.
	ReceivedBytes uint64

	// SentBytes is the cumulative outbound byte count.
	SentBytes uint64
}

// CounterReader is a source of cumulative network byte counters.
type CounterReader interface {
	// Counters returns the current snapshot. ok is false when the reader's
	// target interface is absent or down, which callers must distinguish
	// from a genuine all-zero reading. Aggregate readers always report
	// ok=true, substituting a zero snapshot on transient read failure.
	Counters() (snap CounterSnapshot, ok bool)
}

// LinkStatus classifies the Wi-Fi radio.
type LinkStatus int

const (
	// LinkUnavailable means no Wi-Fi adapter is present.
	LinkUnavailable LinkStatus = iota
	// LinkRadioOff means an adapter exists but is powered down or rfkill-blocked.
	LinkRadioOff
	// LinkDisconnected means the radio is on but not associated to a network.
	LinkDisconnected
	// LinkConnected means the radio is associated. The network name may still
	// be empty when the platform redacts it.
	LinkConnected
)

// String returns the human-readable status name.
func (s LinkStatus) String() string {
	switch s {
	case LinkUnavailable:
		return "unavailable"
	case LinkRadioOff:
		return "radio off"
	case LinkDisconnected:
		return "disconnected"
	case LinkConnected:
		return "connected"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// LinkSnapshot holds one reading of the Wi-Fi link. Pointer fields are nil
// when the radio is off, disconnected, or the driver does not expose the
// metric. Unlike byte counters these values are instantaneous, not
// cumulative.
type LinkSnapshot struct {
	// Status classifies the radio; see LinkStatus.
	Status LinkStatus

	// SSID is the associated network name. May be empty even when
	// connected: platform privacy policy can redact it, which callers must
	// not conflate with disconnection.
	SSID string

	// Signal is the received signal strength in dBm.
	Signal *int

	// Noise is the background noise floor in dBm.
	Noise *int

	// Bitrate is the negotiated link rate in Mbit/s.
	Bitrate *float64
}

// LinkReader is a source of Wi-Fi link snapshots.
type LinkReader interface {
	// Link returns the current link snapshot. Degraded platforms report
	// Status LinkUnavailable rather than an error.
	Link() LinkSnapshot
}

// BatterySnapshot holds one battery reading.
type BatterySnapshot struct {
	// Percent is the charge level, 0-100.
	Percent float64

	// State is the platform-reported charge state, e.g. "Charging",
	// "Discharging", "Full". Empty when unknown.
	State string
}

// BatteryReader is a source of battery readings.
type BatteryReader interface {
	// Battery returns the current reading; ok is false when the machine
	// has no battery or the reading failed.
	Battery() (snap BatterySnapshot, ok bool)
}
