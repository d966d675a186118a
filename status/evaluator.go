// Package status judges link health from published sampler snapshots and
// assembles the one-line prompt segment.
package status

import (
	"fmt"
	"time"

	"gitlab.com/tinyland/lab/link-pulse/internal/format"
	"gitlab.com/tinyland/lab/link-pulse/probe"
	"gitlab.com/tinyland/lab/link-pulse/sampler"
)

// Level represents link health.
type Level int

const (
	LevelHealthy  Level = iota // Everything normal
	LevelWarning               // Something needs attention
	LevelCritical              // Immediate attention needed
	LevelUnknown               // Insufficient data
)

// String returns the human-readable name for a Level.
func (l Level) String() string {
	switch l {
	case LevelHealthy:
		return "healthy"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	case LevelUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// levelSeverity returns the sort order for levels. Higher is worse.
// Critical > Warning > Unknown > Healthy.
func levelSeverity(l Level) int {
	switch l {
	case LevelHealthy:
		return 0
	case LevelUnknown:
		return 1
	case LevelWarning:
		return 2
	case LevelCritical:
		return 3
	default:
		return 0
	}
}

// worstLevel returns whichever Level is more severe.
func worstLevel(a, b Level) Level {
	if levelSeverity(a) >= levelSeverity(b) {
		return a
	}
	return b
}

// raise upgrades the running result when candidate is more severe.
func raise(level *Level, reason *string, candidate Level, why string) {
	if levelSeverity(candidate) > levelSeverity(*level) {
		*level = candidate
		*reason = why
	}
}

// ComponentStatus holds the evaluation result for a single component.
type ComponentStatus struct {
	Component string // "network", "wifi", "system"
	Level     Level
	Reason    string // Human-readable reason
}

// SystemStatus is the aggregate evaluation result.
type SystemStatus struct {
	Overall     Level // Worst of all components
	Components  []ComponentStatus
	EvaluatedAt time.Time
}

// EvaluatorConfig holds thresholds for evaluation rules.
type EvaluatorConfig struct {
	// StaleAfter marks a snapshot unknown when its LastUpdated is older.
	StaleAfter time.Duration // Default: 5m

	// Wifi thresholds, on the 0-100 quality score.
	WifiWarningPercent  int // Default: 40 (at or below -> warning)
	WifiCriticalPercent int // Default: 15

	// Host gauge thresholds.
	CPUWarningPercent   float64 // Default: 85.0
	CPUCriticalPercent  float64 // Default: 95.0
	MemWarningPercent   float64 // Default: 85.0
	MemCriticalPercent  float64 // Default: 95.0
	DiskWarningPercent  float64 // Default: 90.0
	DiskCriticalPercent float64 // Default: 98.0

	// Battery thresholds, applied only while discharging.
	BatteryWarningPercent  float64 // Default: 20.0
	BatteryCriticalPercent float64 // Default: 8.0
}

// DefaultEvaluatorConfig returns an EvaluatorConfig with sensible defaults.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		StaleAfter:             5 * time.Minute,
		WifiWarningPercent:     40,
		WifiCriticalPercent:    15,
		CPUWarningPercent:      85.0,
		CPUCriticalPercent:     95.0,
		MemWarningPercent:      85.0,
		MemCriticalPercent:     95.0,
		DiskWarningPercent:     90.0,
		DiskCriticalPercent:    98.0,
		BatteryWarningPercent:  20.0,
		BatteryCriticalPercent: 8.0,
	}
}

// Evaluator analyzes sampler snapshots and determines link health.
type Evaluator struct {
	config EvaluatorConfig

	// Overridable clock for tests.
	now func() time.Time
}

// NewEvaluator creates an Evaluator with the given configuration.
func NewEvaluator(cfg EvaluatorConfig) *Evaluator {
	return &Evaluator{config: cfg, now: time.Now}
}

// Evaluate runs all evaluation rules and returns the aggregate status.
// Nil snapshots read as "no data".
func (e *Evaluator) Evaluate(network *sampler.NetworkState, wifi *sampler.WifiState, system *sampler.SystemState) SystemStatus {
	networkStatus := e.evaluateNetwork(network)
	wifiStatus := e.evaluateWifi(wifi)
	systemStatus := e.evaluateSystem(system)

	components := []ComponentStatus{networkStatus, wifiStatus, systemStatus}

	overall := components[0].Level
	for _, c := range components[1:] {
		overall = worstLevel(overall, c.Level)
	}

	return SystemStatus{
		Overall:     overall,
		Components:  components,
		EvaluatedAt: e.now(),
	}
}

// freshness classifies a snapshot timestamp. ok is false when the snapshot
// cannot be judged at all, with reason filled in.
func (e *Evaluator) freshness(updated time.Time) (reason string, ok bool) {
	if updated.IsZero() {
		return "no samples yet", false
	}
	if age := e.now().Sub(updated); age > e.config.StaleAfter {
		return fmt.Sprintf("last sample %s ago", format.Duration(age)), false
	}
	return "", true
}

// evaluateNetwork checks throughput snapshot freshness. Throughput itself
// carries no health judgement; fast or idle, a fresh snapshot is healthy.
func (e *Evaluator) evaluateNetwork(data *sampler.NetworkState) ComponentStatus {
	if data == nil {
		return ComponentStatus{Component: "network", Level: LevelUnknown, Reason: "no data"}
	}
	if reason, ok := e.freshness(data.LastUpdated); !ok {
		return ComponentStatus{Component: "network", Level: LevelUnknown, Reason: reason}
	}

	return ComponentStatus{
		Component: "network",
		Level:     LevelHealthy,
		Reason: fmt.Sprintf("down %s, up %s",
			format.ByteRate(data.DownloadRate), format.ByteRate(data.UploadRate)),
	}
}

// evaluateWifi checks association state and the quality score.
func (e *Evaluator) evaluateWifi(data *sampler.WifiState) ComponentStatus {
	if data == nil {
		return ComponentStatus{Component: "wifi", Level: LevelUnknown, Reason: "no data"}
	}
	if reason, ok := e.freshness(data.LastUpdated); !ok {
		return ComponentStatus{Component: "wifi", Level: LevelUnknown, Reason: reason}
	}

	switch data.Status {
	case probe.LinkUnavailable:
		return ComponentStatus{Component: "wifi", Level: LevelUnknown, Reason: "no wireless interface"}
	case probe.LinkRadioOff:
		return ComponentStatus{Component: "wifi", Level: LevelWarning, Reason: "radio off"}
	case probe.LinkDisconnected:
		return ComponentStatus{Component: "wifi", Level: LevelWarning, Reason: "not associated"}
	}

	if data.SignalPercent < 0 {
		return ComponentStatus{Component: "wifi", Level: LevelUnknown, Reason: "associated, no signal reading"}
	}

	name := data.NetworkName
	if name == "" {
		name = "wifi"
	}

	resultLevel := LevelHealthy
	resultReason := fmt.Sprintf("%s at %d%%", name, data.SignalPercent)

	if data.SignalPercent <= e.config.WifiCriticalPercent {
		raise(&resultLevel, &resultReason, LevelCritical,
			fmt.Sprintf("signal at %d%%", data.SignalPercent))
	} else if data.SignalPercent <= e.config.WifiWarningPercent {
		raise(&resultLevel, &resultReason, LevelWarning,
			fmt.Sprintf("signal at %d%%", data.SignalPercent))
	}

	return ComponentStatus{Component: "wifi", Level: resultLevel, Reason: resultReason}
}

// evaluateSystem checks host gauges against their thresholds.
func (e *Evaluator) evaluateSystem(data *sampler.SystemState) ComponentStatus {
	if data == nil {
		return ComponentStatus{Component: "system", Level: LevelUnknown, Reason: "no data"}
	}
	if reason, ok := e.freshness(data.LastUpdated); !ok {
		return ComponentStatus{Component: "system", Level: LevelUnknown, Reason: reason}
	}

	resultLevel := LevelHealthy
	resultReason := "host nominal"

	if data.CPUPercent > e.config.CPUCriticalPercent {
		raise(&resultLevel, &resultReason, LevelCritical, fmt.Sprintf("cpu at %.0f%%", data.CPUPercent))
	} else if data.CPUPercent > e.config.CPUWarningPercent {
		raise(&resultLevel, &resultReason, LevelWarning, fmt.Sprintf("cpu at %.0f%%", data.CPUPercent))
	}

	if data.MemPercent > e.config.MemCriticalPercent {
		raise(&resultLevel, &resultReason, LevelCritical, fmt.Sprintf("memory at %.0f%%", data.MemPercent))
	} else if data.MemPercent > e.config.MemWarningPercent {
		raise(&resultLevel, &resultReason, LevelWarning, fmt.Sprintf("memory at %.0f%%", data.MemPercent))
	}

	if data.DiskPercent > e.config.DiskCriticalPercent {
		raise(&resultLevel, &resultReason, LevelCritical, fmt.Sprintf("disk at %.0f%%", data.DiskPercent))
	} else if data.DiskPercent > e.config.DiskWarningPercent {
		raise(&resultLevel, &resultReason, LevelWarning, fmt.Sprintf("disk at %.0f%%", data.DiskPercent))
	}

	if data.HasBattery && data.BatteryState == "Discharging" {
		if data.BatteryPercent < e.config.BatteryCriticalPercent {
			raise(&resultLevel, &resultReason, LevelCritical, fmt.Sprintf("battery at %.0f%%", data.BatteryPercent))
		} else if data.BatteryPercent < e.config.BatteryWarningPercent {
			raise(&resultLevel, &resultReason, LevelWarning, fmt.Sprintf("battery at %.0f%%", data.BatteryPercent))
		}
	}

	return ComponentStatus{Component: "system", Level: resultLevel, Reason: resultReason}
}
