// Package ewma implements the exponential moving average filters used by the
// telemetry samplers to smooth noisy rate and signal readings.
//
// Two variants exist. Filter applies a fixed per-update smoothing factor and
// suits sources sampled on a steady cadence, such as byte-rate deltas.
// AdaptiveFilter derives its factor from elapsed time, so sources with
// irregular tick spacing (delayed timers, a suspended process) converge at
// the same wall-clock rate as steady ones.
package ewma

import (
	"math"
	"time"
)

// Filter is a fixed-alpha exponential moving average.
// The zero value has no history; the first sample seeds it.
type Filter struct {
	alpha  float64
	value  float64
	seeded bool
}

// NewFilter returns a Filter with the given smoothing factor.
// Alpha is clamped to [0, 1]: 0 freezes the seed value, 1 disables smoothing.
func NewFilter(alpha float64) *Filter {
	return &Filter{alpha: clampAlpha(alpha)}
}

// Update feeds a sample through the filter and returns the new smoothed
// value. The first sample after construction or Reset seeds the filter and
// is returned unchanged, avoiding an artificial ramp-up from zero.
func (f *Filter) Update(sample float64) float64 {
	if !f.seeded {
		f.value = sample
		f.seeded = true
		return f.value
	}
	f.value += f.alpha * (sample - f.value)
	return f.value
}

// Value returns the current smoothed value and whether the filter holds any
// history. Before the first Update the value is 0 and seeded is false.
func (f *Filter) Value() (value float64, seeded bool) {
	return f.value, f.seeded
}

// Reset discards all history so the next sample re-seeds the filter instead
// of being smoothed toward stale state. Used when the underlying signal is
// known to have discontinued: a counter re-baseline, a radio power cycle.
func (f *Filter) Reset() {
	f.value = 0
	f.seeded = false
}

// AdaptiveFilter is an exponential moving average whose smoothing factor is
// computed per update as alpha = 1 - exp(-dt/tau), where dt is the elapsed
// time since the previous update and tau is the configured time constant.
// Convergence is governed by elapsed time, not update count: feeding the
// same trajectory at double the tick spacing yields the same values at the
// same wall-clock instants.
type AdaptiveFilter struct {
	tau    time.Duration
	value  float64
	lastAt time.Time
	seeded bool
}

// NewAdaptiveFilter returns an AdaptiveFilter with the given time constant.
// A non-positive time constant disables smoothing entirely (every sample
// passes through unchanged).
func NewAdaptiveFilter(timeConstant time.Duration) *AdaptiveFilter {
	return &AdaptiveFilter{tau: timeConstant}
}

// UpdateAt feeds a sample observed at the given timestamp through the filter
// and returns the new smoothed value. Timestamps must come from a monotonic
// source; a timestamp at or before the previous one contributes nothing
// (alpha 0) rather than corrupting the state. The first sample seeds the
// filter and is returned unchanged.
func (f *AdaptiveFilter) UpdateAt(sample float64, at time.Time) float64 {
	if !f.seeded {
		f.value = sample
		f.lastAt = at
		f.seeded = true
		return f.value
	}

	if f.tau <= 0 {
		f.value = sample
		f.lastAt = at
		return f.value
	}

	dt := at.Sub(f.lastAt)
	if dt < 0 {
		dt = 0
	}
	alpha := 1 - math.Exp(-dt.Seconds()/f.tau.Seconds())
	f.value += alpha * (sample - f.value)
	f.lastAt = at
	return f.value
}

// Value returns the current smoothed value and whether the filter holds any
// history.
func (f *AdaptiveFilter) Value() (value float64, seeded bool) {
	return f.value, f.seeded
}

// Reset discards all history, including the last-update timestamp, so the
// next sample re-seeds the filter.
func (f *AdaptiveFilter) Reset() {
	f.value = 0
	f.lastAt = time.Time{}
	f.seeded = false
}

// clampAlpha bounds a smoothing factor to [0, 1].
func clampAlpha(alpha float64) float64 {
	switch {
	case alpha < 0:
		return 0
	case alpha > 1:
		return 1
	default:
		return alpha
	}
}
