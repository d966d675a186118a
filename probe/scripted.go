package probe

import "sync"

// ScriptedCounterReader replays a fixed sequence of counter snapshots and
// holds the final one once the script runs out. It stands in for kernel
// counters in tests and demos, and is safe for concurrent use.
type ScriptedCounterReader struct {
	mu     sync.Mutex
	script []CounterSnapshot
	next   int
	absent bool
}

// NewScriptedCounterReader creates a scripted counter reader.
func NewScriptedCounterReader(script ...CounterSnapshot) *ScriptedCounterReader {
	return &ScriptedCounterReader{script: script}
}

// SetAbsent controls whether the reader pretends its interface is gone;
// while absent, Counters reports ok=false.
func (r *ScriptedCounterReader) SetAbsent(absent bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.absent = absent
}

// Append adds snapshots to the end of the script.
func (r *ScriptedCounterReader) Append(snaps ...CounterSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.script = append(r.script, snaps...)
}

// Counters returns the next scripted snapshot.
func (r *ScriptedCounterReader) Counters() (CounterSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.absent {
		return CounterSnapshot{}, false
	}
	if len(r.script) == 0 {
		return CounterSnapshot{}, true
	}
	snap := r.script[r.next]
	if r.next < len(r.script)-1 {
		r.next++
	}
	return snap, true
}

// ScriptedLinkReader replays a fixed sequence of link snapshots and holds
// the final one once the script runs out. Safe for concurrent use.
type ScriptedLinkReader struct {
	mu     sync.Mutex
	script []LinkSnapshot
	next   int
}

// NewScriptedLinkReader creates a scripted link reader. With an empty
// script it reports an unavailable adapter.
func NewScriptedLinkReader(script ...LinkSnapshot) *ScriptedLinkReader {
	return &ScriptedLinkReader{script: script}
}

// SetScript discards any remaining script and replays the given snapshots
// from the next call on.
func (r *ScriptedLinkReader) SetScript(snaps ...LinkSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.script = snaps
	r.next = 0
}

// Append adds snapshots to the end of the script.
func (r *ScriptedLinkReader) Append(snaps ...LinkSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.script = append(r.script, snaps...)
}

// Link returns the next scripted snapshot.
func (r *ScriptedLinkReader) Link() LinkSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.script) == 0 {
		return LinkSnapshot{Status: LinkUnavailable}
	}
	snap := r.script[r.next]
	if r.next < len(r.script)-1 {
		r.next++
	}
	return snap
}

// ScriptedBatteryReader returns a fixed battery reading.
type ScriptedBatteryReader struct {
	mu      sync.Mutex
	snap    BatterySnapshot
	present bool
}

// NewScriptedBatteryReader creates a battery reader that always returns
// snap.
func NewScriptedBatteryReader(snap BatterySnapshot) *ScriptedBatteryReader {
	return &ScriptedBatteryReader{snap: snap, present: true}
}

// Set replaces the reading; present=false simulates a machine without a
// battery.
func (r *ScriptedBatteryReader) Set(snap BatterySnapshot, present bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap = snap
	r.present = present
}

// Battery returns the configured reading.
func (r *ScriptedBatteryReader) Battery() (BatterySnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap, r.present
}

// ScriptedSystemReader replays a fixed sequence of system snapshots and
// holds the final one once the script runs out. Safe for concurrent use.
type ScriptedSystemReader struct {
	mu     sync.Mutex
	script []SystemSnapshot
	next   int
}

// NewScriptedSystemReader creates a scripted system reader.
func NewScriptedSystemReader(script ...SystemSnapshot) *ScriptedSystemReader {
	return &ScriptedSystemReader{script: script}
}

// System returns the next scripted snapshot.
func (r *ScriptedSystemReader) System() SystemSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.script) == 0 {
		return SystemSnapshot{}
	}
	snap := r.script[r.next]
	if r.next < len(r.script)-1 {
		r.next++
	}
	return snap
}

// Compile-time interface compliance checks.
var (
	_ CounterReader = (*ScriptedCounterReader)(nil)
	_ LinkReader    = (*ScriptedLinkReader)(nil)
	_ BatteryReader = (*ScriptedBatteryReader)(nil)
	_ SystemReader  = (*ScriptedSystemReader)(nil)
)
