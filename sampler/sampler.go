// Package sampler turns raw OS counters and radio readings into smoothed,
// change-coalesced telemetry states published on a fixed cadence.
//
// Three samplers share one design: a ref-counted lifecycle (the loop runs
// while at least one caller holds a Start), a single tick goroutine that
// owns all baselines and filters, and a broadcaster whose state updates
// only when a field actually changed. NetworkSampler tracks throughput
// rates, WifiSampler tracks link quality, SystemSampler tracks host gauges.
// Consumers either poll State() or Subscribe() for pushed updates; slow
// consumers never block the tick loop.
package sampler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultNetworkInterval is the throughput sampling cadence.
	DefaultNetworkInterval = 1 * time.Second

	// DefaultNetworkAlpha is the fixed EMA weight for byte rates: responsive
	// within a second or two without flickering on bursty traffic.
	DefaultNetworkAlpha = 0.3

	// DefaultWifiInterval is the link quality sampling cadence.
	DefaultWifiInterval = 2 * time.Second

	// DefaultWifiTimeConstant is the time constant for the adaptive
	// signal/noise filters.
	DefaultWifiTimeConstant = 5 * time.Second

	// DefaultSystemInterval is the host gauge sampling cadence.
	DefaultSystemInterval = 5 * time.Second

	// defaultGapFloor and defaultGapFactor shape the sleep/wake detector: a
	// tick arriving more than max(floor, factor*interval) after its baseline
	// re-baselines instead of producing a rate.
	defaultGapFloor  = 5 * time.Second
	defaultGapFactor = 4

	// minTickDelta floors the rate divisor so coalesced timer fires cannot
	// divide by zero.
	minTickDelta = time.Millisecond

	// persistEvery throttles warm-start snapshot writes; the final state is
	// always written when the loop exits.
	persistEvery = 30 * time.Second

	// warmStartTTL bounds how old a cached snapshot may be and still be
	// loaded at construction. Older rates are meaningless to render.
	warmStartTTL = 5 * time.Minute
)

// Stats describes a sampler's loop for diagnostics.
type Stats struct {
	// Running reports whether the tick loop is active.
	Running bool

	// Observers is the current Start/Stop reference count.
	Observers int

	// Ticks counts completed loop passes since construction.
	Ticks uint64

	// GapEvents counts ticks discarded by the sleep/wake detector.
	GapEvents uint64
}

// setIfChanged writes next into field and reports whether the stored value
// actually changed. Publishing through it keeps identical writes from
// waking observers.
func setIfChanged[T comparable](field *T, next T) bool {
	if *field == next {
		return false
	}
	*field = next
	return true
}

// anyChanged reports whether any element is true. Being an ordinary call,
// it evaluates every setIfChanged argument before inspecting the results.
func anyChanged(changes ...bool) bool {
	for _, c := range changes {
		if c {
			return true
		}
	}
	return false
}

// broadcaster holds one sampler's published state and fans out updates.
// Only the owning sampler writes; any number of goroutines read.
type broadcaster[T any] struct {
	mu     sync.RWMutex
	state  T
	subs   map[int]chan T
	nextID int
}

func newBroadcaster[T any](initial T) *broadcaster[T] {
	return &broadcaster[T]{
		state: initial,
		subs:  make(map[int]chan T),
	}
}

// snapshot returns the current state by value.
func (b *broadcaster[T]) snapshot() T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// publish replaces the state and fans it out to every subscriber. Sends
// conflate: a subscriber that has not drained its channel keeps only the
// newest state, and a slow subscriber never blocks the caller.
func (b *broadcaster[T]) publish(state T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = state
	for _, ch := range b.subs {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}

// subscribe registers an observer. The returned channel emits a state only
// when a publish happened, i.e. when something changed. The cancel func
// unregisters and closes the channel; calling it twice is safe.
func (b *broadcaster[T]) subscribe() (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan T, 1)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// runner implements the ref-counted lifecycle shared by the samplers. The
// lifecycle lock makes Start/Stop and loop spawn/drain mutually exclusive;
// the loop goroutine itself never takes it, so tick work can never deadlock
// a lifecycle call.
type runner struct {
	mu     sync.Mutex
	refs   int
	cancel context.CancelFunc
	done   chan struct{}

	interval time.Duration

	ticks atomic.Uint64
	gaps  atomic.Uint64

	// seed runs under the lifecycle lock before the loop spawns; tick and
	// cleanup run on the loop goroutine only.
	seed    func()
	tick    func()
	cleanup func()

	// static suppresses the loop entirely: seed publishes once and the
	// sampler only ref-counts. Used by the fixed-values mode.
	static bool

	// Overridable tick source for tests.
	newTicker func(time.Duration) (<-chan time.Time, func())
}

// start increments the observer count and, on the transition from zero,
// seeds and launches the loop. If a previously stopped loop is still
// draining, start waits for it first so exactly one goroutine ever owns
// the sampling state.
func (r *runner) start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refs++
	if r.refs > 1 {
		return
	}

	if r.done != nil {
		<-r.done
		r.done = nil
	}

	if r.seed != nil {
		r.seed()
	}
	if r.static {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	go r.run(ctx, done)
}

// stop decrements the observer count and cancels the loop when it reaches
// zero. Extra stops are no-ops; the count never goes below zero. stop does
// not wait for the loop to drain.
func (r *runner) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		return
	}
	r.refs--
	if r.refs > 0 {
		return
	}

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *runner) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	if r.cleanup != nil {
		defer r.cleanup()
	}

	tickCh, stopTicker := r.newTicker(r.interval)
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tickCh:
			// A tick that fired while stop was cancelling loses.
			select {
			case <-ctx.Done():
				return
			default:
			}
			r.tick()
			r.ticks.Add(1)
		}
	}
}

func (r *runner) noteGap() {
	r.gaps.Add(1)
}

func (r *runner) stats() Stats {
	r.mu.Lock()
	refs := r.refs
	r.mu.Unlock()

	return Stats{
		Running:   refs > 0,
		Observers: refs,
		Ticks:     r.ticks.Load(),
		GapEvents: r.gaps.Load(),
	}
}

func defaultTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
