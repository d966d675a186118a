package sampler

import (
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/link-pulse/cache"
	"gitlab.com/tinyland/lab/link-pulse/probe"
)

// systemCacheKey is the warm-start snapshot key.
const systemCacheKey = "system"

// maxCPUHistory bounds the CPU sparkline ring.
const maxCPUHistory = 60

// SystemState is the published host snapshot. Percentages are rounded to one
// decimal and Uptime to the minute so steady hosts coalesce instead of
// re-publishing identical-looking values every tick.
type SystemState struct {
	CPUPercent  float64 `json:"cpu_percent"`
	MemPercent  float64 `json:"mem_percent"`
	DiskPercent float64 `json:"disk_percent"`

	Load1  float64 `json:"load_1"`
	Load5  float64 `json:"load_5"`
	Load15 float64 `json:"load_15"`

	// BatteryPercent and BatteryState are meaningful only when HasBattery.
	BatteryPercent float64 `json:"battery_percent"`
	BatteryState   string  `json:"battery_state"`
	HasBattery     bool    `json:"has_battery"`

	Uptime time.Duration `json:"uptime"`

	// LastUpdated advances once per tick in which at least one field above
	// changed.
	LastUpdated time.Time `json:"last_updated"`
}

// systemCachePayload is the persisted form: the published state plus the CPU
// ring, so a warm start repaints the sparkline.
type systemCachePayload struct {
	State      SystemState `json:"state"`
	CPUHistory []float64   `json:"cpu_history"`
}

// SystemConfig configures a SystemSampler. Zero fields take defaults.
type SystemConfig struct {
	// Interval is the tick period. Defaults to DefaultSystemInterval.
	Interval time.Duration

	// Reader supplies host snapshots. Defaults to a live probe.HostReader.
	Reader probe.SystemReader

	// Battery supplies battery snapshots. Defaults to the platform reader.
	Battery probe.BatteryReader

	// Cache, when set, persists the published state across runs and loads
	// a recent snapshot at construction.
	Cache *cache.Store

	// Fixed, when non-nil, bypasses live sampling: the first Start
	// publishes this state once and no loop runs.
	Fixed *SystemState

	// Logger receives debug telemetry. Nil means a no-op logger.
	Logger *slog.Logger
}

// SystemSampler publishes host load figures. Start and Stop are ref-counted
// and safe from any goroutine.
type SystemSampler struct {
	run    *runner
	pub    *broadcaster[SystemState]
	logger *slog.Logger

	reader  probe.SystemReader
	battery probe.BatteryReader

	store     *cache.Store
	lastSaved time.Time

	mu      sync.Mutex
	history []float64

	// Overridable clock for tests.
	now func() time.Time
}

// NewSystemSampler creates a host load sampler.
func NewSystemSampler(cfg SystemConfig) *SystemSampler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSystemInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Reader == nil {
		cfg.Reader = probe.NewHostReader(logger)
	}
	if cfg.Battery == nil {
		cfg.Battery = probe.NewBatteryReader(logger)
	}

	s := &SystemSampler{
		pub:     newBroadcaster(SystemState{}),
		logger:  logger,
		reader:  cfg.Reader,
		battery: cfg.Battery,
		store:   cfg.Cache,
		now:     time.Now,
	}
	s.run = &runner{
		interval:  cfg.Interval,
		newTicker: defaultTicker,
	}

	if cfg.Fixed != nil {
		fixed := *cfg.Fixed
		s.run.static = true
		s.run.seed = func() {
			fixed.LastUpdated = s.now()
			s.pub.publish(fixed)
		}
	} else {
		// The first read runs at Start; it seeds the CPU delta baseline,
		// so CPUPercent reads 0 until the second tick.
		s.run.seed = s.tick
		s.run.tick = s.tick
		s.run.cleanup = s.loopExit
	}

	s.loadWarmStart()
	return s
}

// Start registers an observer; the first one reads the host immediately and
// launches the tick loop.
func (s *SystemSampler) Start() { s.run.start() }

// Stop releases an observer; the last one cancels the loop. Extra Stops are
// no-ops.
func (s *SystemSampler) Stop() { s.run.stop() }

// State returns the current published snapshot.
func (s *SystemSampler) State() SystemState { return s.pub.snapshot() }

// Subscribe returns a channel that emits the published state after each tick
// that changed something, plus a cancel func.
func (s *SystemSampler) Subscribe() (<-chan SystemState, func()) { return s.pub.subscribe() }

// Stats returns loop diagnostics.
func (s *SystemSampler) Stats() Stats { return s.run.stats() }

// CPUHistory returns a copy of the recent CPU samples, oldest first.
func (s *SystemSampler) CPUHistory() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.history))
	copy(out, s.history)
	return out
}

func (s *SystemSampler) tick() {
	now := s.now()
	snap := s.reader.System()

	s.mu.Lock()
	s.history = append(s.history, snap.CPUPercent)
	if len(s.history) > maxCPUHistory {
		s.history = s.history[len(s.history)-maxCPUHistory:]
	}
	s.mu.Unlock()

	st := s.pub.snapshot()
	changed := anyChanged(
		setIfChanged(&st.CPUPercent, round1(snap.CPUPercent)),
		setIfChanged(&st.MemPercent, round1(snap.MemPercent)),
		setIfChanged(&st.DiskPercent, round1(snap.DiskPercent)),
		setIfChanged(&st.Load1, round2(snap.Load1)),
		setIfChanged(&st.Load5, round2(snap.Load5)),
		setIfChanged(&st.Load15, round2(snap.Load15)),
		setIfChanged(&st.Uptime, snap.Uptime.Truncate(time.Minute)),
	)

	if bat, ok := s.battery.Battery(); ok {
		changed = anyChanged(
			setIfChanged(&st.HasBattery, true),
			setIfChanged(&st.BatteryPercent, round1(bat.Percent)),
			setIfChanged(&st.BatteryState, bat.State),
		) || changed
	} else {
		changed = anyChanged(
			setIfChanged(&st.HasBattery, false),
			setIfChanged(&st.BatteryPercent, 0),
			setIfChanged(&st.BatteryState, ""),
		) || changed
	}

	if changed {
		st.LastUpdated = now
		s.pub.publish(st)
		s.persist(now, false)
	}
}

func (s *SystemSampler) loopExit() {
	s.persist(s.now(), true)
}

func (s *SystemSampler) persist(now time.Time, force bool) {
	if s.store == nil {
		return
	}
	if !force && now.Sub(s.lastSaved) < persistEvery {
		return
	}

	payload := systemCachePayload{
		State:      s.pub.snapshot(),
		CPUHistory: s.CPUHistory(),
	}
	if err := cache.SetTyped(s.store, systemCacheKey, &payload); err != nil {
		s.logger.Debug("system snapshot persist failed", "error", err)
		return
	}
	s.lastSaved = now
}

func (s *SystemSampler) loadWarmStart() {
	if s.store == nil {
		return
	}

	payload, fresh, err := cache.GetTyped[systemCachePayload](s.store, systemCacheKey, warmStartTTL)
	if err != nil || payload == nil {
		return
	}
	if !fresh {
		s.logger.Debug("ignoring stale system snapshot", "age", s.store.Age(systemCacheKey))
		return
	}

	s.mu.Lock()
	s.history = append([]float64(nil), payload.CPUHistory...)
	s.mu.Unlock()
	s.pub.publish(payload.State)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
