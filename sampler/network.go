package sampler

import (
	"io"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/link-pulse/cache"
	"gitlab.com/tinyland/lab/link-pulse/internal/ewma"
	"gitlab.com/tinyland/lab/link-pulse/probe"
)

// networkCacheKey is the warm-start snapshot key.
const networkCacheKey = "network"

// NetworkState is the published throughput snapshot. Rates are smoothed,
// totals mirror the cumulative OS counters.
type NetworkState struct {
	// DownloadRate and UploadRate are smoothed bytes per second across
	// every up, non-loopback interface.
	DownloadRate float64 `json:"download_rate"`
	UploadRate   float64 `json:"upload_rate"`

	// TotalDownloaded and TotalUploaded are the cumulative byte counters
	// as last read.
	TotalDownloaded uint64 `json:"total_downloaded"`
	TotalUploaded   uint64 `json:"total_uploaded"`

	// The Wifi fields cover the pinned Wi-Fi interface alone. HasWifiData
	// is false while that interface is absent or down; the Wifi rates are
	// zero then and the totals hold their last reading.
	WifiDownloadRate    float64 `json:"wifi_download_rate"`
	WifiUploadRate      float64 `json:"wifi_upload_rate"`
	WifiTotalDownloaded uint64  `json:"wifi_total_downloaded"`
	WifiTotalUploaded   uint64  `json:"wifi_total_uploaded"`
	HasWifiData         bool    `json:"has_wifi_data"`

	// LastUpdated advances once per tick in which at least one field above
	// changed.
	LastUpdated time.Time `json:"last_updated"`
}

// NetworkConfig configures a NetworkSampler. Zero fields take defaults.
type NetworkConfig struct {
	// Interval is the tick period. Defaults to DefaultNetworkInterval.
	Interval time.Duration

	// Alpha is the EMA weight for the rate filters, clamped to [0, 1].
	// Defaults to DefaultNetworkAlpha.
	Alpha float64

	// GapFloor and GapFactor shape the sleep/wake threshold,
	// max(GapFloor, GapFactor*Interval). Zero means the defaults.
	GapFloor  time.Duration
	GapFactor int

	// Reader supplies the aggregate counters. Defaults to a live
	// probe.NewNetCounterReader.
	Reader probe.CounterReader

	// WifiReader supplies counters pinned to the Wi-Fi interface. Nil
	// leaves the Wifi fields at their zero values.
	WifiReader probe.CounterReader

	// Cache, when set, persists the published state across runs and loads
	// a recent snapshot at construction.
	Cache *cache.Store

	// Fixed, when non-nil, bypasses live sampling: the first Start
	// publishes this state once and no loop runs. For screenshots and
	// deterministic demos.
	Fixed *NetworkState

	// Logger receives debug telemetry. Nil means a no-op logger.
	Logger *slog.Logger
}

// NetworkSampler publishes smoothed aggregate and Wi-Fi-only throughput.
// Start and Stop are ref-counted and safe from any goroutine.
type NetworkSampler struct {
	run    *runner
	pub    *broadcaster[NetworkState]
	logger *slog.Logger

	reader     probe.CounterReader
	wifiReader probe.CounterReader
	gapAfter   time.Duration

	store     *cache.Store
	lastSaved time.Time

	all  *counterTrack
	wifi *counterTrack

	// Overridable clock for tests.
	now func() time.Time
}

// NewNetworkSampler creates a network throughput sampler.
func NewNetworkSampler(cfg NetworkConfig) *NetworkSampler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultNetworkInterval
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = DefaultNetworkAlpha
	}
	if cfg.GapFloor <= 0 {
		cfg.GapFloor = defaultGapFloor
	}
	if cfg.GapFactor <= 0 {
		cfg.GapFactor = defaultGapFactor
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Reader == nil {
		cfg.Reader = probe.NewNetCounterReader(logger)
	}

	s := &NetworkSampler{
		pub:        newBroadcaster(NetworkState{}),
		logger:     logger,
		reader:     cfg.Reader,
		wifiReader: cfg.WifiReader,
		gapAfter:   maxDuration(cfg.GapFloor, time.Duration(cfg.GapFactor)*cfg.Interval),
		store:      cfg.Cache,
		all:        newCounterTrack(cfg.Alpha),
		wifi:       newCounterTrack(cfg.Alpha),
		now:        time.Now,
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
		s.run.seed = s.seed
		s.run.tick = s.tick
		s.run.cleanup = s.loopExit
	}

	s.loadWarmStart()
	return s
}

// Start registers an observer; the first one seeds the counter baseline and
// launches the tick loop.
func (s *NetworkSampler) Start() { s.run.start() }

// Stop releases an observer; the last one cancels the loop. Extra Stops are
// no-ops.
func (s *NetworkSampler) Stop() { s.run.stop() }

// State returns the current published snapshot.
func (s *NetworkSampler) State() NetworkState { return s.pub.snapshot() }

// Subscribe returns a channel that emits the published state after each
// tick that changed something, plus a cancel func. Slow receivers see only
// the newest state.
func (s *NetworkSampler) Subscribe() (<-chan NetworkState, func()) { return s.pub.subscribe() }

// Stats returns loop diagnostics.
func (s *NetworkSampler) Stats() Stats { return s.run.stats() }

// seed establishes the counter baselines and publishes the starting totals
// without deriving any rate.
func (s *NetworkSampler) seed() {
	now := s.now()
	st := s.pub.snapshot()
	changed := false

	if snap, ok := s.reader.Counters(); ok {
		s.all.advance(snap, now, s.gapAfter)
		changed = anyChanged(
			setIfChanged(&st.TotalDownloaded, snap.ReceivedBytes),
			setIfChanged(&st.TotalUploaded, snap.SentBytes),
		) || changed
	}

	if s.wifiReader != nil {
		if snap, ok := s.wifiReader.Counters(); ok {
			s.wifi.advance(snap, now, s.gapAfter)
			changed = anyChanged(
				setIfChanged(&st.WifiTotalDownloaded, snap.ReceivedBytes),
				setIfChanged(&st.WifiTotalUploaded, snap.SentBytes),
				setIfChanged(&st.HasWifiData, true),
			) || changed
		} else {
			changed = setIfChanged(&st.HasWifiData, false) || changed
		}
	}

	if changed {
		st.LastUpdated = now
		s.pub.publish(st)
	}
}

// tick reads both counter sources, folds them through the delta and EMA
// math, and commits whatever actually changed.
func (s *NetworkSampler) tick() {
	now := s.now()
	st := s.pub.snapshot()
	changed := false
	gapped := false

	if snap, ok := s.reader.Counters(); ok {
		down, up, gap := s.all.advance(snap, now, s.gapAfter)
		if gap {
			gapped = true
			changed = anyChanged(
				setIfChanged(&st.DownloadRate, 0),
				setIfChanged(&st.UploadRate, 0),
			) || changed
		} else {
			changed = anyChanged(
				setIfChanged(&st.DownloadRate, down),
				setIfChanged(&st.UploadRate, up),
				setIfChanged(&st.TotalDownloaded, snap.ReceivedBytes),
				setIfChanged(&st.TotalUploaded, snap.SentBytes),
			) || changed
		}
	}

	if s.wifiReader != nil {
		snap, ok := s.wifiReader.Counters()
		if !ok {
			// Interface gone: distinct from a genuine zero-rate reading.
			// Rates drop to zero and the next appearance re-seeds.
			s.wifi.reset()
			changed = anyChanged(
				setIfChanged(&st.WifiDownloadRate, 0),
				setIfChanged(&st.WifiUploadRate, 0),
				setIfChanged(&st.HasWifiData, false),
			) || changed
		} else {
			down, up, gap := s.wifi.advance(snap, now, s.gapAfter)
			if gap {
				gapped = true
				changed = anyChanged(
					setIfChanged(&st.WifiDownloadRate, 0),
					setIfChanged(&st.WifiUploadRate, 0),
				) || changed
			} else {
				changed = anyChanged(
					setIfChanged(&st.WifiDownloadRate, down),
					setIfChanged(&st.WifiUploadRate, up),
					setIfChanged(&st.WifiTotalDownloaded, snap.ReceivedBytes),
					setIfChanged(&st.WifiTotalUploaded, snap.SentBytes),
					setIfChanged(&st.HasWifiData, true),
				) || changed
			}
		}
	}

	if gapped {
		s.run.noteGap()
		s.logger.Debug("throughput tick gap, re-baselined", "threshold", s.gapAfter)
	}

	if changed {
		st.LastUpdated = now
		s.pub.publish(st)
		s.persist(now, false)
	}
}

// loopExit clears the sampling state so a later Start re-seeds from
// scratch, and writes the final snapshot.
func (s *NetworkSampler) loopExit() {
	s.all.reset()
	s.wifi.reset()
	s.persist(s.now(), true)
}

func (s *NetworkSampler) persist(now time.Time, force bool) {
	if s.store == nil {
		return
	}
	if !force && now.Sub(s.lastSaved) < persistEvery {
		return
	}

	st := s.pub.snapshot()
	if err := cache.SetTyped(s.store, networkCacheKey, &st); err != nil {
		s.logger.Debug("network snapshot persist failed", "error", err)
		return
	}
	s.lastSaved = now
}

func (s *NetworkSampler) loadWarmStart() {
	if s.store == nil {
		return
	}

	st, fresh, err := cache.GetTyped[NetworkState](s.store, networkCacheKey, warmStartTTL)
	if err != nil || st == nil {
		return
	}
	if !fresh {
		s.logger.Debug("ignoring stale network snapshot", "age", s.store.Age(networkCacheKey))
		return
	}
	s.pub.publish(*st)
}

// counterTrack carries one counter source's delta state: the last snapshot,
// when it was taken, and the two rate filters.
type counterTrack struct {
	baseline  probe.CounterSnapshot
	sampledAt time.Time
	seeded    bool
	down      *ewma.Filter
	up        *ewma.Filter
}

func newCounterTrack(alpha float64) *counterTrack {
	return &counterTrack{
		down: ewma.NewFilter(alpha),
		up:   ewma.NewFilter(alpha),
	}
}

// advance folds one reading into the track. An unseeded track records the
// baseline and reports zero rates. A tick past the gap threshold resets the
// filters, re-baselines, and reports gap=true with exactly zero rates; the
// pre-gap and post-gap counters are never averaged into a rate.
func (t *counterTrack) advance(cur probe.CounterSnapshot, now time.Time, gapAfter time.Duration) (down, up float64, gap bool) {
	if !t.seeded {
		t.baseline = cur
		t.sampledAt = now
		t.seeded = true
		return 0, 0, false
	}

	dt := now.Sub(t.sampledAt)
	if dt >= gapAfter {
		t.down.Reset()
		t.up.Reset()
		t.baseline = cur
		t.sampledAt = now
		return 0, 0, true
	}
	if dt < minTickDelta {
		dt = minTickDelta
	}

	down = t.down.Update(clampedRate(t.baseline.ReceivedBytes, cur.ReceivedBytes, dt))
	up = t.up.Update(clampedRate(t.baseline.SentBytes, cur.SentBytes, dt))
	t.baseline = cur
	t.sampledAt = now
	return down, up, false
}

// reset returns the track to its unseeded state.
func (t *counterTrack) reset() {
	t.baseline = probe.CounterSnapshot{}
	t.sampledAt = time.Time{}
	t.seeded = false
	t.down.Reset()
	t.up.Reset()
}

// clampedRate converts a counter delta over dt into bytes per second. A
// counter that moved backwards (reset, re-enumeration) yields zero, never a
// negative or wrapped rate.
func clampedRate(prev, cur uint64, dt time.Duration) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) / dt.Seconds()
}
