package sampler

import (
	"io"
	"log/slog"
	"math"
	"time"

	"gitlab.com/tinyland/lab/link-pulse/cache"
	"gitlab.com/tinyland/lab/link-pulse/internal/ewma"
	"gitlab.com/tinyland/lab/link-pulse/probe"
)

// wifiCacheKey is the warm-start snapshot key.
const wifiCacheKey = "wifi"

// Tier thresholds. The SNR set is deliberately tighter than the signal-only
// set, where the reading is more trustworthy.
const (
	snrTier3 = 30.0
	snrTier2 = 20.0
	snrTier1 = 10.0

	signalTier3 = -55.0
	signalTier2 = -67.0
	signalTier1 = -80.0
)

// QualityBands bounds the linear dB-to-percent mappings. The SNR band
// applies when a noise floor is available; the signal band is the fallback
// when only a signal reading exists.
type QualityBands struct {
	// SNRLow reads as 0% and SNRHigh as 100%, in dB above the noise floor.
	SNRLow  float64
	SNRHigh float64

	// SignalLow reads as 0% and SignalHigh as 100%, in dBm.
	SignalLow  float64
	SignalHigh float64
}

// DefaultQualityBands returns the stock mapping: 10-50 dB SNR,
// -95 to -30 dBm signal-only.
func DefaultQualityBands() QualityBands {
	return QualityBands{
		SNRLow:     10,
		SNRHigh:    50,
		SignalLow:  -95,
		SignalHigh: -30,
	}
}

// WifiState is the published link quality snapshot. SignalDBM and NoiseDBM
// carry smoothed, rounded readings and are 0 when no reading exists;
// SignalPercent and QualityTier are -1 when no reading exists.
type WifiState struct {
	// Status classifies the radio.
	Status probe.LinkStatus `json:"status"`

	// NetworkName is the associated network. Empty when disconnected, or
	// when the platform redacts the name while connected.
	NetworkName string `json:"network_name"`

	// SignalDBM and NoiseDBM are the smoothed radio readings.
	SignalDBM int `json:"signal_dbm"`
	NoiseDBM  int `json:"noise_dbm"`

	// BitrateMbps is the negotiated link rate, unsmoothed; 0 when unknown.
	BitrateMbps float64 `json:"bitrate_mbps"`

	// SignalPercent is the derived 0-100 quality score.
	SignalPercent int `json:"signal_percent"`

	// QualityTier is the derived 0-3 bar count.
	QualityTier int `json:"quality_tier"`

	// LastUpdated advances once per tick in which at least one field above
	// changed.
	LastUpdated time.Time `json:"last_updated"`
}

// WifiConfig configures a WifiSampler. Zero fields take defaults.
type WifiConfig struct {
	// Interval is the tick period. Defaults to DefaultWifiInterval.
	Interval time.Duration

	// TimeConstant drives the adaptive signal/noise filters: convergence is
	// governed by elapsed time regardless of tick spacing. Defaults to
	// DefaultWifiTimeConstant.
	TimeConstant time.Duration

	// Bands overrides the quality mapping. The zero value takes
	// DefaultQualityBands.
	Bands QualityBands

	// Reader supplies link snapshots. Defaults to a live
	// probe.NewWirelessReader with auto-detected interface.
	Reader probe.LinkReader

	// Cache, when set, persists the published state across runs and loads
	// a recent snapshot at construction.
	Cache *cache.Store

	// Fixed, when non-nil, bypasses live sampling: the first Start
	// publishes this state once and no loop runs.
	Fixed *WifiState

	// Logger receives debug telemetry. Nil means a no-op logger.
	Logger *slog.Logger
}

// WifiSampler publishes smoothed Wi-Fi link quality. Start and Stop are
// ref-counted and safe from any goroutine.
type WifiSampler struct {
	run    *runner
	pub    *broadcaster[WifiState]
	logger *slog.Logger

	reader probe.LinkReader
	bands  QualityBands

	store     *cache.Store
	lastSaved time.Time

	signal *ewma.AdaptiveFilter
	noise  *ewma.AdaptiveFilter

	// Overridable clock for tests.
	now func() time.Time
}

// NewWifiSampler creates a Wi-Fi link quality sampler.
func NewWifiSampler(cfg WifiConfig) *WifiSampler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultWifiInterval
	}
	if cfg.TimeConstant <= 0 {
		cfg.TimeConstant = DefaultWifiTimeConstant
	}
	if cfg.Bands == (QualityBands{}) {
		cfg.Bands = DefaultQualityBands()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Reader == nil {
		cfg.Reader = probe.NewWirelessReader("", logger)
	}

	s := &WifiSampler{
		pub:    newBroadcaster(WifiState{SignalPercent: -1, QualityTier: -1}),
		logger: logger,
		reader: cfg.Reader,
		bands:  cfg.Bands,
		store:  cfg.Cache,
		signal: ewma.NewAdaptiveFilter(cfg.TimeConstant),
		noise:  ewma.NewAdaptiveFilter(cfg.TimeConstant),
		now:    time.Now,
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
		// The first classification runs at Start so consumers see a status
		// before the first interval elapses.
		s.run.seed = s.tick
		s.run.tick = s.tick
		s.run.cleanup = s.loopExit
	}

	s.loadWarmStart()
	return s
}

// Start registers an observer; the first one classifies the link
// immediately and launches the tick loop.
func (s *WifiSampler) Start() { s.run.start() }

// Stop releases an observer; the last one cancels the loop. Extra Stops
// are no-ops.
func (s *WifiSampler) Stop() { s.run.stop() }

// State returns the current published snapshot.
func (s *WifiSampler) State() WifiState { return s.pub.snapshot() }

// Subscribe returns a channel that emits the published state after each
// tick that changed something, plus a cancel func.
func (s *WifiSampler) Subscribe() (<-chan WifiState, func()) { return s.pub.subscribe() }

// Stats returns loop diagnostics.
func (s *WifiSampler) Stats() Stats { return s.run.stats() }

// tick classifies the radio and publishes whatever changed. Smoothed values
// never bleed across connections: any tick outside the connected state
// resets both filters, so the next association re-seeds them.
func (s *WifiSampler) tick() {
	now := s.now()
	snap := s.reader.Link()
	st := s.pub.snapshot()
	changed := false

	if snap.Status != probe.LinkConnected {
		s.signal.Reset()
		s.noise.Reset()
		changed = anyChanged(
			setIfChanged(&st.Status, snap.Status),
			setIfChanged(&st.NetworkName, ""),
			setIfChanged(&st.SignalDBM, 0),
			setIfChanged(&st.NoiseDBM, 0),
			setIfChanged(&st.BitrateMbps, 0),
			setIfChanged(&st.SignalPercent, -1),
			setIfChanged(&st.QualityTier, -1),
		) || changed
	} else {
		changed = anyChanged(
			setIfChanged(&st.Status, probe.LinkConnected),
			setIfChanged(&st.NetworkName, snap.SSID),
		) || changed

		var sig, noi float64
		haveSig := snap.Signal != nil
		haveNoi := snap.Noise != nil
		if haveSig {
			sig = s.signal.UpdateAt(float64(*snap.Signal), now)
		}
		if haveNoi {
			noi = s.noise.UpdateAt(float64(*snap.Noise), now)
		}

		if haveSig {
			pct, tier := s.bands.quality(sig, noi, haveNoi)
			changed = anyChanged(
				setIfChanged(&st.SignalDBM, int(math.Round(sig))),
				setIfChanged(&st.SignalPercent, pct),
				setIfChanged(&st.QualityTier, tier),
			) || changed
		} else {
			changed = anyChanged(
				setIfChanged(&st.SignalDBM, 0),
				setIfChanged(&st.SignalPercent, -1),
				setIfChanged(&st.QualityTier, -1),
			) || changed
		}

		if haveNoi {
			changed = setIfChanged(&st.NoiseDBM, int(math.Round(noi))) || changed
		} else {
			changed = setIfChanged(&st.NoiseDBM, 0) || changed
		}

		if snap.Bitrate != nil {
			changed = setIfChanged(&st.BitrateMbps, *snap.Bitrate) || changed
		} else {
			changed = setIfChanged(&st.BitrateMbps, 0) || changed
		}
	}

	if changed {
		st.LastUpdated = now
		s.pub.publish(st)
		s.persist(now, false)
	}
}

// loopExit clears the filters so a later Start re-seeds, and writes the
// final snapshot.
func (s *WifiSampler) loopExit() {
	s.signal.Reset()
	s.noise.Reset()
	s.persist(s.now(), true)
}

func (s *WifiSampler) persist(now time.Time, force bool) {
	if s.store == nil {
		return
	}
	if !force && now.Sub(s.lastSaved) < persistEvery {
		return
	}

	st := s.pub.snapshot()
	if err := cache.SetTyped(s.store, wifiCacheKey, &st); err != nil {
		s.logger.Debug("wifi snapshot persist failed", "error", err)
		return
	}
	s.lastSaved = now
}

func (s *WifiSampler) loadWarmStart() {
	if s.store == nil {
		return
	}

	st, fresh, err := cache.GetTyped[WifiState](s.store, wifiCacheKey, warmStartTTL)
	if err != nil || st == nil {
		return
	}
	if !fresh {
		s.logger.Debug("ignoring stale wifi snapshot", "age", s.store.Age(wifiCacheKey))
		return
	}
	s.pub.publish(*st)
}

// quality maps smoothed radio readings onto the 0-100 score and 0-3 tier.
// Both derive from the same smoothed values, so the bar count can never
// disagree with the percentage.
func (b QualityBands) quality(signal, noise float64, haveNoise bool) (percent, tier int) {
	if haveNoise {
		snr := signal - noise
		percent = linearPercent(snr, b.SNRLow, b.SNRHigh)
		switch {
		case snr >= snrTier3:
			tier = 3
		case snr >= snrTier2:
			tier = 2
		case snr >= snrTier1:
			tier = 1
		}
		return percent, tier
	}

	percent = linearPercent(signal, b.SignalLow, b.SignalHigh)
	switch {
	case signal >= signalTier3:
		tier = 3
	case signal >= signalTier2:
		tier = 2
	case signal >= signalTier1:
		tier = 1
	}
	return percent, tier
}

// linearPercent maps v across [low, high] onto 0-100, clamped.
func linearPercent(v, low, high float64) int {
	if v <= low {
		return 0
	}
	if v >= high {
		return 100
	}
	return int(math.Round((v - low) / (high - low) * 100))
}
