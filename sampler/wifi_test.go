package sampler

import (
	"testing"
	"time"

	"gitlab.com/tinyland/lab/link-pulse/probe"
)

func intPtr(v int) *int         { return &v }
func f64Ptr(v float64) *float64 { return &v }

// connected builds a fully populated connected link snapshot.
func connected(ssid string, signal, noise int, bitrate float64) probe.LinkSnapshot {
	reading := probe.LinkSnapshot{
		Status: probe.LinkConnected,
		SSID:   ssid,
		Signal: intPtr(signal),
		Noise:  intPtr(noise),
	}
	if bitrate > 0 {
		reading.Bitrate = f64Ptr(bitrate)
	}
	return reading
}

func newTestWifiSampler(reader probe.LinkReader) (*WifiSampler, *fakeClock) {
	clock := newFakeClock()
	s := NewWifiSampler(WifiConfig{Reader: reader})
	s.now = clock.Now
	return s, clock
}

/// TestWifiInitialState: before any tick the derived fields read "no data",
// not zero percent.
func TestWifiInitialState(t *testing.T) {
	s, _ := newTestWifiSampler(probe.NewScriptedLinkReader())
	st := s.State()
	if st.SignalPercent != -1 || st.QualityTier != -1 {
		t.Errorf("initial sentinels = %d/%d, want -1/-1", st.SignalPercent, st.QualityTier)
	}
	if st.Status != probe.LinkUnavailable {
		t.Errorf("initial Status = %v, want unavailable", st.Status)
	}
}

// TestWifiSteadySignal runs ten ticks of a constant -55/-90 reading: the
// published percentage stays put and the tier pins at the top.
func TestWifiSteadySignal(t *testing.T) {
	reader := probe.NewScriptedLinkReader(connected("HomeNet", -55, -90, 866.7))
	s, clock := newTestWifiSampler(reader)

	s.tick()
	first := s.State()
	if first.Status != probe.LinkConnected {
		t.Fatalf("Status = %v, want connected", first.Status)
	}
	if first.NetworkName != "HomeNet" {
		t.Errorf("NetworkName = %q, want HomeNet", first.NetworkName)
	}
	if first.SignalDBM != -55 || first.NoiseDBM != -90 {
		t.Errorf("readings = %d/%d dBm, want -55/-90", first.SignalDBM, first.NoiseDBM)
	}
	if first.BitrateMbps != 866.7 {
		t.Errorf("BitrateMbps = %v, want 866.7", first.BitrateMbps)
	}
	// SNR 35 dB across the 10-50 band.
	if first.SignalPercent != 63 {
		t.Errorf("SignalPercent = %d, want 63", first.SignalPercent)
	}
	if first.QualityTier != 3 {
		t.Errorf("QualityTier = %d, want 3", first.QualityTier)
	}

	for i := 0; i < 9; i++ {
		clock.Advance(2 * time.Second)
		s.tick()
		st := s.State()
		if diff := st.SignalPercent - first.SignalPercent; diff < -1 || diff > 1 {
			t.Fatalf("tick %d: SignalPercent drifted to %d from %d", i, st.SignalPercent, first.SignalPercent)
		}
		if st.QualityTier != 3 {
			t.Fatalf("tick %d: QualityTier = %d, want 3 throughout", i, st.QualityTier)
		}
	}
}

// TestWifiDisconnectClearsAndReseeds: a disconnect clears every radio
// field and drops the smoothing history, so the next association starts
// clean instead of blending with the previous network.
func TestWifiDisconnectClearsAndReseeds(t *testing.T) {
	reader := probe.NewScriptedLinkReader(
		connected("HomeNet", -55, -90, 300),
		connected("HomeNet", -55, -90, 300),
		probe.LinkSnapshot{Status: probe.LinkDisconnected},
		connected("CafeWifi", -75, -90, 144.4),
	)
	s, clock := newTestWifiSampler(reader)

	s.tick()
	clock.Advance(2 * time.Second)
	s.tick()

	clock.Advance(2 * time.Second)
	s.tick()
	st := s.State()
	if st.Status != probe.LinkDisconnected {
		t.Fatalf("Status = %v, want disconnected", st.Status)
	}
	if st.NetworkName != "" {
		t.Errorf("NetworkName = %q, want empty after disconnect", st.NetworkName)
	}
	if st.SignalDBM != 0 || st.NoiseDBM != 0 || st.BitrateMbps != 0 {
		t.Errorf("radio fields = %d/%d/%v, want cleared", st.SignalDBM, st.NoiseDBM, st.BitrateMbps)
	}
	if st.SignalPercent != -1 || st.QualityTier != -1 {
		t.Errorf("derived fields = %d/%d, want -1/-1", st.SignalPercent, st.QualityTier)
	}

	clock.Advance(2 * time.Second)
	s.tick()
	st = s.State()
	if st.NetworkName != "CafeWifi" {
		t.Errorf("NetworkName = %q, want CafeWifi", st.NetworkName)
	}
	if st.SignalDBM != -75 {
		t.Errorf("SignalDBM = %d, want exactly -75 (old smoothing leaked across the disconnect)", st.SignalDBM)
	}
	// SNR 15 dB: low score, single bar.
	if st.SignalPercent != 13 {
		t.Errorf("SignalPercent = %d, want 13", st.SignalPercent)
	}
	if st.QualityTier != 1 {
		t.Errorf("QualityTier = %d, want 1", st.QualityTier)
	}
}

// TestWifiSignalOnlyFallback: without a noise floor the percentage comes
// from the absolute signal band instead of SNR.
func TestWifiSignalOnlyFallback(t *testing.T) {
	reading := probe.LinkSnapshot{
		Status:  probe.LinkConnected,
		SSID:    "HomeNet",
		Signal:  intPtr(-60),
		Bitrate: f64Ptr(400),
	}
	s, _ := newTestWifiSampler(probe.NewScriptedLinkReader(reading))

	s.tick()
	st := s.State()
	if st.NoiseDBM != 0 {
		t.Errorf("NoiseDBM = %d, want 0 without a reading", st.NoiseDBM)
	}
	if st.SignalPercent != 54 {
		t.Errorf("SignalPercent = %d, want 54 from the signal-only band", st.SignalPercent)
	}
	if st.QualityTier != 2 {
		t.Errorf("QualityTier = %d, want 2 for -60 dBm", st.QualityTier)
	}
}

// TestWifiRedactedName: a present signal with an empty SSID is still a
// connected link, not a disconnect.
func TestWifiRedactedName(t *testing.T) {
	reading := probe.LinkSnapshot{
		Status: probe.LinkConnected,
		Signal: intPtr(-50),
		Noise:  intPtr(-92),
	}
	s, _ := newTestWifiSampler(probe.NewScriptedLinkReader(reading))

	s.tick()
	st := s.State()
	if st.Status != probe.LinkConnected {
		t.Errorf("Status = %v, want connected", st.Status)
	}
	if st.NetworkName != "" {
		t.Errorf("NetworkName = %q, want empty", st.NetworkName)
	}
	if st.SignalPercent <= 0 {
		t.Errorf("SignalPercent = %d, want a positive score", st.SignalPercent)
	}
}

// TestWifiMetricDropout: readings vanishing for one tick clear the
// published numbers but keep the filter history, so the next reading
// resumes smoothing instead of re-seeding.
func TestWifiMetricDropout(t *testing.T) {
	reader := probe.NewScriptedLinkReader(
		connected("HomeNet", -50, -90, 300),
		probe.LinkSnapshot{Status: probe.LinkConnected, SSID: "HomeNet"}, // driver returned no radio numbers
		connected("HomeNet", -60, -90, 300),
	)
	s, clock := newTestWifiSampler(reader)

	s.tick()
	clock.Advance(2 * time.Second)
	s.tick()
	st := s.State()
	if st.SignalDBM != 0 || st.SignalPercent != -1 || st.QualityTier != -1 {
		t.Errorf("dropout tick did not clear the derived fields: %+v", st)
	}
	if st.NetworkName != "HomeNet" {
		t.Errorf("NetworkName = %q, want unchanged HomeNet", st.NetworkName)
	}
	if st.BitrateMbps != 0 {
		t.Errorf("BitrateMbps = %v, want 0 during the dropout", st.BitrateMbps)
	}

	clock.Advance(2 * time.Second)
	s.tick()
	got := s.State().SignalDBM
	if got <= -60 || got >= -50 {
		t.Errorf("SignalDBM = %d, want between -60 and -50 (smoothing must survive a dropout)", got)
	}
}

// TestWifiNonConnectedStatuses maps each non-connected classification
// through to the published state with cleared metrics.
func TestWifiNonConnectedStatuses(t *testing.T) {
	cases := []struct {
		name   string
		status probe.LinkStatus
	}{
		{"unavailable", probe.LinkUnavailable},
		{"radio off", probe.LinkRadioOff},
		{"disconnected", probe.LinkDisconnected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reader := probe.NewScriptedLinkReader(
				connected("HomeNet", -55, -90, 300),
				probe.LinkSnapshot{Status: tc.status},
			)
			s, clock := newTestWifiSampler(reader)
			s.tick()
			clock.Advance(2 * time.Second)
			s.tick()

			st := s.State()
			if st.Status != tc.status {
				t.Errorf("Status = %v, want %v", st.Status, tc.status)
			}
			if st.SignalDBM != 0 || st.SignalPercent != -1 || st.QualityTier != -1 {
				t.Errorf("metrics not cleared: %+v", st)
			}
		})
	}
}

// TestQualityBands pins the band edges and tier thresholds for both the
// SNR and the signal-only mappings.
func TestQualityBands(t *testing.T) {
	cases := []struct {
		name      string
		signal    float64
		noise     float64
		haveNoise bool
		percent   int
		tier      int
	}{
		{"snr top of band", -40, -90, true, 100, 3},
		{"snr mid band", -55, -90, true, 63, 3},
		{"snr tier2", -65, -90, true, 38, 2},
		{"snr tier1", -75, -90, true, 13, 1},
		{"snr floor", -80, -90, true, 0, 1},
		{"snr below floor", -85, -90, true, 0, 0},
		{"signal strong", -30, 0, false, 100, 3},
		{"signal tier2 edge", -67, 0, false, 43, 2},
		{"signal tier1", -75, 0, false, 31, 1},
		{"signal weak", -90, 0, false, 8, 0},
		{"signal below band", -100, 0, false, 0, 0},
	}
	bands := DefaultQualityBands()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pct, tier := bands.quality(tc.signal, tc.noise, tc.haveNoise)
			if pct != tc.percent || tier != tc.tier {
				t.Errorf("quality(%v, %v, %v) = %d%%/tier %d, want %d%%/tier %d",
					tc.signal, tc.noise, tc.haveNoise, pct, tier, tc.percent, tc.tier)
			}
		})
	}
}

// TestWifiCustomBands: a band override reshapes the percent scale while
// the tier taxonomy stays put.
func TestWifiCustomBands(t *testing.T) {
	reader := probe.NewScriptedLinkReader(connected("HomeNet", -55, -90, 0))
	s := NewWifiSampler(WifiConfig{
		Reader: reader,
		Bands:  QualityBands{SNRLow: 0, SNRHigh: 40, SignalLow: -90, SignalHigh: -40},
	})
	s.tick()

	st := s.State()
	if st.SignalPercent != 88 {
		t.Errorf("SignalPercent = %d, want 88", st.SignalPercent)
	}
	if st.QualityTier != 3 {
		t.Errorf("QualityTier = %d, want 3", st.QualityTier)
	}
}

// TestWifiFixedMode publishes the canned state without sampling.
func TestWifiFixedMode(t *testing.T) {
	fixed := &WifiState{
		Status:        probe.LinkConnected,
		NetworkName:   "DemoNet",
		SignalDBM:     -48,
		NoiseDBM:      -93,
		SignalPercent: 88,
		QualityTier:   3,
		BitrateMbps:   866.7,
	}
	s := NewWifiSampler(WifiConfig{Reader: probe.NewScriptedLinkReader(), Fixed: fixed})
	clock := newFakeClock()
	s.now = clock.Now

	s.Start()
	defer s.Stop()

	st := s.State()
	if st.NetworkName != "DemoNet" || st.SignalPercent != 88 {
		t.Errorf("fixed state not published: %+v", st)
	}
	if got := s.Stats().Ticks; got != 0 {
		t.Errorf("Ticks = %d, want 0 in fixed mode", got)
	}
}
