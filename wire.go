package main

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/link-pulse/cache"
	"gitlab.com/tinyland/lab/link-pulse/config"
	"gitlab.com/tinyland/lab/link-pulse/display/tui"
	"gitlab.com/tinyland/lab/link-pulse/probe"
	"gitlab.com/tinyland/lab/link-pulse/sampler"
)

// Cache keys the samplers persist under. Must match what the samplers
// write so one-shot modes find their snapshots.
const (
	networkSnapshotKey = "network"
	wifiSnapshotKey    = "wifi"
	systemSnapshotKey  = "system"
)

// snapshotTTL bounds how old a cached snapshot may be and still serve a
// one-shot render without resampling.
const snapshotTTL = 5 * time.Minute

// Quick-sample parameters for cold-cache one-shot renders: the first tick
// seeds the counter baseline, the second yields the first real rates.
const (
	quickSampleInterval = 500 * time.Millisecond
	quickSampleBudget   = 3 * time.Second
)

// statsRefreshInterval paces the loop-counter updates in the watch view.
const statsRefreshInterval = time.Second

// buildSamplers creates the three samplers from the loaded configuration.
// In fixed mode the samplers publish deterministic demo states and never
// touch the host or the cache.
func buildSamplers(cfg *config.Config, store *cache.Store, logger *slog.Logger, fixed bool) (*sampler.NetworkSampler, *sampler.WifiSampler, *sampler.SystemSampler) {
	if fixed {
		net := sampler.NewNetworkSampler(sampler.NetworkConfig{Fixed: demoNetworkState(), Logger: logger})
		wifi := sampler.NewWifiSampler(sampler.WifiConfig{Fixed: demoWifiState(), Logger: logger})
		sys := sampler.NewSystemSampler(sampler.SystemConfig{Fixed: demoSystemState(), Logger: logger})
		return net, wifi, sys
	}

	iface := cfg.Wifi.Interface
	if iface == "auto" {
		iface = ""
	}
	wireless := probe.NewWirelessReader(iface, logger)

	// Pin a second counter reader to the wireless interface so the
	// throughput snapshot can carry a Wi-Fi-only track.
	var wifiCounters probe.CounterReader
	if name := wireless.InterfaceName(); name != "" {
		wifiCounters = probe.NewInterfaceCounterReader(name, logger)
	}

	net := sampler.NewNetworkSampler(sampler.NetworkConfig{
		Interval:   parseDuration(cfg.Sampling.NetworkInterval),
		Alpha:      cfg.Sampling.NetworkAlpha,
		GapFloor:   parseDuration(cfg.Sampling.GapFloor),
		GapFactor:  cfg.Sampling.GapFactor,
		WifiReader: wifiCounters,
		Cache:      store,
		Logger:     logger,
	})

	wifi := sampler.NewWifiSampler(sampler.WifiConfig{
		Interval:     parseDuration(cfg.Sampling.WifiInterval),
		TimeConstant: parseDuration(cfg.Sampling.WifiTimeConstant),
		Bands: sampler.QualityBands{
			SNRLow:     cfg.Wifi.Bands.SNRLow,
			SNRHigh:    cfg.Wifi.Bands.SNRHigh,
			SignalLow:  cfg.Wifi.Bands.SignalLow,
			SignalHigh: cfg.Wifi.Bands.SignalHigh,
		},
		Reader: wireless,
		Cache:  store,
		Logger: logger,
	})

	sys := sampler.NewSystemSampler(sampler.SystemConfig{
		Interval: parseDuration(cfg.Sampling.SystemInterval),
		Cache:    store,
		Logger:   logger,
	})

	return net, wifi, sys
}

// cachedStates loads whatever snapshots the cache holds. Missing or stale
// entries come back nil; callers render around the gaps.
func cachedStates(store *cache.Store) (*sampler.NetworkState, *sampler.WifiState, *sampler.SystemState) {
	if store == nil {
		return nil, nil, nil
	}

	network, fresh, err := cache.GetTyped[sampler.NetworkState](store, networkSnapshotKey, snapshotTTL)
	if err != nil || !fresh {
		network = nil
	}
	wifi, fresh, err := cache.GetTyped[sampler.WifiState](store, wifiSnapshotKey, snapshotTTL)
	if err != nil || !fresh {
		wifi = nil
	}

	// The system snapshot persists with its CPU history ring wrapped
	// around it.
	var system *sampler.SystemState
	payload, fresh, err := cache.GetTyped[systemSnapshot](store, systemSnapshotKey, snapshotTTL)
	if err == nil && fresh && payload != nil {
		system = &payload.State
	}

	return network, wifi, system
}

// systemSnapshot mirrors the system sampler's persisted form.
type systemSnapshot struct {
	State      sampler.SystemState `json:"state"`
	CPUHistory []float64           `json:"cpu_history"`
}

// snapshotStates resolves the three states for a one-shot render: fresh
// cached snapshots when available, otherwise a brief live sample.
func snapshotStates(ctx context.Context, cfg *config.Config, store *cache.Store, logger *slog.Logger, fixed bool) (*sampler.NetworkState, *sampler.WifiState, *sampler.SystemState) {
	if !fixed {
		network, wifi, system := cachedStates(store)
		if network != nil && wifi != nil && system != nil {
			return network, wifi, system
		}
	}
	return sampleBriefly(ctx, cfg, store, logger, fixed)
}

// sampleBriefly spins the samplers up just long enough for the throughput
// track to produce its first real rates, then returns whatever published.
func sampleBriefly(ctx context.Context, cfg *config.Config, store *cache.Store, logger *slog.Logger, fixed bool) (*sampler.NetworkState, *sampler.WifiState, *sampler.SystemState) {
	quick := *cfg
	if parseDuration(quick.Sampling.NetworkInterval) > quickSampleInterval {
		quick.Sampling.NetworkInterval = quickSampleInterval.String()
	}

	net, wifi, sys := buildSamplers(&quick, store, logger, fixed)

	// Subscribe before Start so the seed publish lands in the channel.
	ch, unsubscribe := net.Subscribe()
	defer unsubscribe()

	net.Start()
	wifi.Start()
	sys.Start()
	defer net.Stop()
	defer wifi.Stop()
	defer sys.Stop()

	budget := time.NewTimer(quickSampleBudget)
	defer budget.Stop()

	// The first publish carries only totals; the second has rates. Fixed
	// states publish exactly once. Either the budget or a signal cuts the
	// wait short and we render what we have.
	want := 2
	if fixed {
		want = 1
	}
	for received := 0; received < want; {
		select {
		case <-ch:
			received++
		case <-budget.C:
			received = want
		case <-ctx.Done():
			received = want
		}
	}

	network := net.State()
	link := wifi.State()
	system := sys.State()
	return &network, &link, &system
}

// runWatchView launches the Bubbletea watch view and bridges sampler
// subscriptions into its message loop.
func runWatchView(ctx context.Context, cfg *config.Config, store *cache.Store, logger *slog.Logger, fixed bool) error {
	tui.ApplyTheme(tui.GetThemePreset(cfg.Display.Theme))

	net, wifi, sys := buildSamplers(cfg, store, logger, fixed)

	// Subscribe before Start so warm-start and seed publishes reach the
	// view instead of racing it.
	netCh, netCancel := net.Subscribe()
	wifiCh, wifiCancel := wifi.Subscribe()
	sysCh, sysCancel := sys.Subscribe()
	defer netCancel()
	defer wifiCancel()
	defer sysCancel()

	net.Start()
	wifi.Start()
	sys.Start()
	defer net.Stop()
	defer wifi.Stop()
	defer sys.Stop()

	p := tea.NewProgram(tui.NewModel(), tea.WithAltScreen())

	// Bridge goroutines: convert published states into Bubbletea messages.
	go func() {
		for st := range netCh {
			p.Send(tui.NetworkMsg{State: st})
		}
	}()
	go func() {
		for st := range wifiCh {
			p.Send(tui.WifiMsg{State: st})
		}
	}()
	go func() {
		for st := range sysCh {
			p.Send(tui.SystemMsg{State: st, CPUHistory: sys.CPUHistory()})
		}
	}()

	// Loop counters refresh on their own cadence; publishes alone would
	// leave the footers frozen during idle traffic.
	statsDone := make(chan struct{})
	go func() {
		t := time.NewTicker(statsRefreshInterval)
		defer t.Stop()
		for {
			select {
			case <-statsDone:
				return
			case <-t.C:
				p.Send(tui.StatsMsg{
					Network: net.Stats(),
					Wifi:    wifi.Stats(),
					System:  sys.Stats(),
				})
			}
		}
	}()
	defer close(statsDone)

	// A terminating signal quits the view the same way 'q' does.
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}

// Demo states for fixed mode: a healthy link with visible traffic, so
// every readout in every view has something to show.
func demoNetworkState() *sampler.NetworkState {
	return &sampler.NetworkState{
		DownloadRate:        1_200_000,
		UploadRate:          340_000,
		TotalDownloaded:     5_000_000_000,
		TotalUploaded:       120_000_000,
		WifiDownloadRate:    1_100_000,
		WifiUploadRate:      310_000,
		WifiTotalDownloaded: 4_800_000_000,
		WifiTotalUploaded:   110_000_000,
		HasWifiData:         true,
	}
}

func demoWifiState() *sampler.WifiState {
	return &sampler.WifiState{
		Status:        probe.LinkConnected,
		NetworkName:   "shop-floor-5g",
		SignalDBM:     -52,
		NoiseDBM:      -88,
		BitrateMbps:   867,
		SignalPercent: 65,
		QualityTier:   3,
	}
}

func demoSystemState() *sampler.SystemState {
	return &sampler.SystemState{
		CPUPercent:     23.4,
		MemPercent:     61.2,
		DiskPercent:    48.7,
		Load1:          0.82,
		Load5:          1.04,
		Load15:         0.97,
		BatteryPercent: 87,
		BatteryState:   "Discharging",
		HasBattery:     true,
		Uptime:         73*time.Hour + 12*time.Minute,
	}
}
