package main

import (
	"fmt"
	"log/slog"
	"os"

	"gitlab.com/tinyland/lab/link-pulse/cache"
	"gitlab.com/tinyland/lab/link-pulse/config"
	"gitlab.com/tinyland/lab/link-pulse/internal/format"
	"gitlab.com/tinyland/lab/link-pulse/probe"
)

// runDoctorCommand walks the sampling environment and reports what each
// probe can actually see, with actionable feedback for the parts it cannot.
func runDoctorCommand(cfg *config.Config, logger *slog.Logger) {
	fmt.Println("🩺 link-pulse doctor")
	fmt.Println("============================================================")
	fmt.Println()

	var passed, failed int

	// Network counters
	fmt.Println("📶 Network counters")
	fmt.Println("------------------------------------------------------------")
	counters := probe.NewNetCounterReader(logger)
	if snap, ok := counters.Counters(); ok && (snap.ReceivedBytes > 0 || snap.SentBytes > 0) {
		fmt.Printf("   Aggregate: ✅ readable (%s received, %s sent)\n",
			format.ByteCount(snap.ReceivedBytes), format.ByteCount(snap.SentBytes))
		passed++
	} else if ok {
		fmt.Println("   Aggregate: ⚠️  readable but all zero")
		fmt.Println()
		fmt.Println("💡 Note: every interface may be down, or counters reset at boot")
		passed++
	} else {
		fmt.Println("   Aggregate: ❌ unreadable")
		failed++
	}
	fmt.Println()

	// Wireless link
	fmt.Println("📡 Wireless link")
	fmt.Println("------------------------------------------------------------")
	iface := cfg.Wifi.Interface
	if iface == "auto" {
		iface = ""
	}
	wireless := probe.NewWirelessReader(iface, logger)
	name := wireless.InterfaceName()
	if name == "" {
		fmt.Println("   Interface: ❌ no wireless interface found")
		fmt.Println()
		fmt.Println("💡 Note: the Wi-Fi tab and segment readout will show \"unavailable\"")
		fmt.Println("   Wired-only machines work fine without one.")
		failed++
	} else {
		fmt.Printf("   Interface: ✅ %s\n", name)
		passed++

		link := wireless.Link()
		fmt.Printf("   Status:    %s\n", link.Status)
		switch link.Status {
		case probe.LinkRadioOff:
			fmt.Println()
			fmt.Println("💡 Solution: run 'rfkill unblock wifi' or check the hardware switch")
		case probe.LinkConnected:
			if link.SSID != "" {
				fmt.Printf("   Network:   %s\n", link.SSID)
			} else {
				fmt.Println("   Network:   (name withheld)")
			}
			if link.Signal != nil {
				signal := fmt.Sprintf("%d dBm", *link.Signal)
				if link.Noise != nil {
					signal += fmt.Sprintf(" (noise %d dBm)", *link.Noise)
				}
				fmt.Printf("   Signal:    %s\n", signal)
			} else {
				fmt.Println("   Signal:    ⚠️  no reading (is /proc/net/wireless populated?)")
			}
			if link.Bitrate != nil && *link.Bitrate > 0 {
				fmt.Printf("   Bitrate:   %.0f Mb/s\n", *link.Bitrate)
			}
		}
	}
	fmt.Println()

	// Host gauges
	fmt.Println("🖥  Host gauges")
	fmt.Println("------------------------------------------------------------")
	host := probe.NewHostReader(logger)
	sys := host.System()
	if sys.MemPercent > 0 || sys.Load1 > 0 || sys.Uptime > 0 {
		fmt.Printf("   Memory:    ✅ %.0f%% used\n", sys.MemPercent)
		fmt.Printf("   Disk:      %.0f%% used\n", sys.DiskPercent)
		fmt.Printf("   Load:      %.2f %.2f %.2f\n", sys.Load1, sys.Load5, sys.Load15)
		if sys.Uptime > 0 {
			fmt.Printf("   Uptime:    %s\n", format.Duration(sys.Uptime))
		}
		passed++
	} else {
		fmt.Println("   Gauges:    ❌ nothing readable")
		failed++
	}
	if batt, ok := probe.NewBatteryReader(logger).Battery(); ok {
		fmt.Printf("   Battery:   ✅ %.0f%% %s\n", batt.Percent, batt.State)
	} else {
		fmt.Println("   Battery:   none detected (desktop?)")
	}
	fmt.Println()

	// Configuration and cache
	fmt.Println("⚙️  Configuration")
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("   Config:    %s\n", config.DefaultPath())
	if cfg.Cache.Enabled {
		if _, err := cache.NewStore(cfg.Cache.Dir, logger); err != nil {
			fmt.Printf("   Cache:     ❌ %s unwritable: %v\n", cfg.Cache.Dir, err)
			failed++
		} else {
			fmt.Printf("   Cache:     ✅ %s\n", cfg.Cache.Dir)
			passed++
		}
	} else {
		fmt.Println("   Cache:     disabled")
		fmt.Println()
		fmt.Println("💡 Note: one-shot modes will resample on every run")
	}
	fmt.Println()

	// Summary
	fmt.Println("============================================================")
	if failed == 0 {
		fmt.Printf("✨ All %d checks passed. link-pulse should work correctly.\n", passed)
	} else {
		fmt.Printf("Summary: %d passed, %d failed\n", passed, failed)
		fmt.Println()
		fmt.Fprintln(os.Stderr, "Some probes are degraded; the affected readouts show \"no data\".")
	}
}
