// link-pulse is a live link telemetry sampler for the terminal.
//
// It reads network interface counters and wireless link state on a tick,
// smooths the readings with exponential moving averages, and publishes
// change-coalesced snapshots of throughput, Wi-Fi quality, and host
// health. One-shot modes render from persisted snapshots so the prompt
// never waits on sampling.
//
// Usage:
//
//	link-pulse [flags]
//
// Flags:
//
//	-watch                 Launch the interactive watch view
//	-once                  Print the boxed report card (default)
//	-segment               Print a one-line prompt segment from cached snapshots
//	-json                  Print snapshots as JSON
//	-shell string          Output shell integration script (bash|zsh|fish|nu)
//	-health                Report snapshot freshness
//	-doctor                Diagnose the sampling environment
//	-keys                  Show registered keybindings
//	-reset-cache           Remove cached snapshots
//	-fixed                 Use deterministic scripted probes
//	-interval string       Override the network sampling interval
//	-wifi-interface string Pin the wireless interface to sample
//	-config string         Path to configuration file (default: ~/.config/link-pulse/config.yaml)
//	-no-color              Disable colored output
//	-verbose               Enable verbose logging
//	-version               Print version and exit
//	-man                   Print man page to stdout in roff format
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitlab.com/tinyland/lab/link-pulse/cache"
	"gitlab.com/tinyland/lab/link-pulse/config"
	"gitlab.com/tinyland/lab/link-pulse/display/color"
	"gitlab.com/tinyland/lab/link-pulse/display/report"
	"gitlab.com/tinyland/lab/link-pulse/docs/manpage"
	"gitlab.com/tinyland/lab/link-pulse/shell"
	"gitlab.com/tinyland/lab/link-pulse/status"
)

// defaultPollInterval backstops duration parsing when a config value slips
// past validation malformed.
const defaultPollInterval = time.Second

func main() {
	var (
		configPath   = flag.String("config", "", "Path to configuration file (default: ~/.config/link-pulse/config.yaml)")
		runWatch     = flag.Bool("watch", false, "Launch the interactive watch view")
		runOnce      = flag.Bool("once", false, "Print the boxed report card and exit (default)")
		runSegment   = flag.Bool("segment", false, "Print a one-line prompt segment from cached snapshots")
		jsonOut      = flag.Bool("json", false, "Print snapshots as JSON (with -health: health report as JSON)")
		shellType    = flag.String("shell", "", "Output shell integration script (bash|zsh|fish|nu)")
		runHealth    = flag.Bool("health", false, "Report snapshot freshness")
		runDoctor    = flag.Bool("doctor", false, "Diagnose the sampling environment")
		runKeys      = flag.Bool("keys", false, "Show registered keybindings")
		keysMode     = flag.String("mode", "", "Filter keybindings by mode (tui|shell, with -keys)")
		keysFormat   = flag.String("format", "table", "Keybindings output format (table|json, with -keys)")
		resetCache   = flag.Bool("reset-cache", false, "Remove cached snapshots and exit")
		fixedMode    = flag.Bool("fixed", false, "Use deterministic scripted probes instead of the host")
		intervalFlag = flag.String("interval", "", "Override the network sampling interval (e.g. 500ms, 2s)")
		wifiIface    = flag.String("wifi-interface", "", "Pin the wireless interface to sample")
		noColor      = flag.Bool("no-color", false, "Disable colored output")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
		showMan      = flag.Bool("man", false, "Print man page to stdout in roff format")
	)
	flag.Parse()

	// ---------------------------------------------------------------
	// Commands that don't require config
	// ---------------------------------------------------------------

	if *showVersion {
		fmt.Printf("link-pulse %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if *showMan {
		fmt.Print(manpage.Generate(version, commit, date))
		os.Exit(0)
	}

	if *runKeys {
		runKeysCommand(*keysMode, *keysFormat)
		os.Exit(0)
	}

	if *shellType != "" {
		var st shell.ShellType
		switch *shellType {
		case "bash":
			st = shell.Bash
		case "zsh":
			st = shell.Zsh
		case "fish":
			st = shell.Fish
		case "nu", "nushell":
			st = shell.Nushell
		default:
			fmt.Fprintf(os.Stderr, "unknown shell: %s (supported: bash, zsh, fish, nu)\n", *shellType)
			os.Exit(1)
		}
		icfg := shell.DefaultIntegrationConfig()
		if *configPath != "" {
			icfg.ConfigPath = *configPath
		}
		fmt.Print(shell.GenerateIntegration(st, icfg))
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Load configuration
	// ---------------------------------------------------------------

	path := *configPath
	if path == "" {
		path = os.Getenv("LINK_PULSE_CONFIG")
	}
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flag overrides land before validation so bad values fail the same
	// way config values do.
	if *intervalFlag != "" {
		cfg.Sampling.NetworkInterval = *intervalFlag
	}
	if *wifiIface != "" {
		cfg.Wifi.Interface = *wifiIface
	}
	if *noColor {
		cfg.Display.Color = "never"
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := buildLogger(cfg.Log)
	color.Apply(cfg.Display.Color)

	var store *cache.Store
	if cfg.Cache.Enabled {
		store, err = cache.NewStore(cfg.Cache.Dir, logger)
		if err != nil {
			logger.Warn("snapshot cache unavailable", "dir", cfg.Cache.Dir, "error", err)
			store = nil
		}
	}

	if *resetCache {
		if store == nil {
			fmt.Fprintln(os.Stderr, "cache is disabled")
			os.Exit(1)
		}
		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "reset cache: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "cleared %s\n", cfg.Cache.Dir)
		os.Exit(0)
	}

	if *runHealth {
		os.Exit(runHealthCheck(store, *jsonOut))
	}

	if *runDoctor {
		runDoctorCommand(cfg, logger)
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Segment mode: cache only, never samples
	// ---------------------------------------------------------------

	if *runSegment {
		network, wifi, system := cachedStates(store)
		sel := status.NewSelector(status.SelectorConfig{
			MaxWidth: segmentWidth(cfg),
			Wifi:     cfg.Segment.Parts.Wifi,
			Rates:    cfg.Segment.Parts.Rates,
			Battery:  cfg.Segment.Parts.Battery,
		})
		if out := sel.Segment(network, wifi, system); out != "" {
			fmt.Println(out)
		}
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Context with signal handling
	// ---------------------------------------------------------------

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ---------------------------------------------------------------
	// Watch mode
	// ---------------------------------------------------------------

	if *runWatch {
		defer func() {
			if r := recover(); r != nil {
				// Attempt to restore terminal from alt-screen before printing.
				fmt.Print("\x1b[?1049l\x1b[?25h")
				fmt.Fprintf(os.Stderr, "link-pulse: watch view panic: %v\n", r)
				os.Exit(1)
			}
		}()

		if err := runWatchView(ctx, cfg, store, logger, *fixedMode); err != nil {
			fmt.Fprintf(os.Stderr, "watch view error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Default: one-shot report card (also -once and -json)
	// ---------------------------------------------------------------

	_ = *runOnce // the report card is the default mode

	network, wifi, system := snapshotStates(ctx, cfg, store, logger, *fixedMode)

	if *jsonOut {
		health := status.NewEvaluator(status.DefaultEvaluatorConfig()).Evaluate(network, wifi, system)
		payload := map[string]interface{}{
			"network": network,
			"wifi":    wifi,
			"system":  system,
			"health":  healthJSON(health),
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal snapshots: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		os.Exit(0)
	}

	rcfg := report.DefaultReportConfig()
	rcfg.CacheDir = cfg.Cache.Dir
	rcfg.Logger = logger
	fmt.Println(report.NewReport(rcfg).Generate(network, wifi, system))
}

// segmentWidth resolves the segment cell budget: the configured cap, or the
// terminal width when unset.
func segmentWidth(cfg *config.Config) int {
	if cfg.Segment.MaxWidth > 0 {
		return cfg.Segment.MaxWidth
	}
	w, _ := report.DetectTerminalSize()
	return w
}

// parseDuration parses a duration string, falling back to
// defaultPollInterval on empty or malformed input.
func parseDuration(s string) time.Duration {
	if s == "" {
		return defaultPollInterval
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultPollInterval
	}
	return d
}

// buildLogger constructs the process logger from the log config. A file
// that cannot be opened degrades to stderr rather than failing the run.
func buildLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelWarn
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var w io.Writer = os.Stderr
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			w = f
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
