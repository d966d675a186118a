package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Sampling defaults
	if cfg.Sampling.NetworkInterval != "1s" {
		t.Errorf("expected NetworkInterval=1s, got %s", cfg.Sampling.NetworkInterval)
	}
	if cfg.Sampling.WifiInterval != "2s" {
		t.Errorf("expected WifiInterval=2s, got %s", cfg.Sampling.WifiInterval)
	}
	if cfg.Sampling.SystemInterval != "5s" {
		t.Errorf("expected SystemInterval=5s, got %s", cfg.Sampling.SystemInterval)
	}
	if cfg.Sampling.NetworkAlpha != 0.3 {
		t.Errorf("expected NetworkAlpha=0.3, got %v", cfg.Sampling.NetworkAlpha)
	}
	if cfg.Sampling.WifiTimeConstant != "5s" {
		t.Errorf("expected WifiTimeConstant=5s, got %s", cfg.Sampling.WifiTimeConstant)
	}
	if cfg.Sampling.GapFloor != "5s" {
		t.Errorf("expected GapFloor=5s, got %s", cfg.Sampling.GapFloor)
	}
	if cfg.Sampling.GapFactor != 4 {
		t.Errorf("expected GapFactor=4, got %d", cfg.Sampling.GapFactor)
	}

	// Wifi defaults
	if cfg.Wifi.Interface != "auto" {
		t.Errorf("expected Interface=auto, got %s", cfg.Wifi.Interface)
	}
	if cfg.Wifi.Bands.SNRLow != 10 || cfg.Wifi.Bands.SNRHigh != 50 {
		t.Errorf("expected SNR band 10..50, got %v..%v", cfg.Wifi.Bands.SNRLow, cfg.Wifi.Bands.SNRHigh)
	}
	if cfg.Wifi.Bands.SignalLow != -95 || cfg.Wifi.Bands.SignalHigh != -30 {
		t.Errorf("expected signal band -95..-30, got %v..%v", cfg.Wifi.Bands.SignalLow, cfg.Wifi.Bands.SignalHigh)
	}

	// Cache defaults
	if !cfg.Cache.Enabled {
		t.Error("expected Cache.Enabled to be true")
	}
	if cfg.Cache.Dir == "" {
		t.Error("expected Cache.Dir to be set")
	}

	// Display defaults
	if cfg.Display.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", cfg.Display.Theme)
	}
	if cfg.Display.Color != "auto" {
		t.Errorf("expected Color=auto, got %s", cfg.Display.Color)
	}

	// Segment defaults
	if cfg.Segment.MaxWidth != 0 {
		t.Errorf("expected MaxWidth=0, got %d", cfg.Segment.MaxWidth)
	}
	if !cfg.Segment.Parts.Wifi || !cfg.Segment.Parts.Rates || !cfg.Segment.Parts.Battery {
		t.Errorf("expected all segment parts enabled, got %+v", cfg.Segment.Parts)
	}

	// Log defaults
	if cfg.Log.Level != "warn" {
		t.Errorf("expected Level=warn, got %s", cfg.Log.Level)
	}
	if cfg.Log.File != "" {
		t.Errorf("expected empty log file (stderr), got %s", cfg.Log.File)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got error: %v", err)
	}
}

func TestLoadConfigNonExistent(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("unexpected error for non-existent file: %v", err)
	}
	// Should return defaults
	if cfg.Sampling.NetworkInterval != "1s" {
		t.Errorf("expected default NetworkInterval=1s, got %s", cfg.Sampling.NetworkInterval)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error for empty path: %v", err)
	}
	if cfg.Sampling.NetworkInterval != "1s" {
		t.Errorf("expected default NetworkInterval=1s, got %s", cfg.Sampling.NetworkInterval)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Empty file should use defaults
	if cfg.Sampling.NetworkInterval != "1s" {
		t.Errorf("expected default NetworkInterval=1s, got %s", cfg.Sampling.NetworkInterval)
	}
}

func TestLoadConfigValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := `
sampling:
  network_interval: 500ms
  network_alpha: 0.5
  gap_factor: 8

wifi:
  interface: wlp3s0
  bands:
    snr_low: 5
    snr_high: 45

cache:
  enabled: false

display:
  theme: mono
  color: never

segment:
  max_width: 32
  parts:
    rates: false
    battery: false

log:
  level: debug
  file: /tmp/link-pulse.log
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Overridden values
	if cfg.Sampling.NetworkInterval != "500ms" {
		t.Errorf("expected NetworkInterval=500ms, got %s", cfg.Sampling.NetworkInterval)
	}
	if cfg.Sampling.NetworkAlpha != 0.5 {
		t.Errorf("expected NetworkAlpha=0.5, got %v", cfg.Sampling.NetworkAlpha)
	}
	if cfg.Sampling.GapFactor != 8 {
		t.Errorf("expected GapFactor=8, got %d", cfg.Sampling.GapFactor)
	}
	if cfg.Wifi.Interface != "wlp3s0" {
		t.Errorf("expected Interface=wlp3s0, got %s", cfg.Wifi.Interface)
	}
	if cfg.Wifi.Bands.SNRLow != 5 || cfg.Wifi.Bands.SNRHigh != 45 {
		t.Errorf("expected SNR band 5..45, got %v..%v", cfg.Wifi.Bands.SNRLow, cfg.Wifi.Bands.SNRHigh)
	}
	if cfg.Cache.Enabled {
		t.Error("expected Cache.Enabled=false")
	}
	if cfg.Display.Theme != "mono" {
		t.Errorf("expected Theme=mono, got %s", cfg.Display.Theme)
	}
	if cfg.Display.Color != "never" {
		t.Errorf("expected Color=never, got %s", cfg.Display.Color)
	}
	if cfg.Segment.MaxWidth != 32 {
		t.Errorf("expected MaxWidth=32, got %d", cfg.Segment.MaxWidth)
	}
	if cfg.Segment.Parts.Rates || cfg.Segment.Parts.Battery {
		t.Errorf("expected rates and battery parts disabled, got %+v", cfg.Segment.Parts)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.File != "/tmp/link-pulse.log" {
		t.Errorf("expected File=/tmp/link-pulse.log, got %s", cfg.Log.File)
	}

	// Defaults preserved for unspecified fields
	if cfg.Sampling.WifiInterval != "2s" {
		t.Errorf("expected default WifiInterval=2s, got %s", cfg.Sampling.WifiInterval)
	}
	if cfg.Wifi.Bands.SignalLow != -95 || cfg.Wifi.Bands.SignalHigh != -30 {
		t.Errorf("expected default signal band -95..-30, got %v..%v",
			cfg.Wifi.Bands.SignalLow, cfg.Wifi.Bands.SignalHigh)
	}
	if cfg.Cache.Dir == "" {
		t.Error("expected default Cache.Dir preserved")
	}
	if !cfg.Segment.Parts.Wifi {
		t.Error("expected default wifi part enabled")
	}
}

func TestLoadConfigPartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := `
sampling:
  network_interval: 250ms
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Overridden value
	if cfg.Sampling.NetworkInterval != "250ms" {
		t.Errorf("expected NetworkInterval=250ms, got %s", cfg.Sampling.NetworkInterval)
	}

	// Defaults preserved
	if cfg.Display.Theme != "dark" {
		t.Errorf("expected default Theme=dark, got %s", cfg.Display.Theme)
	}
	if !cfg.Cache.Enabled {
		t.Error("expected default Cache.Enabled=true")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := `
sampling:
  network_interval: [invalid
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty network interval", func(c *Config) { c.Sampling.NetworkInterval = "" }},
		{"unparseable interval", func(c *Config) { c.Sampling.WifiInterval = "fast" }},
		{"negative interval", func(c *Config) { c.Sampling.SystemInterval = "-5s" }},
		{"zero time constant", func(c *Config) { c.Sampling.WifiTimeConstant = "0s" }},
		{"zero alpha", func(c *Config) { c.Sampling.NetworkAlpha = 0 }},
		{"alpha above one", func(c *Config) { c.Sampling.NetworkAlpha = 1.5 }},
		{"zero gap factor", func(c *Config) { c.Sampling.GapFactor = 0 }},
		{"empty wifi interface", func(c *Config) { c.Wifi.Interface = "" }},
		{"inverted snr band", func(c *Config) { c.Wifi.Bands.SNRLow = 60 }},
		{"inverted signal band", func(c *Config) { c.Wifi.Bands.SignalHigh = -100 }},
		{"cache enabled without dir", func(c *Config) { c.Cache.Dir = "" }},
		{"unknown theme", func(c *Config) { c.Display.Theme = "neon" }},
		{"unknown color mode", func(c *Config) { c.Display.Color = "sometimes" }},
		{"negative segment width", func(c *Config) { c.Segment.MaxWidth = -1 }},
		{"unknown log level", func(c *Config) { c.Log.Level = "trace" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateCacheDisabledAllowsEmptyDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.Dir = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled cache with empty dir should validate, got %v", err)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Sampling.NetworkInterval = "250ms"
	cfg.Display.Theme = "light"

	if err := SaveConfig(cfg, configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loaded.Sampling.NetworkInterval != "250ms" {
		t.Errorf("expected NetworkInterval=250ms, got %s", loaded.Sampling.NetworkInterval)
	}
	if loaded.Display.Theme != "light" {
		t.Errorf("expected Theme=light, got %s", loaded.Display.Theme)
	}
}

func TestXDGPaths(t *testing.T) {
	cfg := DefaultConfig()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home dir: %v", err)
	}

	expectedCache := filepath.Join(home, ".cache", "link-pulse")
	if cfg.Cache.Dir != expectedCache {
		t.Errorf("expected Cache.Dir=%s, got %s", expectedCache, cfg.Cache.Dir)
	}

	expectedConfig := filepath.Join(home, ".config", "link-pulse", "config.yaml")
	if DefaultPath() != expectedConfig {
		t.Errorf("expected DefaultPath=%s, got %s", expectedConfig, DefaultPath())
	}
}
