// Package config provides configuration parsing for link-pulse.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the link-pulse configuration.
type Config struct {
	// Sampling holds tick cadence and smoothing settings.
	Sampling SamplingConfig `yaml:"sampling"`

	// Wifi holds wireless probe settings.
	Wifi WifiConfig `yaml:"wifi"`

	// Cache holds warm-start snapshot settings.
	Cache CacheConfig `yaml:"cache"`

	// Display holds rendering settings.
	Display DisplayConfig `yaml:"display"`

	// Segment holds prompt segment settings.
	Segment SegmentConfig `yaml:"segment"`

	// Log holds logging settings.
	Log LogConfig `yaml:"log"`
}

// SamplingConfig holds tick cadence and smoothing settings.
type SamplingConfig struct {
	// NetworkInterval is a duration string (e.g. "1s", "500ms") between
	// throughput ticks.
	NetworkInterval string `yaml:"network_interval"`
	// WifiInterval is a duration string between link quality ticks.
	WifiInterval string `yaml:"wifi_interval"`
	// SystemInterval is a duration string between host gauge ticks.
	SystemInterval string `yaml:"system_interval"`
	// NetworkAlpha is the throughput smoothing weight, in (0, 1]. Higher
	// values track bursts faster; lower values smooth harder.
	NetworkAlpha float64 `yaml:"network_alpha"`
	// WifiTimeConstant is a duration string governing how quickly the
	// signal filters converge, independent of tick spacing.
	WifiTimeConstant string `yaml:"wifi_time_constant"`
	// GapFloor is a duration string for the smallest tick spacing treated
	// as a sleep/wake gap.
	GapFloor string `yaml:"gap_floor"`
	// GapFactor scales the network interval into a gap threshold; the
	// larger of floor and factor*interval applies.
	GapFactor int `yaml:"gap_factor"`
}

// WifiConfig holds wireless probe settings.
type WifiConfig struct {
	// Interface pins the wireless interface name (e.g. "wlan0"); "auto"
	// scans for the first wireless interface.
	Interface string `yaml:"interface"`
	// Bands tunes the dB-to-percent quality mapping.
	Bands BandsConfig `yaml:"bands"`
}

// BandsConfig bounds the linear quality mappings. SNR values are dB above
// the noise floor; signal values are dBm.
type BandsConfig struct {
	// SNRLow reads as 0% when a noise floor is available.
	SNRLow float64 `yaml:"snr_low"`
	// SNRHigh reads as 100% when a noise floor is available.
	SNRHigh float64 `yaml:"snr_high"`
	// SignalLow reads as 0% when only a signal reading exists.
	SignalLow float64 `yaml:"signal_low"`
	// SignalHigh reads as 100% when only a signal reading exists.
	SignalHigh float64 `yaml:"signal_high"`
}

// CacheConfig holds warm-start snapshot settings.
type CacheConfig struct {
	// Enabled controls whether samplers persist snapshots and preload
	// them on start.
	Enabled bool `yaml:"enabled"`
	// Dir is the directory for persisted snapshots.
	Dir string `yaml:"dir"`
}

// DisplayConfig holds rendering settings.
type DisplayConfig struct {
	// Theme selects the watch-mode palette: "dark", "light", or "mono".
	Theme string `yaml:"theme"`
	// Color controls ANSI output: "auto", "always", or "never".
	Color string `yaml:"color"`
}

// SegmentConfig holds prompt segment settings.
type SegmentConfig struct {
	// MaxWidth caps the rendered segment width in cells; 0 fits the
	// terminal.
	MaxWidth int `yaml:"max_width"`
	// Parts controls which readouts the segment includes.
	Parts SegmentParts `yaml:"parts"`
}

// SegmentParts holds individual readout toggles.
type SegmentParts struct {
	// Wifi includes the link quality readout.
	Wifi bool `yaml:"wifi"`
	// Rates includes the throughput readout.
	Rates bool `yaml:"rates"`
	// Battery includes the battery readout.
	Battery bool `yaml:"battery"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	Level string `yaml:"level"`
	// File is the log output path; empty logs to stderr.
	File string `yaml:"file"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Sampling: SamplingConfig{
			NetworkInterval:  "1s",
			WifiInterval:     "2s",
			SystemInterval:   "5s",
			NetworkAlpha:     0.3,
			WifiTimeConstant: "5s",
			GapFloor:         "5s",
			GapFactor:        4,
		},
		Wifi: WifiConfig{
			Interface: "auto",
			Bands: BandsConfig{
				SNRLow:     10,
				SNRHigh:    50,
				SignalLow:  -95,
				SignalHigh: -30,
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     filepath.Join(home, ".cache", "link-pulse"),
		},
		Display: DisplayConfig{
			Theme: "dark",
			Color: "auto",
		},
		Segment: SegmentConfig{
			MaxWidth: 0,
			Parts: SegmentParts{
				Wifi:    true,
				Rates:   true,
				Battery: true,
			},
		},
		Log: LogConfig{
			Level: "warn",
			File:  "",
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "link-pulse", "config.yaml")
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for required fields and logical
// consistency.
func (c *Config) Validate() error {
	// Duration fields must parse and be positive.
	durations := []struct {
		name  string
		value string
	}{
		{"sampling.network_interval", c.Sampling.NetworkInterval},
		{"sampling.wifi_interval", c.Sampling.WifiInterval},
		{"sampling.system_interval", c.Sampling.SystemInterval},
		{"sampling.wifi_time_constant", c.Sampling.WifiTimeConstant},
		{"sampling.gap_floor", c.Sampling.GapFloor},
	}
	for _, d := range durations {
		if d.value == "" {
			return fmt.Errorf("%s is required", d.name)
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}

	if c.Sampling.NetworkAlpha <= 0 || c.Sampling.NetworkAlpha > 1 {
		return fmt.Errorf("sampling.network_alpha must be in (0, 1], got %v", c.Sampling.NetworkAlpha)
	}
	if c.Sampling.GapFactor < 1 {
		return fmt.Errorf("sampling.gap_factor must be at least 1, got %d", c.Sampling.GapFactor)
	}

	if c.Wifi.Interface == "" {
		return fmt.Errorf("wifi.interface is required (use \"auto\" to scan)")
	}
	if c.Wifi.Bands.SNRLow >= c.Wifi.Bands.SNRHigh {
		return fmt.Errorf("wifi.bands.snr_low must be below snr_high, got %v >= %v",
			c.Wifi.Bands.SNRLow, c.Wifi.Bands.SNRHigh)
	}
	if c.Wifi.Bands.SignalLow >= c.Wifi.Bands.SignalHigh {
		return fmt.Errorf("wifi.bands.signal_low must be below signal_high, got %v >= %v",
			c.Wifi.Bands.SignalLow, c.Wifi.Bands.SignalHigh)
	}

	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required when cache is enabled")
	}

	validThemes := map[string]bool{"dark": true, "light": true, "mono": true}
	if !validThemes[c.Display.Theme] {
		return fmt.Errorf("display.theme must be 'dark', 'light', or 'mono', got %q", c.Display.Theme)
	}
	validColor := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColor[c.Display.Color] {
		return fmt.Errorf("display.color must be 'auto', 'always', or 'never', got %q", c.Display.Color)
	}

	if c.Segment.MaxWidth < 0 {
		return fmt.Errorf("segment.max_width must be non-negative, got %d", c.Segment.MaxWidth)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %q", c.Log.Level)
	}

	return nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
