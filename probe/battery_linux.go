//go:build linux

package probe

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// sysfsBatteryReader reads battery charge from the power supply class in
// sysfs. Desktops without a battery report ok=false.
type sysfsBatteryReader struct {
	logger *slog.Logger

	// Overridable sysfs root for testing.
	powerSupplyDir string
}

// NewBatteryReader creates a battery reader backed by sysfs. If logger is
// nil, a no-op logger is used.
func NewBatteryReader(logger *slog.Logger) BatteryReader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sysfsBatteryReader{
		logger:         logger,
		powerSupplyDir: "/sys/class/power_supply",
	}
}

// Battery returns the first readable battery's charge level and state.
func (r *sysfsBatteryReader) Battery() (BatterySnapshot, bool) {
	paths, _ := filepath.Glob(filepath.Join(r.powerSupplyDir, "BAT*", "capacity"))
	for _, capPath := range paths {
		raw, err := os.ReadFile(capPath)
		if err != nil {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
		if err != nil {
			r.logger.Debug("battery capacity unparsable", "path", capPath, "error", err)
			continue
		}
		state, _ := os.ReadFile(filepath.Join(filepath.Dir(capPath), "status"))
		return BatterySnapshot{
			Percent: pct,
			State:   strings.TrimSpace(string(state)),
		}, true
	}
	return BatterySnapshot{}, false
}
