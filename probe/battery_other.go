//go:build !linux

package probe

import "log/slog"

type noBatteryReader struct{}

// NewBatteryReader creates a battery reader stub for platforms without
// sysfs power supply support.
func NewBatteryReader(logger *slog.Logger) BatteryReader {
	return noBatteryReader{}
}

// Battery reports no battery on unsupported platforms.
func (noBatteryReader) Battery() (BatterySnapshot, bool) {
	return BatterySnapshot{}, false
}
