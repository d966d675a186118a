//go:build !linux

package probe

import "log/slog"

// WirelessReader reports no Wi-Fi adapter on platforms without the Linux
// wireless stack.
type WirelessReader struct{}

// NewWirelessReader creates a Wi-Fi link reader stub.
func NewWirelessReader(iface string, logger *slog.Logger) *WirelessReader {
	return &WirelessReader{}
}

// InterfaceName returns the empty string on unsupported platforms.
func (r *WirelessReader) InterfaceName() string { return "" }

// Link reports an unavailable adapter on unsupported platforms.
func (r *WirelessReader) Link() LinkSnapshot {
	return LinkSnapshot{Status: LinkUnavailable}
}

// Compile-time interface compliance check.
var _ LinkReader = (*WirelessReader)(nil)
