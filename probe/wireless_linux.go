//go:build linux

package probe

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mdlayher/wifi"
)

// nlClient is the nl80211 surface consumed by WirelessReader. *wifi.Client
// satisfies it.
type nlClient interface {
	Interfaces() ([]*wifi.Interface, error)
	BSS(ifi *wifi.Interface) (*wifi.BSS, error)
	StationInfo(ifi *wifi.Interface) ([]*wifi.StationInfo, error)
	Close() error
}

// WirelessReader reads Wi-Fi link state on Linux. Signal and noise come
// from /proc/net/wireless, the network name and bitrate from nl80211 via
// netlink, and adapter presence and radio power from sysfs. Each source is
// best effort: whatever cannot be read is simply absent from the snapshot.
type WirelessReader struct {
	iface  string
	logger *slog.Logger

	// Overridable filesystem roots and netlink dialer for testing.
	netClassDir      string
	rfkillDir        string
	openProcWireless func() (io.ReadCloser, error)
	dialNL           func() (nlClient, error)
}

// NewWirelessReader creates a Wi-Fi link reader. A non-empty iface pins the
// reader to that interface; empty means the first wireless interface found.
// If logger is nil, a no-op logger is used.
func NewWirelessReader(iface string, logger *slog.Logger) *WirelessReader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &WirelessReader{
		iface:       iface,
		logger:      logger,
		netClassDir: "/sys/class/net",
		rfkillDir:   "/sys/class/rfkill",
		openProcWireless: func() (io.ReadCloser, error) {
			return os.Open("/proc/net/wireless")
		},
		dialNL: func() (nlClient, error) {
			c, err := wifi.New()
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

// InterfaceName returns the interface the reader probes: the pinned name,
// or the first wireless interface found. Empty when the machine has none.
func (r *WirelessReader) InterfaceName() string {
	if r.iface != "" {
		return r.iface
	}
	return r.detectInterface()
}

// Link returns the current Wi-Fi link snapshot. Classification order is
// presence, then radio power, then association: an absent adapter is
// unavailable, a blocked or downed adapter is radio-off, and an adapter
// with no sign of association is disconnected. An empty network name alone
// never demotes an otherwise associated link, since the name can be
// redacted while signal and bitrate still flow.
func (r *WirelessReader) Link() LinkSnapshot {
	name := r.InterfaceName()
	if name == "" || !r.isWireless(name) {
		return LinkSnapshot{Status: LinkUnavailable}
	}
	if r.radioBlocked() || !r.adminUp(name) {
		return LinkSnapshot{Status: LinkRadioOff}
	}

	snap := LinkSnapshot{Status: LinkDisconnected}
	r.fillProcWireless(name, &snap)
	r.fillNetlink(name, &snap)

	if snap.SSID != "" || snap.Signal != nil || (snap.Bitrate != nil && *snap.Bitrate > 0) {
		snap.Status = LinkConnected
	}
	return snap
}

// detectInterface returns the alphabetically first interface that exposes a
// wireless sysfs directory.
func (r *WirelessReader) detectInterface() string {
	entries, err := os.ReadDir(r.netClassDir)
	if err != nil {
		r.logger.Debug("sysfs net class unreadable", "error", err)
		return ""
	}

	var names []string
	for _, e := range entries {
		if r.isWireless(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

// isWireless reports whether the named interface has a wireless extension
// directory in sysfs.
func (r *WirelessReader) isWireless(name string) bool {
	_, err := os.Stat(filepath.Join(r.netClassDir, name, "wireless"))
	return err == nil
}

// adminUp reports whether the interface has IFF_UP set. Unreadable flags
// count as up so a transient sysfs hiccup does not masquerade as a powered
// down radio.
func (r *WirelessReader) adminUp(name string) bool {
	raw, err := os.ReadFile(filepath.Join(r.netClassDir, name, "flags"))
	if err != nil {
		return true
	}
	s := strings.TrimSpace(string(raw))
	s = strings.TrimPrefix(s, "0x")
	flags, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return true
	}
	return flags&0x1 != 0
}

// radioBlocked reports whether every wlan killswitch is soft or hard
// blocked. A machine with several adapters counts as blocked only when no
// unblocked wlan radio remains; the per-interface up check catches the
// rest.
func (r *WirelessReader) radioBlocked() bool {
	entries, err := os.ReadDir(r.rfkillDir)
	if err != nil {
		return false
	}

	found := false
	for _, e := range entries {
		dir := filepath.Join(r.rfkillDir, e.Name())
		typ, err := os.ReadFile(filepath.Join(dir, "type"))
		if err != nil || strings.TrimSpace(string(typ)) != "wlan" {
			continue
		}
		found = true
		if !readSysfsBool(filepath.Join(dir, "soft")) && !readSysfsBool(filepath.Join(dir, "hard")) {
			return false
		}
	}
	return found
}

// readSysfsBool reads a sysfs file containing "0" or "1".
func readSysfsBool(path string) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(raw)) == "1"
}

// fillProcWireless parses the interface's /proc/net/wireless row for signal
// level and noise floor. The kernel prints both with a trailing dot when
// the driver marks them updated, and some drivers report unsigned quality
// units or the -256 "invalid" sentinel instead of dBm, so only values in a
// plausible dBm window are kept.
func (r *WirelessReader) fillProcWireless(name string, snap *LinkSnapshot) {
	f, err := r.openProcWireless()
	if err != nil {
		r.logger.Debug("proc wireless unreadable", "error", err)
		return
	}
	defer f.Close()

	prefix := name + ":"
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 || fields[0] != prefix {
			continue
		}

		// Fields: iface status link level noise ...
		if v, ok := parseWirelessValue(fields[3]); ok && plausibleDBM(v) {
			level := v
			snap.Signal = &level
		}
		if v, ok := parseWirelessValue(fields[4]); ok && plausibleDBM(v) {
			noise := v
			snap.Noise = &noise
		}
		return
	}
}

// parseWirelessValue parses one /proc/net/wireless quality field, tolerating
// the trailing updated-flag dot.
func parseWirelessValue(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSuffix(s, "."))
	if err != nil {
		return 0, false
	}
	return v, true
}

// plausibleDBM reports whether v looks like a real dBm measurement rather
// than a percentage, an unsigned RSSI, or the kernel's invalid sentinel.
func plausibleDBM(v int) bool {
	return v >= -120 && v <= -1
}

// fillNetlink asks nl80211 for the associated network name, the negotiated
// bitrate, and a signal reading to back up procfs. The netlink session is
// dialed per call; at sampling cadence that is cheap and avoids holding a
// socket across suspend.
func (r *WirelessReader) fillNetlink(name string, snap *LinkSnapshot) {
	c, err := r.dialNL()
	if err != nil {
		r.logger.Debug("nl80211 unavailable", "error", err)
		return
	}
	defer c.Close()

	ifis, err := c.Interfaces()
	if err != nil {
		r.logger.Debug("nl80211 interface list failed", "error", err)
		return
	}

	var ifi *wifi.Interface
	for _, cand := range ifis {
		if cand.Name == name {
			ifi = cand
			break
		}
	}
	if ifi == nil {
		return
	}

	if bss, err := c.BSS(ifi); err == nil && bss.Status == wifi.BSSStatusAssociated {
		snap.SSID = bss.SSID
	}

	stations, err := c.StationInfo(ifi)
	if err != nil || len(stations) == 0 {
		return
	}
	st := stations[0]
	if snap.Signal == nil && plausibleDBM(st.Signal) {
		level := st.Signal
		snap.Signal = &level
	}
	if st.TransmitBitrate > 0 {
		mbps := float64(st.TransmitBitrate) / 1e6
		snap.Bitrate = &mbps
	}
}

// Compile-time interface compliance check.
var _ LinkReader = (*WirelessReader)(nil)
