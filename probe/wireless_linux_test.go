//go:build linux

package probe

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mdlayher/wifi"
)

// stringReadCloser wraps a strings.Reader to implement io.ReadCloser.
type stringReadCloser struct {
	*strings.Reader
}

func (s *stringReadCloser) Close() error { return nil }

func newReadCloser(content string) io.ReadCloser {
	return &stringReadCloser{strings.NewReader(content)}
}

const procWirelessHeader = `Inter-| sta-|   Quality        |   Discarded packets               | Missed | WE
 face | tus | link level noise |  nwid  crypt   frag  retry   misc | beacon | 22
`

// fakeNL is a scripted nl80211 client.
type fakeNL struct {
	ifis     []*wifi.Interface
	bss      *wifi.BSS
	stations []*wifi.StationInfo
}

func (f *fakeNL) Interfaces() ([]*wifi.Interface, error) { return f.ifis, nil }

func (f *fakeNL) BSS(ifi *wifi.Interface) (*wifi.BSS, error) {
	if f.bss == nil {
		return nil, errors.New("not associated")
	}
	return f.bss, nil
}

func (f *fakeNL) StationInfo(ifi *wifi.Interface) ([]*wifi.StationInfo, error) {
	if len(f.stations) == 0 {
		return nil, errors.New("no station")
	}
	return f.stations, nil
}

func (f *fakeNL) Close() error { return nil }

// newTestWireless builds a reader over empty temp sysfs trees with proc and
// netlink stubbed out; tests override what they need.
func newTestWireless(t *testing.T, iface string) *WirelessReader {
	t.Helper()

	r := NewWirelessReader(iface, nil)
	r.netClassDir = filepath.Join(t.TempDir(), "net")
	r.rfkillDir = filepath.Join(t.TempDir(), "rfkill")
	if err := os.MkdirAll(r.netClassDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(r.rfkillDir, 0o755); err != nil {
		t.Fatal(err)
	}
	r.openProcWireless = func() (io.ReadCloser, error) {
		return nil, errors.New("proc wireless not stubbed")
	}
	r.dialNL = func() (nlClient, error) {
		return nil, errors.New("netlink not stubbed")
	}
	return r
}

// addWireless creates a wireless interface in the fake sysfs tree with the
// given flags value.
func addWireless(t *testing.T, r *WirelessReader, name, flags string) {
	t.Helper()

	dir := filepath.Join(r.netClassDir, name)
	if err := os.MkdirAll(filepath.Join(dir, "wireless"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "flags"), []byte(flags+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

// addRfkill creates a killswitch entry in the fake sysfs tree.
func addRfkill(t *testing.T, r *WirelessReader, name, typ, soft, hard string) {
	t.Helper()

	dir := filepath.Join(r.rfkillDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for file, content := range map[string]string{"type": typ, "soft": soft, "hard": hard} {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// TestLinkNoAdapter verifies a machine without wireless interfaces reports
// an unavailable link.
func TestLinkNoAdapter(t *testing.T) {
	r := newTestWireless(t, "")
	if got := r.Link(); got.Status != LinkUnavailable {
		t.Errorf("Status = %v, want %v", got.Status, LinkUnavailable)
	}
}

// TestLinkPinnedInterfaceMissing verifies a pinned but absent interface
// reports unavailable rather than falling back to another adapter.
func TestLinkPinnedInterfaceMissing(t *testing.T) {
	r := newTestWireless(t, "wlan1")
	addWireless(t, r, "wlan0", "0x1003")

	if got := r.Link(); got.Status != LinkUnavailable {
		t.Errorf("Status = %v, want %v", got.Status, LinkUnavailable)
	}
}

// TestLinkRadioBlocked verifies an rfkill-blocked radio reports radio off.
func TestLinkRadioBlocked(t *testing.T) {
	tests := []struct {
		name       string
		soft, hard string
	}{
		{name: "soft blocked", soft: "1", hard: "0"},
		{name: "hard blocked", soft: "0", hard: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestWireless(t, "")
			addWireless(t, r, "wlan0", "0x1003")
			addRfkill(t, r, "rfkill0", "wlan", tt.soft, tt.hard)

			if got := r.Link(); got.Status != LinkRadioOff {
				t.Errorf("Status = %v, want %v", got.Status, LinkRadioOff)
			}
		})
	}
}

// TestLinkBluetoothRfkillIgnored verifies non-wlan killswitches do not turn
// the Wi-Fi status off.
func TestLinkBluetoothRfkillIgnored(t *testing.T) {
	r := newTestWireless(t, "")
	addWireless(t, r, "wlan0", "0x1003")
	addRfkill(t, r, "rfkill0", "bluetooth", "1", "0")

	if got := r.Link(); got.Status == LinkRadioOff {
		t.Error("bluetooth rfkill must not report Wi-Fi radio off")
	}
}

// TestLinkAdminDown verifies an interface without IFF_UP reports radio off.
func TestLinkAdminDown(t *testing.T) {
	r := newTestWireless(t, "")
	addWireless(t, r, "wlan0", "0x1002")

	if got := r.Link(); got.Status != LinkRadioOff {
		t.Errorf("Status = %v, want %v", got.Status, LinkRadioOff)
	}
}

// TestLinkConnected verifies the merged snapshot when procfs supplies the
// quality numbers and netlink supplies the name and bitrate.
func TestLinkConnected(t *testing.T) {
	r := newTestWireless(t, "")
	addWireless(t, r, "wlan0", "0x1003")
	addRfkill(t, r, "rfkill0", "wlan", "0", "0")
	r.openProcWireless = func() (io.ReadCloser, error) {
		return newReadCloser(procWirelessHeader +
			" wlan0: 0000   54.  -56.  -92.        0      0      0      0      0        0\n"), nil
	}
	r.dialNL = func() (nlClient, error) {
		return &fakeNL{
			ifis: []*wifi.Interface{{Name: "wlan0"}},
			bss:  &wifi.BSS{SSID: "HomeNet", Status: wifi.BSSStatusAssociated},
			stations: []*wifi.StationInfo{
				{Signal: -54, TransmitBitrate: 866_700_000},
			},
		}, nil
	}

	got := r.Link()
	if got.Status != LinkConnected {
		t.Fatalf("Status = %v, want %v", got.Status, LinkConnected)
	}
	if got.SSID != "HomeNet" {
		t.Errorf("SSID = %q, want %q", got.SSID, "HomeNet")
	}
	// procfs wins for signal when both sources report.
	if got.Signal == nil || *got.Signal != -56 {
		t.Errorf("Signal = %v, want -56", got.Signal)
	}
	if got.Noise == nil || *got.Noise != -92 {
		t.Errorf("Noise = %v, want -92", got.Noise)
	}
	if got.Bitrate == nil || *got.Bitrate != 866.7 {
		t.Errorf("Bitrate = %v, want 866.7", got.Bitrate)
	}
}

// TestLinkConnectedRedactedName verifies that signal without a network name
// still counts as connected.
func TestLinkConnectedRedactedName(t *testing.T) {
	r := newTestWireless(t, "")
	addWireless(t, r, "wlan0", "0x1003")
	r.dialNL = func() (nlClient, error) {
		return &fakeNL{
			ifis:     []*wifi.Interface{{Name: "wlan0"}},
			stations: []*wifi.StationInfo{{Signal: -61}},
		}, nil
	}

	got := r.Link()
	if got.Status != LinkConnected {
		t.Fatalf("Status = %v, want %v", got.Status, LinkConnected)
	}
	if got.SSID != "" {
		t.Errorf("SSID = %q, want empty", got.SSID)
	}
	if got.Signal == nil || *got.Signal != -61 {
		t.Errorf("Signal = %v, want -61", got.Signal)
	}
}

// TestLinkDisconnected verifies a powered radio with no association signs
// reports disconnected.
func TestLinkDisconnected(t *testing.T) {
	r := newTestWireless(t, "")
	addWireless(t, r, "wlan0", "0x1003")
	r.openProcWireless = func() (io.ReadCloser, error) {
		return newReadCloser(procWirelessHeader +
			" wlan0: 0000    0     0     0        0      0      0      0      0        0\n"), nil
	}
	r.dialNL = func() (nlClient, error) {
		return &fakeNL{ifis: []*wifi.Interface{{Name: "wlan0"}}}, nil
	}

	got := r.Link()
	if got.Status != LinkDisconnected {
		t.Errorf("Status = %v, want %v", got.Status, LinkDisconnected)
	}
	if got.Signal != nil || got.Noise != nil || got.Bitrate != nil {
		t.Errorf("metrics = %v/%v/%v, want all absent", got.Signal, got.Noise, got.Bitrate)
	}
}

// TestLinkInvalidNoiseSentinel verifies the kernel's -256 noise sentinel is
// dropped while a valid signal on the same row is kept.
func TestLinkInvalidNoiseSentinel(t *testing.T) {
	r := newTestWireless(t, "")
	addWireless(t, r, "wlan0", "0x1003")
	r.openProcWireless = func() (io.ReadCloser, error) {
		return newReadCloser(procWirelessHeader +
			" wlan0: 0000   54.  -56.  -256        0      0      0      0      0        0\n"), nil
	}

	got := r.Link()
	if got.Signal == nil || *got.Signal != -56 {
		t.Errorf("Signal = %v, want -56", got.Signal)
	}
	if got.Noise != nil {
		t.Errorf("Noise = %v, want absent", got.Noise)
	}
}

// TestParseWirelessValue exercises the quality field grammar.
func TestParseWirelessValue(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "-56.", want: -56, wantOK: true},
		{in: "-56", want: -56, wantOK: true},
		{in: "0", want: 0, wantOK: true},
		{in: "240", want: 240, wantOK: true},
		{in: "abc", wantOK: false},
		{in: ".", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseWirelessValue(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("value = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestPlausibleDBM verifies the dBm acceptance window rejects percentages,
// unsigned RSSI encodings, and the invalid sentinel.
func TestPlausibleDBM(t *testing.T) {
	tests := []struct {
		v    int
		want bool
	}{
		{v: -56, want: true},
		{v: -120, want: true},
		{v: -1, want: true},
		{v: 0, want: false},
		{v: 54, want: false},
		{v: 240, want: false},
		{v: -256, want: false},
	}

	for _, tt := range tests {
		if got := plausibleDBM(tt.v); got != tt.want {
			t.Errorf("plausibleDBM(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

// TestDetectInterfacePicksFirst verifies auto-detection is deterministic
// when several wireless interfaces exist.
func TestDetectInterfacePicksFirst(t *testing.T) {
	r := newTestWireless(t, "")
	addWireless(t, r, "wlp3s0", "0x1003")
	addWireless(t, r, "wlan0", "0x1003")

	if got := r.InterfaceName(); got != "wlan0" {
		t.Errorf("InterfaceName() = %q, want %q", got, "wlan0")
	}
}

// TestDetectInterfaceSkipsWired verifies wired interfaces are never chosen.
func TestDetectInterfaceSkipsWired(t *testing.T) {
	r := newTestWireless(t, "")
	if err := os.MkdirAll(filepath.Join(r.netClassDir, "eth0"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := r.InterfaceName(); got != "" {
		t.Errorf("InterfaceName() = %q, want empty", got)
	}
}
