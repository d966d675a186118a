package probe

import (
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sys/unix"
)

// newTestHostReader stubs every metric source with fixed values.
func newTestHostReader() *HostReader {
	r := NewHostReader(nil)
	r.cpuTimes = func(percpu bool) ([]cpu.TimesStat, error) {
		return []cpu.TimesStat{{User: 100, System: 50, Idle: 800, Iowait: 10}}, nil
	}
	r.virtualMem = func() (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{UsedPercent: 43.2}, nil
	}
	r.loadAvg = func() (*load.AvgStat, error) {
		return &load.AvgStat{Load1: 1.50, Load5: 2.75, Load15: 3.00}, nil
	}
	r.uptime = func() (uint64, error) { return 7200, nil }
	r.statfs = func(path string, buf *unix.Statfs_t) error {
		buf.Blocks = 1000
		buf.Bfree = 400
		buf.Bavail = 350
		return nil
	}
	return r
}

// TestSystemFirstReadSeedsCPU verifies the first reading reports zero CPU
// while the delta baseline seeds, with the other gauges already live.
func TestSystemFirstReadSeedsCPU(t *testing.T) {
	r := newTestHostReader()

	snap := r.System()
	if snap.CPUPercent != 0 {
		t.Errorf("CPUPercent = %f, want 0 (seeding)", snap.CPUPercent)
	}
	if snap.MemPercent != 43.2 {
		t.Errorf("MemPercent = %f, want 43.2", snap.MemPercent)
	}
	if snap.Load1 != 1.50 || snap.Load5 != 2.75 || snap.Load15 != 3.00 {
		t.Errorf("load = %f/%f/%f, want 1.50/2.75/3.00", snap.Load1, snap.Load5, snap.Load15)
	}
	if snap.Uptime != 2*time.Hour {
		t.Errorf("Uptime = %v, want 2h", snap.Uptime)
	}
	// used = 600, total = 600 + 350 = 950 => ~63.16%
	if snap.DiskPercent < 63 || snap.DiskPercent > 64 {
		t.Errorf("DiskPercent = %f, want ~63.2", snap.DiskPercent)
	}
}

// TestSystemCPUDelta verifies the second reading computes busy percent from
// the counter delta, treating iowait as idle.
func TestSystemCPUDelta(t *testing.T) {
	r := newTestHostReader()
	r.System()

	r.cpuTimes = func(percpu bool) ([]cpu.TimesStat, error) {
		return []cpu.TimesStat{{User: 150, System: 75, Idle: 850, Iowait: 20}}, nil
	}

	snap := r.System()
	// delta idle = (850+20) - (800+10) = 60
	// delta total = (150+75+850+20) - (100+50+800+10) = 135
	// busy = (1 - 60/135) * 100 = 55.55...
	if snap.CPUPercent < 55 || snap.CPUPercent > 56 {
		t.Errorf("CPUPercent = %f, want ~55.6", snap.CPUPercent)
	}
}

// TestSystemStalledCountersReportZero verifies an unchanged counter set
// reports zero busy rather than dividing by zero.
func TestSystemStalledCountersReportZero(t *testing.T) {
	r := newTestHostReader()
	r.System()

	snap := r.System()
	if snap.CPUPercent != 0 {
		t.Errorf("CPUPercent = %f, want 0 for stalled counters", snap.CPUPercent)
	}
}

// TestSystemSourcesFailIndependently verifies one broken source zeroes only
// its own fields.
func TestSystemSourcesFailIndependently(t *testing.T) {
	r := newTestHostReader()
	r.virtualMem = func() (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("mem unavailable")
	}
	r.statfs = func(path string, buf *unix.Statfs_t) error {
		return errors.New("statfs unavailable")
	}

	snap := r.System()
	if snap.MemPercent != 0 {
		t.Errorf("MemPercent = %f, want 0", snap.MemPercent)
	}
	if snap.DiskPercent != 0 {
		t.Errorf("DiskPercent = %f, want 0", snap.DiskPercent)
	}
	if snap.Load1 != 1.50 {
		t.Errorf("Load1 = %f, want 1.50 despite other failures", snap.Load1)
	}
}

// TestScriptedReadersHoldLast verifies the scripted fakes replay their
// script and then repeat the final entry.
func TestScriptedReadersHoldLast(t *testing.T) {
	c := NewScriptedCounterReader(
		CounterSnapshot{ReceivedBytes: 100},
		CounterSnapshot{ReceivedBytes: 200},
	)

	for i, want := range []uint64{100, 200, 200, 200} {
		snap, ok := c.Counters()
		if !ok {
			t.Fatalf("read %d: unexpected no data", i)
		}
		if snap.ReceivedBytes != want {
			t.Errorf("read %d: ReceivedBytes = %d, want %d", i, snap.ReceivedBytes, want)
		}
	}

	c.SetAbsent(true)
	if _, ok := c.Counters(); ok {
		t.Error("absent reader still reports data")
	}

	l := NewScriptedLinkReader(LinkSnapshot{Status: LinkConnected, SSID: "Net"})
	for i := 0; i < 3; i++ {
		if got := l.Link(); got.SSID != "Net" {
			t.Errorf("read %d: SSID = %q, want %q", i, got.SSID, "Net")
		}
	}

	l.SetScript(LinkSnapshot{Status: LinkDisconnected})
	if got := l.Link(); got.Status != LinkDisconnected {
		t.Errorf("Status = %v, want %v after SetScript", got.Status, LinkDisconnected)
	}
}

// TestLinkStatusString verifies the status names used across logs and
// rendered output.
func TestLinkStatusString(t *testing.T) {
	tests := []struct {
		status LinkStatus
		want   string
	}{
		{status: LinkUnavailable, want: "unavailable"},
		{status: LinkRadioOff, want: "radio off"},
		{status: LinkDisconnected, want: "disconnected"},
		{status: LinkConnected, want: "connected"},
		{status: LinkStatus(99), want: "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}
