package probe

import (
	"io"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sys/unix"
)

// SystemSnapshot holds one reading of the host gauges shown alongside the
// link telemetry.
type SystemSnapshot struct {
	// CPUPercent is busy CPU time over the window since the previous
	// reading, 0-100. Zero on the first reading while the baseline seeds.
	CPUPercent float64

	// MemPercent is used physical memory, 0-100.
	MemPercent float64

	// DiskPercent is root filesystem usage, 0-100.
	DiskPercent float64

	// Load1, Load5 and Load15 are the scheduler load averages.
	Load1  float64
	Load5  float64
	Load15 float64

	// Uptime is the time since boot.
	Uptime time.Duration
}

// SystemReader is a source of host gauge snapshots.
type SystemReader interface {
	// System returns the current host gauges. Sources that cannot be read
	// contribute zero values.
	System() SystemSnapshot
}

// HostReader reads CPU, memory, disk, and load gauges via gopsutil. CPU
// usage is a delta between successive calls, so the reader carries state
// and is not safe for concurrent use; each sampling loop owns its own.
type HostReader struct {
	logger *slog.Logger

	prevIdle  float64
	prevTotal float64
	seeded    bool

	// Overridable metric sources for testing.
	cpuTimes   func(percpu bool) ([]cpu.TimesStat, error)
	virtualMem func() (*mem.VirtualMemoryStat, error)
	loadAvg    func() (*load.AvgStat, error)
	uptime     func() (uint64, error)
	statfs     func(path string, buf *unix.Statfs_t) error
}

// NewHostReader creates a host gauge reader. If logger is nil, a no-op
// logger is used.
func NewHostReader(logger *slog.Logger) *HostReader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &HostReader{
		logger:     logger,
		cpuTimes:   cpu.Times,
		virtualMem: mem.VirtualMemory,
		loadAvg:    load.Avg,
		uptime:     host.Uptime,
		statfs:     unix.Statfs,
	}
}

// System returns the current host gauges. Each source is independent: one
// failing read zeroes its own fields and the rest still report.
func (r *HostReader) System() SystemSnapshot {
	var snap SystemSnapshot

	snap.CPUPercent = r.readCPU()

	if vm, err := r.virtualMem(); err == nil {
		snap.MemPercent = clampPercent(vm.UsedPercent)
	} else {
		r.logger.Debug("memory read failed", "error", err)
	}

	snap.DiskPercent = r.readRootDisk()

	if avg, err := r.loadAvg(); err == nil {
		snap.Load1 = avg.Load1
		snap.Load5 = avg.Load5
		snap.Load15 = avg.Load15
	} else {
		r.logger.Debug("load average read failed", "error", err)
	}

	if secs, err := r.uptime(); err == nil {
		snap.Uptime = time.Duration(secs) * time.Second
	} else {
		r.logger.Debug("uptime read failed", "error", err)
	}

	return snap
}

// readCPU computes busy CPU percent from the delta of cumulative CPU times.
// Iowait counts as idle. The first call seeds the baseline and returns 0.
func (r *HostReader) readCPU() float64 {
	times, err := r.cpuTimes(false)
	if err != nil || len(times) == 0 {
		r.logger.Debug("cpu times read failed", "error", err)
		return 0
	}

	ts := times[0]
	idle := ts.Idle + ts.Iowait
	total := ts.User + ts.System + ts.Idle + ts.Nice + ts.Iowait + ts.Irq + ts.Softirq + ts.Steal

	if !r.seeded {
		r.prevIdle = idle
		r.prevTotal = total
		r.seeded = true
		return 0
	}

	deltaIdle := idle - r.prevIdle
	deltaTotal := total - r.prevTotal
	r.prevIdle = idle
	r.prevTotal = total

	if deltaTotal <= 0 {
		return 0
	}
	return clampPercent((1.0 - deltaIdle/deltaTotal) * 100.0)
}

// readRootDisk computes root filesystem usage the way df does, counting
// the reserved blocks as used.
func (r *HostReader) readRootDisk() float64 {
	var stat unix.Statfs_t
	if err := r.statfs("/", &stat); err != nil {
		r.logger.Debug("statfs / failed", "error", err)
		return 0
	}
	if stat.Blocks == 0 {
		return 0
	}

	used := stat.Blocks - stat.Bfree
	total := used + stat.Bavail
	if total == 0 {
		return 0
	}
	return clampPercent(float64(used) / float64(total) * 100.0)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Compile-time interface compliance check.
var _ SystemReader = (*HostReader)(nil)
