package probe

import (
	"io"
	"log/slog"

	gnet "github.com/shirou/gopsutil/v3/net"
)

// NetCounterReader reads cumulative byte counters from the kernel's
// per-interface accounting via gopsutil. With an empty interface name it
// sums every interface that is up and not a loopback; pinned to a name it
// reads that interface alone and reports ok=false while the interface is
// absent or down.
type NetCounterReader struct {
	iface  string
	logger *slog.Logger

	// Overridable counter sources for testing.
	ioCounters func(pernic bool) ([]gnet.IOCountersStat, error)
	interfaces func() (gnet.InterfaceStatList, error)
}

// NewNetCounterReader creates an aggregate reader over every interface that
// is up and not a loopback. If logger is nil, a no-op logger is used.
func NewNetCounterReader(logger *slog.Logger) *NetCounterReader {
	return newNetCounterReader("", logger)
}

// NewInterfaceCounterReader creates a reader pinned to the named interface.
// If logger is nil, a no-op logger is used.
func NewInterfaceCounterReader(name string, logger *slog.Logger) *NetCounterReader {
	return newNetCounterReader(name, logger)
}

func newNetCounterReader(name string, logger *slog.Logger) *NetCounterReader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &NetCounterReader{
		iface:      name,
		logger:     logger,
		ioCounters: gnet.IOCounters,
		interfaces: gnet.Interfaces,
	}
}

// Counters returns the current cumulative byte counts. An aggregate reader
// never reports ok=false: on a failed read it logs at debug level and
// returns a zero snapshot so callers keep ticking. A pinned reader reports
// ok=false while its interface is absent or down.
func (r *NetCounterReader) Counters() (CounterSnapshot, bool) {
	stats, err := r.ioCounters(true)
	if err != nil {
		r.logger.Debug("net counters read failed", "error", err)
		return CounterSnapshot{}, r.iface == ""
	}

	if r.iface != "" {
		return r.pinnedCounters(stats)
	}
	return r.aggregateCounters(stats), true
}

// pinnedCounters extracts the counters for the pinned interface. The
// interface must exist in the per-NIC stats and must not be administratively
// down; otherwise the reader reports no data so callers can hold their last
// baseline instead of observing a counter cliff.
func (r *NetCounterReader) pinnedCounters(stats []gnet.IOCountersStat) (CounterSnapshot, bool) {
	if !r.interfaceIsUp(r.iface) {
		return CounterSnapshot{}, false
	}
	for _, st := range stats {
		if st.Name == r.iface {
			return CounterSnapshot{ReceivedBytes: st.BytesRecv, SentBytes: st.BytesSent}, true
		}
	}
	return CounterSnapshot{}, false
}

// aggregateCounters sums counters across up, non-loopback interfaces,
// deduplicated by name. When interface flags cannot be enumerated it falls
// back to summing everything except the conventional loopback name, which
// overcounts rather than flatlines.
func (r *NetCounterReader) aggregateCounters(stats []gnet.IOCountersStat) CounterSnapshot {
	include := r.activeInterfaces()

	var snap CounterSnapshot
	seen := make(map[string]bool, len(stats))
	for _, st := range stats {
		if seen[st.Name] {
			continue
		}
		seen[st.Name] = true

		if include != nil {
			if !include[st.Name] {
				continue
			}
		} else if st.Name == "lo" || st.Name == "lo0" {
			continue
		}

		snap.ReceivedBytes += st.BytesRecv
		snap.SentBytes += st.BytesSent
	}
	return snap
}

// activeInterfaces returns the names of interfaces that are up and not
// loopbacks, or nil when enumeration fails.
func (r *NetCounterReader) activeInterfaces() map[string]bool {
	ifs, err := r.interfaces()
	if err != nil {
		r.logger.Debug("interface enumeration failed", "error", err)
		return nil
	}

	active := make(map[string]bool, len(ifs))
	for _, ifi := range ifs {
		var up, loopback bool
		for _, f := range ifi.Flags {
			switch f {
			case "up":
				up = true
			case "loopback":
				loopback = true
			}
		}
		if up && !loopback {
			active[ifi.Name] = true
		}
	}
	return active
}

// interfaceIsUp reports whether the named interface exists and is up. When
// enumeration fails the interface is assumed up, since the per-NIC counter
// read already proves the kernel knows it.
func (r *NetCounterReader) interfaceIsUp(name string) bool {
	ifs, err := r.interfaces()
	if err != nil {
		r.logger.Debug("interface enumeration failed", "error", err)
		return true
	}
	for _, ifi := range ifs {
		if ifi.Name != name {
			continue
		}
		for _, f := range ifi.Flags {
			if f == "up" {
				return true
			}
		}
		return false
	}
	return false
}

// Compile-time interface compliance check.
var _ CounterReader = (*NetCounterReader)(nil)
