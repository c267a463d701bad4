package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// SystemProbe abstracts the mandatory point-in-time OS reads so the
// sampler can be driven against a fake in tests. A failure from any
// method is fatal to the run.
type SystemProbe interface {
	// CPUPercent blocks for the given sampling window to obtain an
	// accurate percentage.
	CPUPercent(ctx context.Context, window time.Duration) (float64, error)
	MemoryPercent(ctx context.Context) (float64, error)
	// Counters reads the current cumulative disk and network byte
	// counters.
	Counters(ctx context.Context) (CounterSnapshot, error)
}

// gopsutilProbe implements SystemProbe against the local system.
type gopsutilProbe struct{}

// NewSystemProbe returns a probe backed by the local OS counters.
func NewSystemProbe() SystemProbe {
	return gopsutilProbe{}
}

func (gopsutilProbe) CPUPercent(ctx context.Context, window time.Duration) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return 0, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return 0, fmt.Errorf("cpu percent: no reading returned")
	}
	return percents[0], nil
}

func (gopsutilProbe) MemoryPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("memory percent: %w", err)
	}
	return vm.UsedPercent, nil
}

func (gopsutilProbe) Counters(ctx context.Context) (CounterSnapshot, error) {
	snap := CounterSnapshot{Taken: time.Now()}

	diskCounters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return CounterSnapshot{}, fmt.Errorf("disk counters: %w", err)
	}
	for name, st := range diskCounters {
		// Loopback block devices inflate totals without representing
		// real I/O.
		if strings.HasPrefix(name, "loop") {
			continue
		}
		snap.DiskReadBytes += st.ReadBytes
		snap.DiskWriteBytes += st.WriteBytes
	}

	netCounters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return CounterSnapshot{}, fmt.Errorf("network counters: %w", err)
	}
	if len(netCounters) == 0 {
		return CounterSnapshot{}, fmt.Errorf("network counters: no aggregate reading returned")
	}
	snap.NetSentBytes = netCounters[0].BytesSent
	snap.NetRecvBytes = netCounters[0].BytesRecv

	return snap, nil
}
