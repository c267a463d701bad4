package metrics

import (
	"time"
)

// MetricSample represents one tick's measurement. Rate fields are
// derived from cumulative counter deltas and are never negative.
// Optional fields are nil when the corresponding sensor is absent or
// a read degraded; they never carry sentinel values.
type MetricSample struct {
	Elapsed       float64  `json:"elapsed_s"` // seconds since run start
	CPUPercent    float64  `json:"cpu_pct"`
	MemoryPercent float64  `json:"mem_pct"`
	DiskReadMBs   float64  `json:"disk_read_mbs"`
	DiskWriteMBs  float64  `json:"disk_write_mbs"`
	NetSentMBs    float64  `json:"net_sent_mbs"`
	NetRecvMBs    float64  `json:"net_recv_mbs"`
	CPUTempC      *float64 `json:"cpu_temp_c,omitempty"`
	GPUUtilPct    *float64 `json:"gpu_util_pct,omitempty"`
	GPUMemoryMB   *float64 `json:"gpu_mem_mb,omitempty"`
	GPUTempC      *float64 `json:"gpu_temp_c,omitempty"`
}

// CounterSnapshot holds the most recent cumulative disk and network
// byte counters. It is owned exclusively by the running Sampler and
// replaced in full on every tick.
type CounterSnapshot struct {
	DiskReadBytes  uint64
	DiskWriteBytes uint64
	NetSentBytes   uint64
	NetRecvBytes   uint64
	Taken          time.Time
}

// GPUReading is one optional GPU measurement. Individual fields are
// nil when the corresponding query failed for this tick.
type GPUReading struct {
	UtilPct  *float64
	MemoryMB *float64
	TempC    *float64
}
