package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resmon/internal/logging"
)

// State represents the sampler lifecycle state
type State string

const (
	// StateIdle means the sampler has not been started.
	StateIdle State = "idle"
	// StateRunning means the sampler is collecting ticks.
	StateRunning State = "running"
	// StateCompleted means the series has been handed out.
	StateCompleted State = "completed"
)

var (
	// ErrNotRunning is returned by Tick outside the Running state.
	ErrNotRunning = errors.New("sampler is not running")
	// ErrAlreadyStarted is returned by Start after the first call.
	ErrAlreadyStarted = errors.New("sampler already started")
)

// defaultCPUWindow is the blocking window used to obtain an accurate
// CPU percentage. This is a required blocking point per tick, not an
// error.
const defaultCPUWindow = 100 * time.Millisecond

// TempReader reads an optional CPU temperature; nil means unavailable
// or degraded for this tick.
type TempReader interface {
	Read(ctx context.Context) *float64
}

// GPUReader reads optional GPU metrics; empty fields mean unavailable
// or degraded for this tick.
type GPUReader interface {
	Read(ctx context.Context) GPUReading
}

// Sampler drives one measurement tick at a time. The series and the
// counter snapshot are owned exclusively by the sampler while it runs;
// no tick overlaps another. Lifecycle is a single forward path:
// Idle -> Running -> Completed.
type Sampler struct {
	logger    *logging.Logger
	probe     SystemProbe
	temp      TempReader
	gpu       GPUReader
	cpuWindow time.Duration

	series    *Series
	prev      CounterSnapshot
	state     State
	startTime time.Time
	ticks     int
}

// NewSampler creates a sampler backed by the local system probe.
// temp and gpu may be nil when the corresponding sensor is disabled.
func NewSampler(logger *logging.Logger, temp TempReader, gpu GPUReader, maxSamples int) *Sampler {
	return NewSamplerWithProbe(NewSystemProbe(), logger, temp, gpu, maxSamples)
}

// NewSamplerWithProbe creates a sampler with a custom system probe
// (for testing).
func NewSamplerWithProbe(probe SystemProbe, logger *logging.Logger, temp TempReader, gpu GPUReader, maxSamples int) *Sampler {
	return &Sampler{
		logger:    logger,
		probe:     probe,
		temp:      temp,
		gpu:       gpu,
		cpuWindow: defaultCPUWindow,
		series:    NewSeries(maxSamples),
		state:     StateIdle,
	}
}

// Start takes the initial counter read and transitions to Running.
func (s *Sampler) Start(ctx context.Context) error {
	if s.state != StateIdle {
		return ErrAlreadyStarted
	}

	snap, err := s.probe.Counters(ctx)
	if err != nil {
		return fmt.Errorf("initial counter read: %w", err)
	}

	s.prev = snap
	s.startTime = time.Now()
	s.state = StateRunning

	s.logger.Info("sampler.started", "Sampling started", map[string]interface{}{
		"temp_sensor": s.temp != nil,
		"gpu_sensor":  s.gpu != nil,
	})

	return nil
}

// Tick performs one measurement: mandatory CPU/memory/counter reads,
// rate derivation against the stored snapshot, optional sensor
// queries, and the series append. A mandatory read failure aborts with
// an error naming the subsystem; optional sensor failures degrade to
// absent fields.
func (s *Sampler) Tick(ctx context.Context) (MetricSample, error) {
	if s.state != StateRunning {
		return MetricSample{}, ErrNotRunning
	}

	cpuPct, err := s.probe.CPUPercent(ctx, s.cpuWindow)
	if err != nil {
		return MetricSample{}, err
	}
	memPct, err := s.probe.MemoryPercent(ctx)
	if err != nil {
		return MetricSample{}, err
	}
	curr, err := s.probe.Counters(ctx)
	if err != nil {
		return MetricSample{}, err
	}

	sample := MetricSample{
		Elapsed:       time.Since(s.startTime).Seconds(),
		CPUPercent:    cpuPct,
		MemoryPercent: memPct,
	}

	// The very first tick has no meaningful previous window; its
	// rates are defined as 0.
	if s.ticks > 0 {
		elapsed := curr.Taken.Sub(s.prev.Taken).Seconds()
		sample.DiskReadMBs = ratePerSecond(s.prev.DiskReadBytes, curr.DiskReadBytes, elapsed)
		sample.DiskWriteMBs = ratePerSecond(s.prev.DiskWriteBytes, curr.DiskWriteBytes, elapsed)
		sample.NetSentMBs = ratePerSecond(s.prev.NetSentBytes, curr.NetSentBytes, elapsed)
		sample.NetRecvMBs = ratePerSecond(s.prev.NetRecvBytes, curr.NetRecvBytes, elapsed)
	}
	s.prev = curr

	if s.temp != nil {
		sample.CPUTempC = s.temp.Read(ctx)
	}
	if s.gpu != nil {
		reading := s.gpu.Read(ctx)
		sample.GPUUtilPct = reading.UtilPct
		sample.GPUMemoryMB = reading.MemoryMB
		sample.GPUTempC = reading.TempC
	}

	s.series.Append(sample)
	s.ticks++

	s.logger.Debug("sampler.tick", "Collected sample", map[string]interface{}{
		"elapsed_s": sample.Elapsed,
		"cpu_pct":   sample.CPUPercent,
		"mem_pct":   sample.MemoryPercent,
		"count":     s.series.Len(),
	})

	return sample, nil
}

// Finish transitions to Completed and returns the frozen series. No
// further ticks are accepted afterwards.
func (s *Sampler) Finish() *Series {
	if s.state == StateRunning {
		s.logger.Info("sampler.finished", "Sampling complete", map[string]interface{}{
			"samples": s.series.Len(),
			"evicted": s.series.Evicted(),
		})
	}
	s.state = StateCompleted
	return s.series
}

// State returns the current lifecycle state.
func (s *Sampler) State() State {
	return s.state
}

// SampleCount returns the number of retained samples so far.
func (s *Sampler) SampleCount() int {
	return s.series.Len()
}
