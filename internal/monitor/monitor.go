package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resmon/internal/config"
	"resmon/internal/logging"
	"resmon/internal/metrics"
	"resmon/internal/report"
)

// ReportBuilder renders and writes the final report for a completed
// series.
type ReportBuilder interface {
	Build(series *metrics.Series, meta report.Metadata, name string) (string, error)
}

// Options configures a monitoring run.
type Options struct {
	Duration   time.Duration
	Interval   time.Duration
	ReportName string
}

// Progress describes how far a running session has advanced. It is
// handed to the progress callback after every sample.
type Progress struct {
	Percent   float64
	Elapsed   time.Duration
	Remaining time.Duration
	Samples   int
}

// Orchestrator drives a fixed-duration sampling session: it ticks the
// sampler on a fixed cadence, reports progress, and hands the finished
// series to the report builder exactly once.
type Orchestrator struct {
	logger   *logging.Logger
	sampler  *metrics.Sampler
	builder  ReportBuilder
	opts     Options
	progress func(Progress)
}

func New(logger *logging.Logger, sampler *metrics.Sampler, builder ReportBuilder, opts Options) *Orchestrator {
	return &Orchestrator{
		logger:  logger,
		sampler: sampler,
		builder: builder,
		opts:    opts,
	}
}

// SetProgress registers a callback invoked after every sample.
func (o *Orchestrator) SetProgress(fn func(Progress)) {
	o.progress = fn
}

func (o *Orchestrator) validate() error {
	if o.opts.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", o.opts.Duration)
	}
	if o.opts.Duration > time.Duration(config.MaxDurationSeconds)*time.Second {
		return fmt.Errorf("duration %s exceeds maximum of %d seconds", o.opts.Duration, config.MaxDurationSeconds)
	}
	if o.opts.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", o.opts.Interval)
	}
	if o.opts.ReportName == "" {
		return errors.New("report name must not be empty")
	}
	return nil
}

// Run executes the session and returns the path of the written report.
// Cancellation via ctx stops sampling early; the samples collected so
// far are still summarized and written.
func (o *Orchestrator) Run(ctx context.Context) (string, error) {
	if err := o.validate(); err != nil {
		return "", err
	}

	if err := o.sampler.Start(ctx); err != nil {
		return "", fmt.Errorf("start sampler: %w", err)
	}

	o.logger.Info("run.started", "Monitoring started", map[string]interface{}{
		"duration_s": o.opts.Duration.Seconds(),
		"interval_s": o.opts.Interval.Seconds(),
	})

	start := time.Now()
	ticker := time.NewTicker(o.opts.Interval)
	defer ticker.Stop()
	// The deadline caps the wait between ticks so a long interval can
	// never hold the run past the configured duration.
	deadline := time.NewTimer(o.opts.Duration)
	defer deadline.Stop()

	interrupted := false

loop:
	for {
		if _, err := o.sampler.Tick(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				interrupted = true
				break loop
			}
			return "", fmt.Errorf("sampling aborted: %w", err)
		}

		o.emitProgress(time.Since(start))

		if time.Since(start) >= o.opts.Duration {
			break loop
		}

		select {
		case <-ctx.Done():
			interrupted = true
			break loop
		case <-deadline.C:
			break loop
		case <-ticker.C:
		}
	}

	if interrupted {
		o.logger.Info("run.interrupted", "Monitoring interrupted, finalizing partial results", map[string]interface{}{
			"samples": o.sampler.SampleCount(),
		})
	}

	series := o.sampler.Finish()

	meta := report.Metadata{
		Duration:    o.opts.Duration,
		Interval:    o.opts.Interval,
		GeneratedAt: time.Now(),
		Interrupted: interrupted,
	}

	path, err := o.builder.Build(series, meta, o.opts.ReportName)
	if err != nil {
		return "", fmt.Errorf("build report: %w", err)
	}

	o.logger.Info("run.completed", "Monitoring completed", map[string]interface{}{
		"samples": series.Len(),
		"report":  path,
	})

	return path, nil
}

func (o *Orchestrator) emitProgress(elapsed time.Duration) {
	if o.progress == nil {
		return
	}

	percent := elapsed.Seconds() / o.opts.Duration.Seconds() * 100
	if percent > 100 {
		percent = 100
	}
	remaining := o.opts.Duration - elapsed
	if remaining < 0 {
		remaining = 0
	}

	o.progress(Progress{
		Percent:   percent,
		Elapsed:   elapsed,
		Remaining: remaining,
		Samples:   o.sampler.SampleCount(),
	})
}
