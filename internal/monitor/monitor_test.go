package monitor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"resmon/internal/logging"
	"resmon/internal/metrics"
	"resmon/internal/report"
)

type fakeProbe struct {
	mu       sync.Mutex
	calls    int
	cpuErr   error
	errAfter int // succeed this many CPUPercent calls before failing
}

func (p *fakeProbe) CPUPercent(ctx context.Context, window time.Duration) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.cpuErr != nil && (p.errAfter == 0 || p.calls > p.errAfter) {
		return 0, p.cpuErr
	}
	return 25.0, nil
}

func (p *fakeProbe) MemoryPercent(ctx context.Context) (float64, error) {
	return 60.0, nil
}

func (p *fakeProbe) Counters(ctx context.Context) (metrics.CounterSnapshot, error) {
	return metrics.CounterSnapshot{Taken: time.Now()}, nil
}

type fakeBuilder struct {
	mu     sync.Mutex
	calls  int
	series *metrics.Series
	meta   report.Metadata
	name   string
	err    error
}

func (b *fakeBuilder) Build(series *metrics.Series, meta report.Metadata, name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.series = series
	b.meta = meta
	b.name = name
	if b.err != nil {
		return "", b.err
	}
	return "/tmp/reports/" + name, nil
}

func testLogger() *logging.Logger {
	logger := logging.NewLogger(logging.LevelError)
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func newTestOrchestrator(probe *fakeProbe, builder *fakeBuilder, opts Options) *Orchestrator {
	logger := testLogger()
	sampler := metrics.NewSamplerWithProbe(probe, logger, nil, nil, 0)
	return New(logger, sampler, builder, opts)
}

func TestRunCollectsAndBuildsOnce(t *testing.T) {
	builder := &fakeBuilder{}
	o := newTestOrchestrator(&fakeProbe{}, builder, Options{
		Duration:   80 * time.Millisecond,
		Interval:   20 * time.Millisecond,
		ReportName: "run.pdf",
	})

	path, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasSuffix(path, "run.pdf") {
		t.Errorf("path = %q, want run.pdf suffix", path)
	}

	if builder.calls != 1 {
		t.Errorf("builder called %d times, want 1", builder.calls)
	}
	if builder.name != "run.pdf" {
		t.Errorf("builder name = %q, want run.pdf", builder.name)
	}
	if builder.series.Len() < 2 {
		t.Errorf("series has %d samples, want at least 2", builder.series.Len())
	}
	if builder.meta.Interrupted {
		t.Error("meta.Interrupted = true for a full run")
	}
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"zero duration", Options{Interval: time.Second, ReportName: "r"}, "duration"},
		{"negative duration", Options{Duration: -time.Second, Interval: time.Second, ReportName: "r"}, "duration"},
		{"excessive duration", Options{Duration: 50 * 3600 * time.Second, Interval: time.Second, ReportName: "r"}, "maximum"},
		{"zero interval", Options{Duration: time.Second, ReportName: "r"}, "interval"},
		{"empty report name", Options{Duration: time.Second, Interval: time.Second}, "report name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := &fakeBuilder{}
			o := newTestOrchestrator(&fakeProbe{}, builder, tt.opts)

			_, err := o.Run(context.Background())
			if err == nil {
				t.Fatal("Run succeeded, want validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if builder.calls != 0 {
				t.Errorf("builder called %d times before validation, want 0", builder.calls)
			}
		})
	}
}

func TestRunIntervalLongerThanDuration(t *testing.T) {
	// A single sample is still a valid run, and the hour-long interval
	// must not hold the run past the 10ms duration.
	builder := &fakeBuilder{}
	o := newTestOrchestrator(&fakeProbe{}, builder, Options{
		Duration:   10 * time.Millisecond,
		Interval:   time.Hour,
		ReportName: "short.pdf",
	})

	done := make(chan error, 1)
	go func() {
		_, err := o.Run(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return; still waiting on the interval ticker")
	}

	if builder.series.Len() != 1 {
		t.Errorf("series has %d samples, want exactly 1", builder.series.Len())
	}
	if builder.meta.Interrupted {
		t.Error("meta.Interrupted = true for a run that hit its deadline")
	}
}

func TestRunStopsNearDeadline(t *testing.T) {
	// The last wait is capped by the remaining duration, so the run
	// may not overshoot by anywhere near a full interval.
	builder := &fakeBuilder{}
	o := newTestOrchestrator(&fakeProbe{}, builder, Options{
		Duration:   50 * time.Millisecond,
		Interval:   40 * time.Millisecond,
		ReportName: "run.pdf",
	})

	start := time.Now()
	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed >= 80*time.Millisecond {
		t.Errorf("Run took %v, want under 80ms for a 50ms duration", elapsed)
	}
	if builder.series.Len() < 2 {
		t.Errorf("series has %d samples, want at least 2", builder.series.Len())
	}
}

func TestRunCancellationFinalizesPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	builder := &fakeBuilder{}
	o := newTestOrchestrator(&fakeProbe{}, builder, Options{
		Duration:   time.Hour,
		Interval:   10 * time.Millisecond,
		ReportName: "partial.pdf",
	})

	var once sync.Once
	o.SetProgress(func(p Progress) {
		once.Do(cancel)
	})

	path, err := o.Run(ctx)
	if err != nil {
		t.Fatalf("Run after cancellation: %v", err)
	}
	if path == "" {
		t.Fatal("Run returned empty path")
	}

	if builder.calls != 1 {
		t.Errorf("builder called %d times, want 1", builder.calls)
	}
	if !builder.meta.Interrupted {
		t.Error("meta.Interrupted = false after cancellation")
	}
	if builder.series.Len() < 1 {
		t.Errorf("series has %d samples, want at least 1", builder.series.Len())
	}
}

func TestRunMandatoryFailureAborts(t *testing.T) {
	builder := &fakeBuilder{}
	probe := &fakeProbe{cpuErr: errors.New("cpu percent: probe exploded"), errAfter: 2}
	o := newTestOrchestrator(probe, builder, Options{
		Duration:   time.Hour,
		Interval:   10 * time.Millisecond,
		ReportName: "broken.pdf",
	})

	_, err := o.Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded despite mandatory read failure")
	}
	if !strings.Contains(err.Error(), "cpu percent") {
		t.Errorf("error %q does not name the failing subsystem", err)
	}
	if builder.calls != 0 {
		t.Errorf("builder called %d times after abort, want 0", builder.calls)
	}
}

func TestRunBuilderFailureSurfaces(t *testing.T) {
	builder := &fakeBuilder{err: errors.New("disk full")}
	o := newTestOrchestrator(&fakeProbe{}, builder, Options{
		Duration:   20 * time.Millisecond,
		Interval:   10 * time.Millisecond,
		ReportName: "run.pdf",
	})

	_, err := o.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Run = %v, want builder error", err)
	}
}

func TestRunProgressAdvances(t *testing.T) {
	builder := &fakeBuilder{}
	o := newTestOrchestrator(&fakeProbe{}, builder, Options{
		Duration:   60 * time.Millisecond,
		Interval:   15 * time.Millisecond,
		ReportName: "run.pdf",
	})

	var mu sync.Mutex
	var updates []Progress
	o.SetProgress(func(p Progress) {
		mu.Lock()
		updates = append(updates, p)
		mu.Unlock()
	})

	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(updates) < 2 {
		t.Fatalf("got %d progress updates, want at least 2", len(updates))
	}
	for i, p := range updates {
		if p.Percent < 0 || p.Percent > 100 {
			t.Errorf("update %d: percent %v out of range", i, p.Percent)
		}
		if p.Remaining < 0 {
			t.Errorf("update %d: negative remaining %v", i, p.Remaining)
		}
		if p.Samples != i+1 {
			t.Errorf("update %d: samples = %d, want %d", i, p.Samples, i+1)
		}
		if i > 0 && p.Elapsed < updates[i-1].Elapsed {
			t.Errorf("update %d: elapsed went backwards", i)
		}
	}
}
