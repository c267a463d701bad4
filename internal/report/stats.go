package report

import (
	"math"

	"resmon/internal/metrics"
)

// FieldStats holds summary statistics for one metric field, computed
// over the samples where the field was present.
type FieldStats struct {
	Label    string
	Optional bool
	Count    int // samples where the field was present
	Absent   int // samples where an optional field was absent
	Min      float64
	Max      float64
	Mean     float64
	StdDev   float64
}

// HasData reports whether at least one value was present.
func (f FieldStats) HasData() bool {
	return f.Count > 0
}

// Summary holds the per-field statistics for a completed series, in
// report table order.
type Summary struct {
	SampleCount int
	Fields      []FieldStats
}

type fieldSpec struct {
	label    string
	optional bool
	get      func(metrics.MetricSample) *float64
}

func mandatory(get func(metrics.MetricSample) float64) func(metrics.MetricSample) *float64 {
	return func(s metrics.MetricSample) *float64 {
		v := get(s)
		return &v
	}
}

func fieldSpecs() []fieldSpec {
	return []fieldSpec{
		{"CPU Usage (%)", false, mandatory(func(s metrics.MetricSample) float64 { return s.CPUPercent })},
		{"Memory Usage (%)", false, mandatory(func(s metrics.MetricSample) float64 { return s.MemoryPercent })},
		{"Disk Read (MB/s)", false, mandatory(func(s metrics.MetricSample) float64 { return s.DiskReadMBs })},
		{"Disk Write (MB/s)", false, mandatory(func(s metrics.MetricSample) float64 { return s.DiskWriteMBs })},
		{"Network Sent (MB/s)", false, mandatory(func(s metrics.MetricSample) float64 { return s.NetSentMBs })},
		{"Network Recv (MB/s)", false, mandatory(func(s metrics.MetricSample) float64 { return s.NetRecvMBs })},
		{"CPU Temperature (°C)", true, func(s metrics.MetricSample) *float64 { return s.CPUTempC }},
		{"GPU Utilization (%)", true, func(s metrics.MetricSample) *float64 { return s.GPUUtilPct }},
		{"GPU Memory (MB)", true, func(s metrics.MetricSample) *float64 { return s.GPUMemoryMB }},
		{"GPU Temperature (°C)", true, func(s metrics.MetricSample) *float64 { return s.GPUTempC }},
	}
}

// Summarize computes summary statistics from a completed series. It is
// pure: no I/O, no mutation of the series.
func Summarize(series *metrics.Series) Summary {
	samples := series.Samples()
	summary := Summary{SampleCount: len(samples)}

	for _, spec := range fieldSpecs() {
		var values []float64
		for _, sample := range samples {
			if v := spec.get(sample); v != nil {
				values = append(values, *v)
			}
		}

		stats := FieldStats{
			Label:    spec.label,
			Optional: spec.optional,
			Count:    len(values),
			Absent:   len(samples) - len(values),
		}
		if len(values) > 0 {
			stats.Min, stats.Max, stats.Mean, stats.StdDev = describe(values)
		}

		summary.Fields = append(summary.Fields, stats)
	}

	return summary
}

// describe returns min, max, mean, and population standard deviation.
func describe(values []float64) (min, max, mean, stddev float64) {
	min = values[0]
	max = values[0]
	var sum float64
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean = sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	stddev = math.Sqrt(sq / float64(len(values)))

	return min, max, mean, stddev
}
