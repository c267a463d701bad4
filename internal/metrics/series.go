package metrics

// Series is the ordered, append-only collection of samples for one
// run. Insertion order is chronological order. It is owned exclusively
// by the running Sampler and needs no locking; after Finish it is
// read-only.
//
// An optional capacity bounds memory for long runs: when set, the
// oldest sample is evicted on append and the early history is lost.
type Series struct {
	samples    []MetricSample
	maxSamples int
	evicted    int
}

// NewSeries creates a series. maxSamples of 0 means unbounded.
func NewSeries(maxSamples int) *Series {
	return &Series{
		samples:    make([]MetricSample, 0),
		maxSamples: maxSamples,
	}
}

// Append adds a sample, evicting the oldest one when the series is at
// capacity.
func (s *Series) Append(sample MetricSample) {
	if s.maxSamples > 0 && len(s.samples) >= s.maxSamples {
		s.samples = s.samples[1:]
		s.evicted++
	}
	s.samples = append(s.samples, sample)
}

// Len returns the number of retained samples.
func (s *Series) Len() int {
	return len(s.samples)
}

// Samples returns the retained samples in chronological order. The
// returned slice is a read-only view; callers must not mutate it.
func (s *Series) Samples() []MetricSample {
	return s.samples
}

// Evicted returns how many old samples were dropped to honor the
// capacity bound.
func (s *Series) Evicted() int {
	return s.evicted
}
