package metrics

// bytesPerMB is the fixed conversion applied to raw byte counters.
// Rate unit conversion happens here and nowhere else.
const bytesPerMB = 1024 * 1024

// ratePerSecond converts two cumulative byte counter readings and an
// elapsed time into a non-negative MB/s rate. A counter decrease
// (reset or wrap) yields 0 rather than a negative rate.
func ratePerSecond(prev, curr uint64, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	if curr < prev {
		return 0
	}
	return float64(curr-prev) / bytesPerMB / elapsedSeconds
}
