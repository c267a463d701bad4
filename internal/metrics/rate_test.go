package metrics

import (
	"testing"
)

func TestRatePerSecond(t *testing.T) {
	tests := []struct {
		name    string
		prev    uint64
		curr    uint64
		elapsed float64
		want    float64
	}{
		{
			name:    "one MB over one second",
			prev:    0,
			curr:    bytesPerMB,
			elapsed: 1,
			want:    1,
		},
		{
			name:    "ten MB over two seconds",
			prev:    5 * bytesPerMB,
			curr:    15 * bytesPerMB,
			elapsed: 2,
			want:    5,
		},
		{
			name:    "no change",
			prev:    100,
			curr:    100,
			elapsed: 1,
			want:    0,
		},
		{
			name:    "counter decrease clamps to zero",
			prev:    10 * bytesPerMB,
			curr:    2 * bytesPerMB,
			elapsed: 1,
			want:    0,
		},
		{
			name:    "zero elapsed yields zero",
			prev:    0,
			curr:    bytesPerMB,
			elapsed: 0,
			want:    0,
		},
		{
			name:    "negative elapsed yields zero",
			prev:    0,
			curr:    bytesPerMB,
			elapsed: -1,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ratePerSecond(tt.prev, tt.curr, tt.elapsed)
			if got != tt.want {
				t.Errorf("ratePerSecond(%d, %d, %v) = %v, want %v", tt.prev, tt.curr, tt.elapsed, got, tt.want)
			}
			if got < 0 {
				t.Errorf("rate must never be negative, got %v", got)
			}
		})
	}
}
