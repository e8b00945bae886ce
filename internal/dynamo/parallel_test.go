package dynamo

import (
	"sync"
	"testing"
)

func TestParallelForCoversEachIndexOnce(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		minChunk int
		workers  int
	}{
		{"empty", 0, 4, 4},
		{"negative", -3, 4, 4},
		{"below min chunk", 3, 8, 4},
		{"equal to min chunk", 8, 8, 4},
		{"more workers than rows", 5, 1, 16},
		{"uneven split", 103, 4, 6},
		{"single worker", 64, 1, 1},
		{"zero min chunk", 10, 0, 3},
		{"default workers", 257, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Workers
			defer func() { Workers = prev }()
			Workers = tt.workers

			size := tt.n
			if size < 0 {
				size = 0
			}
			hits := make([]int, size)
			var mu sync.Mutex
			calls := 0
			ParallelFor(tt.n, tt.minChunk, func(start, end int) {
				mu.Lock()
				calls++
				mu.Unlock()
				if start < 0 || end > size || start >= end {
					t.Errorf("bad chunk [%d,%d) for n=%d", start, end, tt.n)
					return
				}
				for i := start; i < end; i++ {
					hits[i]++
				}
			})

			for i, h := range hits {
				if h != 1 {
					t.Errorf("index %d visited %d times", i, h)
				}
			}
			if size == 0 && calls != 0 {
				t.Errorf("expected no calls for n=%d, got %d", tt.n, calls)
			}
			if tt.workers > 0 && calls > tt.workers {
				t.Errorf("%d chunks exceed %d workers", calls, tt.workers)
			}
		})
	}
}

func TestParallelForSmallRangeStaysInline(t *testing.T) {
	prev := Workers
	defer func() { Workers = prev }()
	Workers = 8

	calls := 0
	ParallelFor(6, 10, func(start, end int) {
		calls++
		if start != 0 || end != 6 {
			t.Errorf("expected one chunk [0,6), got [%d,%d)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("expected a single inline call, got %d", calls)
	}
}
