package dynamo

import (
	"runtime"
	"sync"
)

// Workers is the upper bound on goroutines used by ParallelFor.
// Values below 1 fall back to runtime.GOMAXPROCS(0).
var Workers = 0

func workerCount() int {
	if Workers >= 1 {
		return Workers
	}
	return runtime.GOMAXPROCS(0)
}

// ParallelFor executes fn over disjoint chunks covering [0, n) and waits for
// all of them. Ranges shorter than minChunk run on the calling goroutine.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}

	workers := workerCount()
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
