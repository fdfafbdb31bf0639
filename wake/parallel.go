package wake

import (
	"errors"
	"runtime"
	"sync"
)

// parallelThreshold is the minimum field-point count to fan work out
// across workers. Below this, single-threaded is faster than the
// goroutine overhead.
const parallelThreshold = 64

// forEachChunk runs fn over [0, n) split into contiguous chunks, one
// per worker. Each chunk owns a disjoint range of influence rows, so fn
// may scatter-add freely within its range without synchronization.
func forEachChunk(n int, fn func(start, end int) error) error {
	if n < parallelThreshold {
		return fn(0, n)
	}

	numWorkers := runtime.GOMAXPROCS(0)
	chunkSize := (n + numWorkers - 1) / numWorkers
	errs := make([]error, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			errs[w] = fn(start, end)
		}(w, start, end)
	}
	wg.Wait()

	return errors.Join(errs...)
}
