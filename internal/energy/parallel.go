package energy

import (
	"runtime"
	"sync"
)

// parallelSum splits [0,n) into contiguous chunks, one per worker up to
// GOMAXPROCS, and sums body(i) over each chunk concurrently (spec.md §5:
// "data-parallel summation ... a parallel reduction over a disjoint index
// space is sound" for G2G/G2All, replacing the original's OpenMP loop per
// spec.md §9). Below parallelThreshold the sum runs inline on the calling
// goroutine — launching workers for a handful of pairs would cost more than
// it saves, and the single-threaded path must stay semantically identical
// to the parallel one.
//
// Callers must guarantee body is read-only with respect to trial/commit
// state: parallelSum never runs while a move is still mutating Particles
// (spec.md §5 ordering guarantee).
const parallelThreshold = 256

func parallelSum(n int, body func(i int) float64) float64 {
	if n <= 0 {
		return 0
	}
	if n < parallelThreshold {
		total := 0.0
		for i := 0; i < n; i++ {
			total += body(i)
		}
		return total
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (n + workers - 1) / workers
	partials := make([]float64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			sum := 0.0
			for i := lo; i < hi; i++ {
				sum += body(i)
			}
			partials[w] = sum
		}(w, lo, hi)
	}
	wg.Wait()

	total := 0.0
	for _, p := range partials {
		total += p
	}
	return total
}
