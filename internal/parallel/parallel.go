// Package parallel splits index ranges across a bounded set of goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers returns n, or the number of CPUs when n < 1.
func Workers(n int) int {
	if n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Range splits [0, n) into at most workers contiguous chunks and calls fn
// on each. With one worker, fn runs on the calling goroutine. The first
// error returned by fn is returned once every chunk has finished.
func Range(n, workers int, fn func(lo, hi int) error) error {
	workers = min(Workers(workers), n)
	if workers <= 1 {
		return fn(0, n)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	size := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
