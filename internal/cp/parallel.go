package cp

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallelFileThreshold is the batch size at which a directory level's
// file copies move from the calling goroutine to the worker pool. Below
// it, dispatch overhead dominates the work.
const parallelFileThreshold = 8

// forEach applies fn to every item. Small batches run sequentially and
// stop at the first error. Batches of parallelFileThreshold or more fan
// out over at most workers goroutines; the first error stops new dispatch
// while already-started items run to completion. Both paths return the
// first error encountered and must produce identical results on success.
func forEach[T any](ctx context.Context, workers int, items []T, fn func(T) error) error {
	if len(items) < parallelFileThreshold {
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(item); err != nil {
				return err
			}
		}
		return nil
	}

	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		item := item // per-iteration copy for the closure under go <= 1.21 loop scoping
		g.Go(func() error { return fn(item) })
	}
	return g.Wait()
}
