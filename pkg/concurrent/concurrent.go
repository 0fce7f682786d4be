package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MapOrdered applies fn to every element using at most workers goroutines and
// returns the results in input order. The first error cancels ctx for the
// remaining calls and is returned.
func MapOrdered[T any, R any](ctx context.Context, in []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]R, len(in))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for idx, value := range in {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, value)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Settle is MapOrdered without short-circuiting: every element is processed
// and each result carries its own error.
func Settle[T any, R any](ctx context.Context, in []T, workers int, fn func(context.Context, T) (R, error)) []Result[R] {
	if workers < 1 {
		workers = 1
	}
	out := make([]Result[R], len(in))
	g := errgroup.Group{}
	g.SetLimit(workers)

	for idx, value := range in {
		g.Go(func() error {
			r, err := fn(ctx, value)
			out[idx] = Result[R]{Value: r, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

type Result[R any] struct {
	Value R
	Err   error
}
