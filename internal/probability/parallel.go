package probability

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Scorer computes a score for one subject. It must not mutate simulation
// state.
type Scorer[T any] func(ctx context.Context, subject T) (float64, error)

// EvaluateAll scores every subject concurrently with at most workers
// goroutines (GOMAXPROCS when workers <= 0). Results keep input order. The
// first error cancels the remaining work.
func EvaluateAll[T any](ctx context.Context, subjects []T, workers int, score Scorer[T]) ([]float64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]float64, len(subjects))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, subject := range subjects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := score(ctx, subject)
			if err != nil {
				return err
			}
			results[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
