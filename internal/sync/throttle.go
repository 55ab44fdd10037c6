package sync

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Outcome is the settled result of one throttled operation: either a value
// or an error, never both meaningful at once.
type Outcome[T any] struct {
	Value T
	Err   error
}

// throttleAll runs the given operations with at most limit in flight and
// returns one settled outcome per input, in input order regardless of
// completion order. One operation's failure never aborts its siblings;
// every failure is logged here so callers that ignore individual errors
// don't lose visibility.
func throttleAll[T any](ctx context.Context, limit int, label string, ops []func(ctx context.Context) (T, error)) []Outcome[T] {
	if limit < 1 {
		limit = 1
	}

	sem := semaphore.NewWeighted(int64(limit))
	out := make([]Outcome[T], len(ops))

	var wg sync.WaitGroup
	for i, op := range ops {
		if err := sem.Acquire(ctx, 1); err != nil {
			// context cancelled; settle the remaining slots as rejected
			out[i] = Outcome[T]{Err: err}
			continue
		}

		wg.Add(1)
		go func(i int, op func(ctx context.Context) (T, error)) {
			defer wg.Done()
			defer sem.Release(1)

			value, err := op(ctx)
			if err != nil {
				slog.Debug("throttled op failed", "op", label, "index", i, "error", err)
			}
			out[i] = Outcome[T]{Value: value, Err: err}
		}(i, op)
	}
	wg.Wait()

	return out
}
