package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const DefaultLimit = 8

// Pool bounds how many fetches run at once.
type Pool struct {
	limit int
}

func New(limit int) *Pool {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Pool{limit: limit}
}

func (p *Pool) Limit() int {
	return p.limit
}

// Run calls fn for every index in [0, n) with at most Limit calls in
// flight and returns the error of each call at its index.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	return Run(ctx, p.limit, n, fn)
}

// Run is the pool-less form of Pool.Run. A failing call never cancels the
// others; calls not yet started when ctx is done record ctx's error.
func Run(ctx context.Context, limit, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	if n <= 0 {
		return errs
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

// Count returns how many entries of errs are non-nil.
func Count(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}
