package list

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// DefaultGrain is the size below which ParallelEach stops splitting.
const DefaultGrain = 8

// Slice is a view over a contiguous logical range of a List.
type Slice[T any] struct {
	l          *List[T]
	start, end int
}

// Len returns the number of positions in the view.
func (s Slice[T]) Len() int { return s.end - s.start }

// Get returns the element at position i of the view.
func (s Slice[T]) Get(i int) (T, bool) {
	if i < 0 || i >= s.Len() {
		var zero T
		return zero, false
	}
	return s.l.Get(s.start + i)
}

// SplitAt divides the view at mid. mid is clamped to [0, Len()].
func (s Slice[T]) SplitAt(mid int) (Slice[T], Slice[T]) {
	mid = min(max(mid, 0), s.Len())
	return Slice[T]{l: s.l, start: s.start, end: s.start + mid},
		Slice[T]{l: s.l, start: s.start + mid, end: s.end}
}

// ParallelEach calls fn for every element of the view. The view is split
// recursively down to DefaultGrain and the leaves run concurrently. fn receives
// the element's logical index in the underlying list. All errors are joined.
func (s Slice[T]) ParallelEach(ctx context.Context, fn func(i int, v T) error) error {
	return s.ParallelEachLimit(ctx, 0, fn)
}

// ParallelEachLimit is ParallelEach with at most limit concurrent leaves.
// A limit of zero or less means unbounded.
func (s Slice[T]) ParallelEachLimit(ctx context.Context, limit int, fn func(i int, v T) error) error {
	p := pool.New().WithContext(ctx)
	if limit > 0 {
		p = p.WithMaxGoroutines(limit)
	}
	s.split(p, fn)
	return p.Wait()
}

func (s Slice[T]) split(p *pool.ContextPool, fn func(int, T) error) {
	if s.Len() <= DefaultGrain {
		if s.Len() == 0 {
			return
		}
		p.Go(func(ctx context.Context) error {
			for i := range s.Len() {
				if err := ctx.Err(); err != nil {
					return err
				}
				v, ok := s.Get(i)
				if !ok {
					continue
				}
				if err := fn(s.start+i, v); err != nil {
					return err
				}
			}
			return nil
		})
		return
	}
	left, right := s.SplitAt(s.Len() / 2)
	left.split(p, fn)
	right.split(p, fn)
}
