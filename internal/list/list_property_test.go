package list

import (
	"cmp"
	"slices"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestListProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4242)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("concurrent pushes keep every element exactly once", prop.ForAll(
		func(goroutines, perGoroutine int) bool {
			l := New[int]()
			indices := make([][]int, goroutines)
			var wg sync.WaitGroup
			for g := range goroutines {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := range perGoroutine {
						indices[g] = append(indices[g], l.Push(g*perGoroutine+i))
					}
				}()
			}
			wg.Wait()

			if l.Len() != goroutines*perGoroutine {
				return false
			}
			// Storage indices are stable: the element is where Push said.
			for g, idx := range indices {
				for i, at := range idx {
					v, ok := l.Get(at)
					if !ok || v != g*perGoroutine+i {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 8),
		gen.IntRange(1, 200),
	))

	properties.Property("sort yields a sorted permutation", prop.ForAll(
		func(vs []int) bool {
			l := From(vs...)
			l.SortBy(cmp.Compare[int])
			want := slices.Clone(vs)
			slices.Sort(want)
			return slices.Equal(want, l.Values()) && l.Len() == len(vs)
		},
		gen.SliceOf(gen.IntRange(-1000, 1000)),
	))

	properties.Property("length only grows across sorts", prop.ForAll(
		func(a, b []int) bool {
			l := From(a...)
			l.SortBy(cmp.Compare[int])
			before := l.Len()
			for _, v := range b {
				l.Push(v)
			}
			got := l.Values()
			return l.Len() == before+len(b) && slices.Equal(got[before:], b)
		},
		gen.SliceOf(gen.Int()),
		gen.SliceOf(gen.Int()),
	))

	properties.TestingRun(t)
}
