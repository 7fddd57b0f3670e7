// Package list provides an append-only list that accepts concurrent pushes
// and supports a logical reordering without moving stored elements.
package list

import (
	"iter"
	"math/bits"
	"slices"
	"sync"
	"sync/atomic"
)

const (
	firstBucketBits = 5
	firstBucketSize = 1 << firstBucketBits
	numBuckets      = 64 - firstBucketBits
)

type slot[T any] struct {
	v     T
	ready atomic.Bool
}

type bucket[T any] struct {
	slots []slot[T]
}

// List is a concurrent append-only sequence. Stored elements never move: the
// storage index returned by Push stays valid for the list's lifetime. SortBy
// installs a permutation that redirects logical indices.
//
// The zero List is ready to use. A List must not be copied after first use.
type List[T any] struct {
	buckets  [numBuckets]atomic.Pointer[bucket[T]]
	reserved atomic.Int64

	mu    sync.RWMutex
	order []int
}

// New returns an empty list.
func New[T any]() *List[T] { return &List[T]{} }

// From returns a list holding vs in order.
func From[T any](vs ...T) *List[T] {
	l := New[T]()
	for _, v := range vs {
		l.Push(v)
	}
	return l
}

func locate(i int) (b, off int) {
	pos := uint64(i) + firstBucketSize
	b = bits.Len64(pos) - 1 - firstBucketBits
	off = int(pos - (uint64(1) << (b + firstBucketBits)))
	return b, off
}

func (l *List[T]) bucketFor(b int) *bucket[T] {
	if bk := l.buckets[b].Load(); bk != nil {
		return bk
	}
	fresh := &bucket[T]{slots: make([]slot[T], firstBucketSize<<b)}
	if l.buckets[b].CompareAndSwap(nil, fresh) {
		return fresh
	}
	return l.buckets[b].Load()
}

// Push appends v and returns its storage index.
func (l *List[T]) Push(v T) int {
	i := int(l.reserved.Add(1) - 1)
	b, off := locate(i)
	s := &l.bucketFor(b).slots[off]
	s.v = v
	s.ready.Store(true)
	return i
}

func (l *List[T]) load(storage int) (T, bool) {
	var zero T
	if storage < 0 || int64(storage) >= l.reserved.Load() {
		return zero, false
	}
	b, off := locate(storage)
	bk := l.buckets[b].Load()
	if bk == nil {
		return zero, false
	}
	s := &bk.slots[off]
	if !s.ready.Load() {
		return zero, false
	}
	return s.v, true
}

// Get returns the element at logical index i. It reports false when i is out
// of range or the element has not finished being pushed.
func (l *List[T]) Get(i int) (T, bool) {
	if i < 0 {
		var zero T
		return zero, false
	}
	l.mu.RLock()
	storage := i
	if i < len(l.order) {
		storage = l.order[i]
	}
	l.mu.RUnlock()
	return l.load(storage)
}

// Len returns the number of pushed elements. It never decreases.
func (l *List[T]) Len() int { return int(l.reserved.Load()) }

// committed returns the length of the fully written prefix.
func (l *List[T]) committed() int {
	n := l.Len()
	for i := range n {
		if _, ok := l.load(i); !ok {
			return i
		}
	}
	return n
}

// SortBy reorders the committed prefix with a stable sort. Elements pushed
// later are visited after the sorted prefix, in storage order.
func (l *List[T]) SortBy(cmp func(a, b T) int) {
	n := l.committed()
	vals := make([]T, n)
	perm := make([]int, n)
	for i := range n {
		vals[i], _ = l.load(i)
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int { return cmp(vals[a], vals[b]) })

	l.mu.Lock()
	l.order = perm
	l.mu.Unlock()
}

// All iterates the committed elements in logical order.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		n := l.Len()
		for i := range n {
			v, ok := l.Get(i)
			if !ok {
				continue
			}
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values collects the committed elements in logical order.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.Len())
	for _, v := range l.All() {
		out = append(out, v)
	}
	return out
}

// Slice returns a view over the logical range [0, Len()).
func (l *List[T]) Slice() Slice[T] {
	return Slice[T]{l: l, start: 0, end: l.Len()}
}
