// Package metadata implements the concurrent key/value store attached to every
// content item.
package metadata

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// Well-known keys written by the content pipeline.
const (
	KeyURL         = "url"
	KeyPermapath   = "permapath"
	KeyTemplate    = "template"
	KeySlug        = "slug"
	KeySourcePath  = "source_path"
	KeyFileStem    = "file_stem"
	KeyPosition    = "position"
	KeyDraft       = "draft"
	KeyContent     = "content"
	KeyData        = "data"
	KeyTOC         = "toc"
	KeySnippet     = "snippet"
	KeyParts       = "parts"
	KeyFingerprint = "fingerprint"
)

// ErrMissingKey is returned when a typed read finds no value.
var ErrMissingKey = errors.New("attempted to read nonexistent metadata key")

// TypeError reports a value whose kind does not match the key's type.
type TypeError struct {
	Key      string
	Expected string
	Actual   value.Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("unexpected metadata value type: key %q expected %s, found %s", e.Key, e.Expected, e.Actual)
}

// ObjectError is returned by Write when the value is not a dict.
type ObjectError struct {
	Actual value.Kind
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("expected value to be an object, found %s", e.Actual)
}

// Metadata is a concurrent string to value map. It is always used by
// pointer; copies of an item share the same store.
type Metadata struct {
	m sync.Map
	n atomic.Int64
}

// New returns an empty store.
func New() *Metadata { return &Metadata{} }

// FromDict returns a store holding the entries of d.
func FromDict(d value.Dict) *Metadata {
	m := New()
	for k, v := range d {
		m.Insert(k, v)
	}
	return m
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (value.Value, bool) {
	v, ok := m.m.Load(key)
	if !ok {
		return value.Value{}, false
	}
	return v.(value.Value), true
}

// Contains reports whether key is present.
func (m *Metadata) Contains(key string) bool {
	_, ok := m.m.Load(key)
	return ok
}

// Len returns the number of keys.
func (m *Metadata) Len() int { return int(m.n.Load()) }

// Keys returns the present keys in sorted order.
func (m *Metadata) Keys() []string {
	var keys []string
	m.m.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	slices.Sort(keys)
	return keys
}

// Insert stores v under key and returns the previous value, if any.
func (m *Metadata) Insert(key string, v value.Value) (value.Value, bool) {
	prev, loaded := m.m.Swap(key, v)
	if !loaded {
		m.n.Add(1)
		return value.Value{}, false
	}
	return prev.(value.Value), true
}

// GetOrInsertWith returns the value under key, inserting the result of fn when
// the key is absent. When callers race, exactly one inserted value survives
// and every caller observes it. fn may run more than once.
func (m *Metadata) GetOrInsertWith(key string, fn func() value.Value) value.Value {
	if v, ok := m.m.Load(key); ok {
		return v.(value.Value)
	}
	actual, loaded := m.m.LoadOrStore(key, fn())
	if !loaded {
		m.n.Add(1)
	}
	return actual.(value.Value)
}

// Remove deletes key and returns the value it held.
func (m *Metadata) Remove(key string) (value.Value, bool) {
	v, ok := m.m.LoadAndDelete(key)
	if !ok {
		return value.Value{}, false
	}
	m.n.Add(-1)
	return v.(value.Value), true
}

// Merge inserts every entry of d, one insert per pair.
func (m *Metadata) Merge(d value.Dict) {
	for _, k := range d.Keys() {
		m.Insert(k, d[k])
	}
}

// Write merges a dict value into the store. Any other kind is rejected.
func (m *Metadata) Write(v value.Value) error {
	d, ok := v.AsDict()
	if !ok {
		return &ObjectError{Actual: v.Kind()}
	}
	m.Merge(d)
	return nil
}

// Snapshot returns a point-in-time copy of the store.
func (m *Metadata) Snapshot() value.Dict {
	d := value.Dict{}
	m.m.Range(func(k, v any) bool {
		d[k.(string)] = v.(value.Value)
		return true
	})
	return d
}

var _ value.Sink = (*Metadata)(nil)
