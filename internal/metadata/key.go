package metadata

import (
	"errors"

	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// Key is a typed view of one metadata entry. Decode converts a stored value to
// T and reports false on a kind mismatch.
type Key[T any] struct {
	Name     string
	Expected string
	Decode   func(value.Value) (T, bool)
	Encode   func(T) value.Value
}

// Get reads k from m.
func Get[T any](m *Metadata, k Key[T]) (T, error) {
	var zero T
	v, ok := m.Get(k.Name)
	if !ok {
		return zero, ErrMissingKey
	}
	out, ok := k.Decode(v)
	if !ok {
		return zero, &TypeError{Key: k.Name, Expected: k.Expected, Actual: v.Kind()}
	}
	return out, nil
}

// Lookup reads k from m, treating a missing key as absent rather than an
// error. Type mismatches are still reported.
func Lookup[T any](m *Metadata, k Key[T]) (T, bool, error) {
	out, err := Get(m, k)
	switch {
	case err == nil:
		return out, true, nil
	case errors.Is(err, ErrMissingKey):
		return out, false, nil
	default:
		return out, false, err
	}
}

// Set stores v under k and returns the previous raw value.
func Set[T any](m *Metadata, k Key[T], v T) (value.Value, bool) {
	return m.Insert(k.Name, k.Encode(v))
}

// GetOrSet returns the value under k, inserting fn's result if absent.
func GetOrSet[T any](m *Metadata, k Key[T], fn func() T) (T, error) {
	v := m.GetOrInsertWith(k.Name, func() value.Value { return k.Encode(fn()) })
	out, ok := k.Decode(v)
	if !ok {
		var zero T
		return zero, &TypeError{Key: k.Name, Expected: k.Expected, Actual: v.Kind()}
	}
	return out, nil
}

// KeySink is a value.Sink that stores every written value under one key.
type KeySink struct {
	M   *Metadata
	Key string
}

func (s KeySink) Write(v value.Value) error {
	s.M.Insert(s.Key, v)
	return nil
}

// StringKey returns a key holding a string.
func StringKey(name string) Key[string] {
	return Key[string]{
		Name:     name,
		Expected: value.KindString.String(),
		Decode:   func(v value.Value) (string, bool) { return v.AsString() },
		Encode:   value.String,
	}
}

// PathKey returns a key holding a path.
func PathKey(name string) Key[string] {
	return Key[string]{
		Name:     name,
		Expected: value.KindPath.String(),
		Decode:   func(v value.Value) (string, bool) { return v.AsPath() },
		Encode:   value.Path,
	}
}

// BoolKey returns a key holding a boolean.
func BoolKey(name string) Key[bool] {
	return Key[bool]{
		Name:     name,
		Expected: value.KindBool.String(),
		Decode:   func(v value.Value) (bool, bool) { return v.AsBool() },
		Encode:   value.Bool,
	}
}

// IntKey returns a key holding an integer that fits in int64.
func IntKey(name string) Key[int64] {
	return Key[int64]{
		Name:     name,
		Expected: value.KindNumber.String(),
		Decode: func(v value.Value) (int64, bool) {
			n, ok := v.AsNumber()
			if !ok {
				return 0, false
			}
			return n.Int64()
		},
		Encode: func(i int64) value.Value { return value.Int(i) },
	}
}

// Typed accessors for the well-known keys.
var (
	URL         = StringKey(KeyURL)
	Permapath   = PathKey(KeyPermapath)
	Template    = PathKey(KeyTemplate)
	Slug        = StringKey(KeySlug)
	SourcePath  = PathKey(KeySourcePath)
	FileStem    = StringKey(KeyFileStem)
	Position    = IntKey(KeyPosition)
	Draft       = BoolKey(KeyDraft)
	Content     = StringKey(KeyContent)
	Snippet     = StringKey(KeySnippet)
	Fingerprint = StringKey(KeyFingerprint)
)
