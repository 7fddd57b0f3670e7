package value

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindPath
	KindArray
	KindDict
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "boolean",
	KindNumber: "number",
	KindString: "string",
	KindPath:   "path",
	KindArray:  "array",
	KindDict:   "dict",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Dict is a string-keyed dictionary of values. Range over Keys for a stable order.
type Dict map[string]Value

// Keys returns the dictionary keys in sorted order.
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Value is a closed dynamic value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    Number
	s    string
	arr  []Value
	dict Dict
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a signed number value.
func Int[T Signed](v T) Value { return Value{kind: KindNumber, n: IntNumber(v)} }

// Uint returns an unsigned number value.
func Uint[T Unsigned](v T) Value { return Value{kind: KindNumber, n: UintNumber(v)} }

// Num wraps a Number.
func Num(n Number) Value { return Value{kind: KindNumber, n: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Path returns a path value. The path is cleaned; invalid UTF-8 sequences are
// replaced with U+FFFD. Use ParsePath to reject them instead.
func Path(p string) Value {
	return Value{kind: KindPath, s: filepath.Clean(strings.ToValidUTF8(p, "�"))}
}

// ParsePath returns a path value or an error if p is not valid UTF-8.
func ParsePath(p string) (Value, error) {
	if !utf8.ValidString(p) {
		return Value{}, fmt.Errorf("path %q is not valid UTF-8", p)
	}
	return Value{kind: KindPath, s: filepath.Clean(p)}, nil
}

// Array returns an array value holding vs.
func Array(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindArray, arr: vs}
}

// Strings returns an array of string values.
func Strings(ss []string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Array(vs...)
}

// DictOf returns a dict value. A nil map yields an empty dict.
func DictOf(d Dict) Value {
	if d == nil {
		d = Dict{}
	}
	return Value{kind: KindDict, dict: d}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload.
func (v Value) AsNumber() (Number, bool) { return v.n, v.kind == KindNumber }

// AsString returns the payload of a string value.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsPath returns the payload of a path value.
func (v Value) AsPath() (string, bool) { return v.s, v.kind == KindPath }

// AsText returns the payload of a string or path value.
func (v Value) AsText() (string, bool) {
	return v.s, v.kind == KindString || v.kind == KindPath
}

// AsArray returns the elements of an array value.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsDict returns the entries of a dict value.
func (v Value) AsDict() (Dict, bool) { return v.dict, v.kind == KindDict }

// Get looks up key in a dict value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindDict {
		return Value{}, false
	}
	x, ok := v.dict[key]
	return x, ok
}

// Compare orders values first by kind, then by payload.
func Compare(a, b Value) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	switch a.kind {
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	case KindNumber:
		return a.n.Compare(b.n)
	case KindString, KindPath:
		return strings.Compare(a.s, b.s)
	case KindArray:
		return slices.CompareFunc(a.arr, b.arr, Compare)
	case KindDict:
		ak, bk := a.dict.Keys(), b.dict.Keys()
		for i := 0; i < len(ak) && i < len(bk); i++ {
			if c := strings.Compare(ak[i], bk[i]); c != 0 {
				return c
			}
			if c := Compare(a.dict[ak[i]], b.dict[bk[i]]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(ak), len(bk))
	}
	return 0
}

// Equal reports whether a and b hold the same value.
func Equal(a, b Value) bool { return Compare(a, b) == 0 }

// String renders v for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.n.String()
	case KindString:
		return v.s
	case KindPath:
		return v.s
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, x := range v.arr {
			parts[i] = x.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDict:
		keys := v.dict.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.dict[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

// Width-specific constructors.

func Int8(v int8) Value     { return Int(v) }
func Int16(v int16) Value   { return Int(v) }
func Int32(v int32) Value   { return Int(v) }
func Int64(v int64) Value   { return Int(v) }
func Uint8(v uint8) Value   { return Uint(v) }
func Uint16(v uint16) Value { return Uint(v) }
func Uint32(v uint32) Value { return Uint(v) }
func Uint64(v uint64) Value { return Uint(v) }
