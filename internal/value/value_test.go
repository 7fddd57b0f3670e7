package value

import (
	"encoding/json"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKindNames(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Bool(true), "boolean"},
		{Int(3), "number"},
		{String("x"), "string"},
		{Path("a/b"), "path"},
		{Array(), "array"},
		{DictOf(nil), "dict"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.v.Kind().String())
	}
}

func TestNumbersCompareByValue(t *testing.T) {
	require.True(t, Equal(Int(10), Uint(10)))
	require.True(t, Equal(Int8(-1), Int64(-1)))
	require.Negative(t, Compare(Int(-1), Uint(0)))
	require.Negative(t, Compare(Int64(math.MinInt64), Int8(-128)))
	require.Positive(t, Compare(Uint64(math.MaxUint64), Int64(math.MaxInt64)))
	require.Negative(t, Compare(Int(-5), Int(-4)))
}

func TestCompareOrdersByKindFirst(t *testing.T) {
	vs := []Value{
		DictOf(Dict{"a": Int(1)}),
		Array(Int(1)),
		Path("z"),
		String("a"),
		Uint(0),
		Bool(false),
		Null(),
	}
	slices.SortFunc(vs, Compare)
	kinds := make([]Kind, len(vs))
	for i, v := range vs {
		kinds[i] = v.Kind()
	}
	require.Equal(t, []Kind{KindNull, KindBool, KindNumber, KindString, KindPath, KindArray, KindDict}, kinds)
}

func TestCompareCollections(t *testing.T) {
	require.Negative(t, Compare(Array(Int(1)), Array(Int(1), Int(0))))
	require.Negative(t, Compare(Array(Int(1), Int(2)), Array(Int(1), Int(3))))
	require.True(t, Equal(
		DictOf(Dict{"a": Int(1), "b": String("x")}),
		DictOf(Dict{"b": String("x"), "a": Uint(1)}),
	))
	require.Negative(t, Compare(DictOf(Dict{"a": Int(1)}), DictOf(Dict{"b": Int(0)})))
}

func TestDictKeysSorted(t *testing.T) {
	d := Dict{"zeta": Null(), "alpha": Null(), "mid": Null()}
	require.Equal(t, []string{"alpha", "mid", "zeta"}, d.Keys())
	require.Equal(t, "{alpha: null, mid: null, zeta: null}", DictOf(d).String())
}

func TestPath(t *testing.T) {
	require.Equal(t, "a/c", must(Path("a/b/../c").AsPath()))

	_, err := ParsePath("bad\xffname")
	require.Error(t, err)

	v, err := ParsePath("content/./post.md")
	require.NoError(t, err)
	p, ok := v.AsPath()
	require.True(t, ok)
	require.Equal(t, "content/post.md", p)

	_, ok = v.AsString()
	require.False(t, ok)
	s, ok := v.AsText()
	require.True(t, ok)
	require.Equal(t, "content/post.md", s)
}

func TestFromAny(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v, err := FromAny(map[string]any{
		"title":  "Hello",
		"count":  int64(3),
		"ratio":  1.5,
		"whole":  2.0,
		"draft":  false,
		"tags":   []any{"a", "b"},
		"when":   when,
		"nested": map[any]any{1: "one"},
	})
	require.NoError(t, err)

	d, ok := v.AsDict()
	require.True(t, ok)
	require.Equal(t, String("Hello"), d["title"])
	require.True(t, Equal(Int(3), d["count"]))
	require.Equal(t, String("1.5"), d["ratio"])
	require.True(t, Equal(Int(2), d["whole"]))
	require.Equal(t, Bool(false), d["draft"])
	require.True(t, Equal(Strings([]string{"a", "b"}), d["tags"]))
	require.Equal(t, String("2024-03-01T12:00:00Z"), d["when"])
	one, ok := d["nested"].Get("1")
	require.True(t, ok)
	require.Equal(t, String("one"), one)

	_, err = FromAny(struct{}{})
	require.Error(t, err)
}

func TestJSON(t *testing.T) {
	v, err := ParseJSON([]byte(`{"big": 18446744073709551615, "neg": -4, "list": [true, null, "s"]}`))
	require.NoError(t, err)

	big, _ := v.Get("big")
	n, ok := big.AsNumber()
	require.True(t, ok)
	u, ok := n.Uint64()
	require.True(t, ok)
	require.Equal(t, uint64(math.MaxUint64), u)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, `{"big": 18446744073709551615, "neg": -4, "list": [true, null, "s"]}`, string(out))
}

func TestToAny(t *testing.T) {
	v := DictOf(Dict{"n": Int(-2), "p": Path("x/y"), "a": Array(Bool(true))})
	require.Equal(t, map[string]any{
		"n": int64(-2),
		"p": "x/y",
		"a": []any{true},
	}, ToAny(v))
	require.Nil(t, ToAny(Null()))
}

func TestSinks(t *testing.T) {
	var got []Value
	s := SinkFunc(func(v Value) error {
		got = append(got, v)
		return nil
	})
	require.NoError(t, s.Write(Int(1)))
	require.Len(t, got, 1)

	var c Collector
	require.NoError(t, c.Write(String("x")))
	require.True(t, c.Written)
	require.Equal(t, String("x"), c.Value)
}

func must[T any](v T, ok bool) T {
	if !ok {
		panic("accessor failed")
	}
	return v
}
