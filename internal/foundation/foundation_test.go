package foundation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
)

type mode string

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(map[string]mode{"JSON": "json", "sqlite": "sqlite"}, "json")

	require.Equal(t, mode("json"), n.Normalize(" Json "))
	require.Equal(t, mode("sqlite"), n.Normalize("SQLITE"))
	require.Equal(t, mode("json"), n.Normalize("elastic"))
	require.Equal(t, []string{"json", "sqlite"}, n.Keys())

	_, err := n.NormalizeWithError("elastic")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	allowed, ok := ce.Context().GetString("allowed")
	require.True(t, ok)
	require.Equal(t, "json, sqlite", allowed)
}

type limits struct {
	Name  string
	Count int
	Kind  string
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(
		Field(func(l limits) string { return l.Name }, NotEmpty("name")),
		Field(func(l limits) int { return l.Count }, NonNegative("count")),
	).Add(Field(func(l limits) string { return l.Kind }, OneOf("kind", []string{"a", "b"})))

	require.True(t, chain.Validate(limits{Name: "x", Count: 1, Kind: "a"}).Valid)
	require.NoError(t, chain.Validate(limits{Name: "x", Kind: "b"}).ToError())

	res := chain.Validate(limits{Count: -1, Kind: "c"})
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 3)
	require.Equal(t, []string{"required", "non_negative", "one_of"},
		[]string{res.Errors[0].Code, res.Errors[1].Code, res.Errors[2].Code})

	err := res.ToError()
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.Contains(t, err.Error(), "field 'count': must not be negative")
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	count, ok := ce.Context().Get("count")
	require.True(t, ok)
	require.Equal(t, -1, count)
}
