package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mockingbird/internal/dataformat"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, _, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\nkey: value\n---\n# Title\n")

	fm, body, format, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, dataformat.YAML, format)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_TOMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("+++\ntitle = \"Hi\"\n+++\nBody\n")

	fm, body, format, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, dataformat.TOML, format)
	require.Equal(t, []byte("title = \"Hi\"\n"), fm)
	require.Equal(t, []byte("Body\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("+++\nkey = 1\n# Title\n")

	_, _, _, had, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	fm, body, _, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock_SplitsAsHadWithEmptyFrontmatter(t *testing.T) {
	input := []byte("+++\n+++\n# Title\n")

	fm, body, _, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestParse(t *testing.T) {
	v, err := Parse([]byte("slug: custom\ndraft: true\n"), dataformat.YAML)
	require.NoError(t, err)
	slug, _ := v.Get("slug")
	require.Equal(t, value.String("custom"), slug)

	v, err = Parse(nil, dataformat.TOML)
	require.NoError(t, err)
	d, ok := v.AsDict()
	require.True(t, ok)
	require.Empty(t, d)

	_, err = Parse([]byte(": not yaml"), dataformat.YAML)
	require.Error(t, err)
}
