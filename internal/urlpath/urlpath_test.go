package urlpath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScheme(t *testing.T) {
	tests := []struct {
		in     string
		scheme string
		ok     bool
	}{
		{"http://rocket.rs", "http", true},
		{"ftp:/rocket.rs", "ftp", true},
		{"mailto:foo@bar.com", "mailto", true},
		{"foo#bar:baz", "", false},
		{"foo?bar:baz", "", false},
		{"/foo:bar", "", false},
		{"plain", "", false},
	}
	for _, tt := range tests {
		s, ok := Scheme(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		require.Equal(t, tt.scheme, s, tt.in)
	}
}

func TestAppend(t *testing.T) {
	u := Append("https://rocket.rs", "bar/baz")
	require.Equal(t, "https://rocket.rs/bar/baz", u)
	u = Append(u, "/foo/bar/")
	require.Equal(t, "https://rocket.rs/bar/baz/foo/bar/", u)
	require.Equal(t, "https://rwf2.org/foo", Append(u, "https://rwf2.org/foo"))

	u = Append("/foo/bar", "baz")
	require.Equal(t, "/foo/bar/baz", u)
	require.Equal(t, "/foo/bar/baz/", Append(u, "/"))

	require.Equal(t, "https://example.com/css/site.css", Join("https://example.com/", "css", "site.css"))
}

func TestPrepend(t *testing.T) {
	u := Prepend("foo/bar", "/")
	require.Equal(t, "/foo/bar", u)
	u = Prepend(u, "bar/baz/")
	require.Equal(t, "bar/baz/foo/bar", u)
	u = Prepend(u, "https://rocket.rs")
	require.Equal(t, "https://rocket.rs/bar/baz/foo/bar", u)
	require.Equal(t, u, Prepend(u, "/bar/baz"))
}

func TestAbsoluteRelative(t *testing.T) {
	require.Equal(t, "foo", MakeRelative("https://rocket.rs/foo"))
	require.Equal(t, "blog/post/", MakeRelative("/blog/post/"))
	require.Equal(t, "/blog/", MakeAbsolute("blog/"))
	require.Equal(t, "https://x.io/a", MakeAbsolute("https://x.io/a"))
	require.True(t, IsAbsolute("/a"))
	require.True(t, IsAbsolute("https://a"))
	require.False(t, IsAbsolute("a/b"))
}

func TestFromPath(t *testing.T) {
	require.Equal(t, "blog/post", FromPath("blog/./post"))
	require.Equal(t, "post", FromPath("blog/../post"))
	require.Equal(t, "/a/c", FromPath("/a/b/../c/."))
	require.Equal(t, "x", FromPath("../x"))
	require.Equal(t, "", FromPath("."))
}
