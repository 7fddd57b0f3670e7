package fstree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o644))
	}
}

func buildFixture(t *testing.T) (*Tree, string) {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root,
		"content/index.md",
		"content/post.md",
		"content/post/extra.toml",
		"content/blog/index.md",
		"content/blog/2024/first.md",
		"templates/default.html",
		".hidden",
	)
	tree, err := Build(context.Background(), root, WithConcurrency(2))
	require.NoError(t, err)
	return tree, root
}

func TestTreeInvariants(t *testing.T) {
	tree, _ := buildFixture(t)

	root := tree.Entry(tree.Root())
	require.Equal(t, NoEntry, root.Parent)
	require.Equal(t, 0, root.Depth)
	require.True(t, root.IsDir())

	for i := 1; i < tree.Len(); i++ {
		e := tree.Entry(EntryID(i))
		require.Equal(t, EntryID(i), e.ID)
		require.Less(t, e.Parent, e.ID)
		require.Equal(t, tree.Entry(e.Parent).Depth+1, e.Depth)
		require.Contains(t, tree.Entry(e.Parent).Children, e.ID)
		if i > 1 {
			// Breadth-first numbering never decreases depth.
			require.GreaterOrEqual(t, e.Depth, tree.Entry(EntryID(i-1)).Depth)
		}
	}
	for i := range tree.Len() {
		e := tree.Entry(EntryID(i))
		names := make([]string, len(e.Children))
		for j, c := range e.Children {
			names[j] = tree.Entry(c).Name
		}
		require.True(t, slices.IsSorted(names), "children of %s", e.Path)
	}
}

func TestRoundTripLookup(t *testing.T) {
	tree, root := buildFixture(t)

	for i := range tree.Len() {
		id := EntryID(i)
		rel := tree.Entry(id).RelativePath(tree)

		got, ok := tree.Search(rel)
		require.True(t, ok, rel)
		require.Equal(t, id, got)

		got, ok = tree.Get(tree.Root(), rel)
		require.True(t, ok, rel)
		require.Equal(t, id, got)
	}

	_, ok := tree.Search("content/missing.md")
	require.False(t, ok)
	_, ok = tree.Search("../outside")
	require.False(t, ok)

	content, ok := tree.Search("content")
	require.True(t, ok)
	post, ok := tree.GetFile(content, "post.md")
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, "content", "post.md"), tree.Entry(post).Path)

	_, ok = tree.GetFile(tree.Root(), "content")
	require.False(t, ok)
}

func TestTraversals(t *testing.T) {
	tree, _ := buildFixture(t)
	content, _ := tree.Search("content")

	rel := func(ids []EntryID) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = filepath.ToSlash(tree.Entry(id).RelativePath(tree))
		}
		return out
	}

	bfs := slices.Collect(tree.BFS(content))
	require.Equal(t, []string{
		"content",
		"content/blog",
		"content/index.md",
		"content/post",
		"content/post.md",
		"content/blog/2024",
		"content/blog/index.md",
		"content/post/extra.toml",
		"content/blog/2024/first.md",
	}, rel(bfs))

	dfs := slices.Collect(tree.DFS(content, func(e *Entry) bool { return e.Name != "blog" }))
	require.Equal(t, []string{
		"content",
		"content/blog",
		"content/index.md",
		"content/post",
		"content/post/extra.toml",
		"content/post.md",
	}, rel(dfs))

	files := slices.Collect(tree.Files(tree.BFS(content)))
	require.Len(t, files, 5)

	first, ok := tree.Search("content/blog/2024/first.md")
	require.True(t, ok)
	require.Equal(t, []string{"content/blog/2024", "content/blog", "content", "."}, rel(slices.Collect(tree.Ancestors(first))))

	blog, _ := tree.Search("content/blog")
	post, _ := tree.Search("content/post")
	require.True(t, tree.IsDescendant(content, first))
	require.True(t, tree.IsDescendant(blog, first))
	require.False(t, tree.IsDescendant(post, first))
	require.True(t, tree.IsDescendant(first, first))
	require.True(t, tree.IsDescendant(blog, blog))
	require.False(t, tree.IsDescendant(first, blog))
}

func TestEntryNames(t *testing.T) {
	tests := []struct {
		name, stem, ext string
	}{
		{"post.md", "post", "md"},
		{"archive.tar.gz", "archive.tar", "gz"},
		{".env", ".env", ""},
		{"README", "README", ""},
	}
	for _, tt := range tests {
		e := &Entry{Name: tt.name}
		require.Equal(t, tt.stem, e.Stem(), tt.name)
		require.Equal(t, tt.ext, e.Ext(), tt.name)
	}

	a := &Entry{Path: "/site/content/blog/post.md"}
	b := &Entry{Path: "/site/content"}
	rel, err := a.RelativeTo(b)
	require.NoError(t, err)
	require.Equal(t, filepath.FromSlash("blog/post.md"), rel)
}

func TestBuildFailsWithoutFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))

	_, err := Build(context.Background(), root)
	require.ErrorIs(t, err, ErrNoFiles)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryDiscovery))
	require.Contains(t, ferrors.Describe(err), "search root: ")
}

func TestVisitorRunsInOrderAndAborts(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.md", "b/c.md", "d.md")

	var seen []EntryID
	_, err := Build(context.Background(), root, WithVisitor(func(e *Entry) error {
		seen = append(seen, e.ID)
		return nil
	}))
	require.NoError(t, err)
	require.Equal(t, []EntryID{0, 1, 2, 3, 4}, seen)

	errStop := errors.New("stop")
	_, err = Build(context.Background(), root, WithVisitor(func(e *Entry) error {
		if e.Name == "b" {
			return errStop
		}
		return nil
	}))
	require.ErrorIs(t, err, errStop)
}

func TestBuildFollowsSymlinks(t *testing.T) {
	outside := t.TempDir()
	writeFiles(t, outside, "shared/logo.svg")

	root := t.TempDir()
	writeFiles(t, root, "index.md")
	if err := os.Symlink(filepath.Join(outside, "shared"), filepath.Join(root, "shared")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	tree, err := Build(context.Background(), root)
	require.NoError(t, err)

	shared, ok := tree.Search("shared")
	require.True(t, ok)
	require.True(t, tree.Entry(shared).Symlink)
	require.True(t, tree.Entry(shared).IsDir())

	logo, ok := tree.Search("shared/logo.svg")
	require.True(t, ok)
	require.True(t, tree.Entry(logo).IsFile())
}

func TestBuildDetectsSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "docs/page.md")
	if err := os.Symlink(root, filepath.Join(root, "docs", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := Build(context.Background(), root)
	require.ErrorIs(t, err, ErrSymlinkCycle)
	require.Contains(t, ferrors.Describe(err), "link: ")
}

func TestBuildHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.md")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}
