package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/fstree"
	"git.home.luguber.info/inful/mockingbird/internal/metrics"
	"git.home.luguber.info/inful/mockingbird/internal/taxonomy"
)

func buildSite(t *testing.T, files ...string) *taxonomy.Site {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o644))
	}
	tree, err := fstree.Build(context.Background(), root)
	require.NoError(t, err)
	content, _ := tree.Search("content")
	assets, ok := tree.Search("assets")
	if !ok {
		assets = fstree.NoEntry
	}
	site, err := taxonomy.Discover(tree, taxonomy.Roots{Content: content, Assets: assets})
	require.NoError(t, err)
	return site
}

type recordingVisitor struct {
	mu        sync.Mutex
	visited   []string
	resources atomic.Int32
	failItem  string
	failRes   string
}

func (v *recordingVisitor) RenderCollectionItem(_ context.Context, kind taxonomy.Kind, _ *taxonomy.Site, _ *taxonomy.Collection, item taxonomy.Item) (string, error) {
	rel := filepath.ToSlash(item.RelativePath())
	v.mu.Lock()
	v.visited = append(v.visited, rel)
	v.mu.Unlock()
	if v.failItem != "" && strings.HasSuffix(rel, v.failItem) {
		return "", ferrors.RenderError("failed to render item").WithContext("path", rel).Build()
	}
	return kind.Label() + ":" + rel, nil
}

func (v *recordingVisitor) RenderSiteItem(_ context.Context, item taxonomy.Item) error {
	v.resources.Add(1)
	if v.failRes != "" && strings.HasSuffix(item.RelativePath(), v.failRes) {
		return ferrors.FileSystemError("failed to copy asset").WithContext("path", item.RelativePath()).Build()
	}
	return nil
}

var siteFiles = []string{
	"content/index.md",
	"content/zeta.md",
	"content/alpha.md",
	"content/alpha/b.toml",
	"content/alpha/a.toml",
	"content/blog/index.md",
	"content/blog/post.md",
	"assets/site.css",
	"assets/img/logo.png",
}

func TestSiteVisitsEverythingInStableOrder(t *testing.T) {
	site := buildSite(t, siteFiles...)
	v := &recordingVisitor{}

	out, err := Site[string](context.Background(), site, v, WithConcurrency(3))
	require.NoError(t, err)
	require.Equal(t, int32(2), v.resources.Load())

	require.Len(t, out.Collections, 2)
	require.Equal(t, taxonomy.RootCollection, out.Collections[0].Collection.Name)
	require.Equal(t, []string{
		"index:content/index.md",
		"datum:content/alpha/a.toml",
		"datum:content/alpha/b.toml",
		"item:content/alpha.md",
		"item:content/zeta.md",
	}, out.Collections[0].Renders)
	require.Equal(t, []string{
		"index:content/blog/index.md",
		"item:content/blog/post.md",
	}, out.Collections[1].Renders)

	sort.Strings(v.visited)
	require.Len(t, v.visited, 7)
}

func TestSiteChainsBranchFailures(t *testing.T) {
	site := buildSite(t, siteFiles...)
	v := &recordingVisitor{failItem: "post.md", failRes: "site.css"}

	_, err := Site[string](context.Background(), site, v)
	require.Error(t, err)

	desc := ferrors.Describe(err)
	require.Contains(t, desc, "failed to render item")
	require.Contains(t, desc, "failed to copy asset")
	require.Less(t, strings.Index(desc, "failed to render item"), strings.Index(desc, "failed to copy asset"))

	// All other items were still visited.
	require.Len(t, v.visited, 7)
}

func TestSiteReportsSingleBranchFailure(t *testing.T) {
	site := buildSite(t, siteFiles...)
	v := &recordingVisitor{failRes: "logo.png"}

	_, err := Site[string](context.Background(), site, v)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
	require.NotContains(t, ferrors.Describe(err), "failed to render item")
}

func TestParMapItemsChainsInTaskOrder(t *testing.T) {
	site := buildSite(t, "content/a.md", "content/b.md", "content/c.md")
	c := site.Collections()[0]
	SortCollection(c)

	errA := errors.New("a failed")
	errC := errors.New("c failed")
	_, err := ParMapItems(context.Background(), c, 1, func(_ context.Context, kind taxonomy.Kind, item taxonomy.Item) (int, error) {
		switch item.Entry().Name {
		case "a.md":
			return 0, errA
		case "c.md":
			return 0, errC
		}
		return kind.Position, nil
	})
	require.Error(t, err)
	desc := ferrors.Describe(err)
	require.Less(t, strings.Index(desc, "a failed"), strings.Index(desc, "c failed"))
}

type stageRecorder struct {
	metrics.NoopRecorder
	mu     sync.Mutex
	stages map[string]time.Duration
	ok     atomic.Int32
}

func (r *stageRecorder) ObserveStageDuration(stage string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[stage] = d
}

func (r *stageRecorder) IncRenderResult(_ string, result metrics.ResultLabel) {
	if result == metrics.ResultSuccess {
		r.ok.Add(1)
	}
}

func TestSiteRecordsStages(t *testing.T) {
	site := buildSite(t, siteFiles...)
	rec := &stageRecorder{stages: map[string]time.Duration{}}

	_, err := Site[string](context.Background(), site, &recordingVisitor{}, WithRecorder(rec))
	require.NoError(t, err)
	require.Contains(t, rec.stages, StageCollections)
	require.Contains(t, rec.stages, StageResources)
	require.Equal(t, int32(9), rec.ok.Load())
}
