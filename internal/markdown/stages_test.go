package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mockingbird/internal/metadata"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

func TestAdmonition_Transform(t *testing.T) {
	src := "!note: Heads up\n  Body text.\n\nAfter.\n"
	out, err := NewAdmonition().Preprocess(src)
	require.NoError(t, err)
	require.Equal(t,
		"<div class=\"admonition note\">\n<span class=\"title note\">\n\nHeads up\n\n</span>\n\nBody text.\n\n\n</div>\n\nAfter.\n",
		out)
}

func TestAdmonition_NoTitle(t *testing.T) {
	out, err := NewAdmonition().Preprocess("intro\n!warning\n  careful\n")
	require.NoError(t, err)
	require.Equal(t,
		"intro\n<div class=\"admonition warning\">\n<span class=\"title warning\">\n\n\n\n</span>\n\ncareful\n\n</div>\n\n",
		out)
}

func TestAdmonition_LeavesCodeAndImagesAlone(t *testing.T) {
	for _, src := range []string{
		"```\n!note: inside\n```\n",
		"![alt](/img.png)\n",
		"no bang here\n",
		"mid-line ! is fine\n",
	} {
		out, err := NewAdmonition().Preprocess(src)
		require.NoError(t, err)
		require.Equal(t, src, out)
	}
}

func TestAutoHeading_DeduplicatesIDs(t *testing.T) {
	events := Collect(NewAutoHeading().Remap(Parse("# Intro\n\n## Intro\n\n# Intro\n\n# Other `code`\n")))

	var ids []string
	for _, ev := range events {
		if ev.IsStart(TagHeading) {
			ids = append(ids, ev.Tag.ID)
		}
	}
	require.Equal(t, []string{"intro", "intro-1", "intro-2", "other-code"}, ids)
}

func TestAutoHeading_KeepsExplicitIDs(t *testing.T) {
	events := Collect(NewAutoHeading().Remap(Parse("# Intro {#intro}\n\n# Intro\n")))

	var ids []string
	for _, ev := range events {
		if ev.IsStart(TagHeading) {
			ids = append(ids, ev.Tag.ID)
		}
	}
	require.Equal(t, []string{"intro", "intro-1"}, ids)
}

func TestAlias_Rewrite(t *testing.T) {
	a := NewAlias(map[string]string{
		"docs": "https://example.com/docs",
		"root": "/",
		"":     "/base",
	})

	tests := map[string]string{
		"@docs/intro":   "https://example.com/docs/intro",
		"@docs":         "https://example.com/docs",
		"@docs//x":      "https://example.com/docs/x",
		"@root/a":       "/a",
		"@/a":           "/base/a",
		"@unknown/page": "@unknown/page",
		"plain/link":    "plain/link",
	}
	for in, want := range tests {
		require.Equal(t, want, a.Rewrite(in), in)
	}
}

func TestAlias_RewritesLinkEvents(t *testing.T) {
	var content value.Collector
	_, err := New(NewRenderer(&content), NewAlias(map[string]string{"docs": "/d"})).Run("[x](@docs/intro)\n")
	require.NoError(t, err)
	require.Equal(t, "<p><a href=\"/d/intro\">x</a></p>\n", mustString(t, content.Value))
}

func codeBlockText(t *testing.T, s Stage, text string) string {
	t.Helper()
	events := Collect(s.Remap(Events(
		Start(Tag{Kind: TagCodeBlock, Fenced: true}),
		Text(text),
		End(Tag{Kind: TagCodeBlock, Fenced: true}),
	)))
	require.True(t, events[0].IsStart(TagCodeBlock))
	require.True(t, events[len(events)-1].IsEnd(TagCodeBlock))

	var b strings.Builder
	for _, ev := range events {
		if ev.Kind == EventText {
			b.WriteString(ev.Text)
		}
	}
	return b.String()
}

func TestCodeTrim(t *testing.T) {
	src := "\n\n  code\n# hidden\n#\nmore\n\n"

	require.Equal(t, "  code\n# hidden\n#\nmore\n\n", codeBlockText(t, TrimStart(), src))
	require.Equal(t, "\n\n  code\nmore\n\n", codeBlockText(t, HashLines(), src))
	require.Equal(t, "\n\n  code\n# hidden\n#\nmore\n", codeBlockText(t, TrimEnd(), src))
}

func TestCodeTrim_FilterSeesBlockLineNumbers(t *testing.T) {
	var seen []int
	stage := NewCodeTrim(func() LineFilter {
		return func(_ string, n int) bool {
			seen = append(seen, n)
			return n%2 == 1
		}
	})

	require.Equal(t, "a\nc\n", codeBlockText(t, stage, "a\nb\nc\nd\n"))
	require.Equal(t, []int{0, 1, 2, 3}, seen)
}

func TestCodeTrim_LeavesOtherEventsAlone(t *testing.T) {
	in := []Event{Start(Tag{Kind: TagParagraph}), Text("\n"), End(Tag{Kind: TagParagraph})}
	require.Equal(t, in, Collect(TrimStart().Remap(Events(in...))))
}

func TestSyntaxHighlight_ReplacesFencedBlocks(t *testing.T) {
	events := Collect(NewSyntaxHighlight().Remap(Parse("```go,linenos\npackage main\n\nfunc main() {}\n```\n\n    indented\n")))

	require.Equal(t, EventHTML, events[0].Kind)
	require.True(t, strings.HasPrefix(events[0].Text, `<div class="code" style="display: flex;"><pre class="line-nums">1`+"\n"+`2`+"\n"+`3</pre>`))
	require.Contains(t, events[0].Text, "main")

	require.True(t, events[1].IsStart(TagCodeBlock))
	require.False(t, events[1].Tag.Fenced)
}

func TestParts(t *testing.T) {
	var content, parts value.Collector
	_, err := New(NewRenderer(&content), NewParts(&parts)).Run("Intro text.\n\n===\n\nSecond part.\n")
	require.NoError(t, err)

	require.Equal(t, "<p>Intro text.</p>\n<p>Second part.</p>\n", mustString(t, content.Value))
	arr, ok := parts.Value.AsArray()
	require.True(t, ok)
	require.Equal(t, []value.Value{
		value.String("<p>Intro text.</p>\n"),
		value.String("<p>Second part.</p>\n"),
	}, arr)
}

func TestParts_NoSeparator(t *testing.T) {
	var content, parts value.Collector
	_, err := New(NewRenderer(&content), NewParts(&parts)).Run("Only.\n")
	require.NoError(t, err)

	require.Equal(t, "<p>Only.</p>\n", mustString(t, content.Value))
	arr, ok := parts.Value.AsArray()
	require.True(t, ok)
	require.Empty(t, arr)
}

func TestSnippet(t *testing.T) {
	src := "# Title\n\nFirst paragraph here.\n\nSecond *paragraph*.\n"

	tests := []struct {
		name string
		min  int
		want string
	}{
		{"disabled", 0, ""},
		{"first paragraph", 5, "<p>First paragraph here.</p>"},
		{"everything", 1000, "<p>First paragraph here.</p><p>Second <em>paragraph</em>.</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out value.Collector
			_, err := New(NewSnippet(&out, tt.min)).Run(src)
			require.NoError(t, err)
			require.Equal(t, tt.want, mustString(t, out.Value))
		})
	}
}

func TestSnippet_Link(t *testing.T) {
	var out value.Collector
	_, err := New(NewSnippet(&out, 1)).Run("See [docs](/docs).\n")
	require.NoError(t, err)
	require.Equal(t, `<p>See <a href="/docs" title="">docs</a>.</p>`, mustString(t, out.Value))
}

func TestTableOfContents(t *testing.T) {
	var out value.Collector
	toc := NewTableOfContents(&out)
	_, err := New(toc, NewAutoHeading()).Run("# A\n\n## B\n\n### C `x`\n\n## D\n\n# E\n")
	require.NoError(t, err)

	entries := toc.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "A", entries[0].Title)
	require.Len(t, entries[0].Children, 2)
	require.Equal(t, "B", entries[0].Children[0].Title)
	require.Equal(t, "C x", entries[0].Children[0].Children[0].Title)
	require.Equal(t, "c-x", entries[0].Children[0].Children[0].ID)
	require.Equal(t, "D", entries[0].Children[1].Title)
	require.Equal(t, "E", entries[1].Title)

	arr, ok := out.Value.AsArray()
	require.True(t, ok)
	require.Len(t, arr, 2)
	first, ok := arr[0].AsDict()
	require.True(t, ok)
	require.Equal(t, value.String("A"), first["title"])
	require.Equal(t, value.Int(1), first["level"])
	require.Equal(t, value.String("a"), first["id"])
}

func TestTableOfContents_NullIDWithoutAutoHeading(t *testing.T) {
	var out value.Collector
	_, err := New(NewTableOfContents(&out)).Run("# Plain\n")
	require.NoError(t, err)

	arr, _ := out.Value.AsArray()
	require.Len(t, arr, 1)
	id, ok := arr[0].Get("id")
	require.True(t, ok)
	require.True(t, id.IsNull())
}

func TestSearchIndexer(t *testing.T) {
	var docs []Document
	x := NewSearchIndexer(func(d []Document) error {
		docs = append(docs, d...)
		return nil
	})
	_, err := New(x, NewAutoHeading()).Run("Preamble.\n\n# Guide\n\nIntro text.\n\n## Install\n\nRun <b>it</b> now.\n\n# Next\n")
	require.NoError(t, err)

	require.Equal(t, []Document{
		{ID: "guide", Title: "Guide", Breadcrumb: "Guide", Body: "Intro text."},
		{ID: "install", Title: "Install", Breadcrumb: "Guide > Install", Body: "Run it now."},
		{ID: "next", Title: "Next", Breadcrumb: "Next"},
	}, docs)
}

func TestFrontMatter(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		title string
		body  string
	}{
		{"toml", "+++\ntitle = \"Hi\"\n+++\nBody\n", "Hi", "Body\n"},
		{"yaml", "---\ntitle: Yo\n---\nBody\n", "Yo", "Body\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := metadata.New()
			out, err := NewFrontMatter(meta).Preprocess(tt.src)
			require.NoError(t, err)
			require.Equal(t, tt.body, out)
			title, err := metadata.Get(meta, metadata.StringKey("title"))
			require.NoError(t, err)
			require.Equal(t, tt.title, title)
		})
	}
}

func TestFrontMatter_UnclosedPassesThrough(t *testing.T) {
	meta := metadata.New()
	src := "+++\ntitle = 1\nBody\n"
	out, err := NewFrontMatter(meta).Preprocess(src)
	require.NoError(t, err)
	require.Equal(t, src, out)
	require.Zero(t, meta.Len())
}

func TestFrontMatter_RejectsNonTable(t *testing.T) {
	_, err := NewFrontMatter(metadata.New()).Preprocess("---\n- a\n- b\n---\nBody\n")
	var objErr *metadata.ObjectError
	require.True(t, errors.As(err, &objErr))
}

func TestFingerprint(t *testing.T) {
	meta := metadata.New()
	var content value.Collector
	p := New(
		NewRenderer(&content),
		NewFrontMatter(meta),
		NewFingerprint(metadata.KeySink{M: meta, Key: metadata.KeyFingerprint}),
	)
	_, err := p.Run("+++\ntitle = \"Hi\"\n+++\nBody\n")
	require.NoError(t, err)

	fp, err := metadata.Get(meta, metadata.Fingerprint)
	require.NoError(t, err)
	require.NotEmpty(t, fp)
	require.Equal(t, mdfp.CalculateFingerprintFromParts(`title = "Hi"`, "Body\n"), fp)
	require.Equal(t, "<p>Body</p>\n", mustString(t, content.Value))
}

type fakeEngine struct {
	calls int
	err   error
}

func (f *fakeEngine) RenderString(_, src string, meta *metadata.Metadata) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	name, _ := metadata.Get(meta, metadata.StringKey("name"))
	return strings.ReplaceAll(src, "{{ name }}", name), nil
}

func TestTemplatize(t *testing.T) {
	meta := metadata.New()
	meta.Insert("name", value.String("World"))
	engine := &fakeEngine{}

	out, err := NewTemplatize(engine, "post.md", meta).Preprocess("Hello {{ name }}\n")
	require.NoError(t, err)
	require.Equal(t, "Hello World\n", out)

	out, err = NewTemplatize(engine, "post.md", meta).Preprocess("No markup { here }\n")
	require.NoError(t, err)
	require.Equal(t, "No markup { here }\n", out)
	require.Equal(t, 1, engine.calls)
}

func TestTemplatize_WrapsErrors(t *testing.T) {
	cause := errors.New("undefined variable")
	_, err := NewTemplatize(&fakeEngine{err: cause}, "post.md", metadata.New()).Preprocess("{{ x }}")
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "markdown templatization failed")
}
