package site

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/mockingbird/internal/dataformat"
	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/fstree"
	"git.home.luguber.info/inful/mockingbird/internal/logfields"
	"git.home.luguber.info/inful/mockingbird/internal/markdown"
	"git.home.luguber.info/inful/mockingbird/internal/metadata"
	"git.home.luguber.info/inful/mockingbird/internal/search"
	"git.home.luguber.info/inful/mockingbird/internal/slug"
	"git.home.luguber.info/inful/mockingbird/internal/taxonomy"
	"git.home.luguber.info/inful/mockingbird/internal/urlpath"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// Default template names, looked up per collection directory.
const (
	IndexTemplate   = "index.html"
	PageTemplate    = "page.html"
	DefaultTemplate = "default.html"
)

func isMarkdown(ext string) bool {
	switch ext {
	case "md", "mdown", "markdown":
		return true
	}
	return false
}

// visitor renders single items for render.Site. Collection items get their
// metadata, permapath, url and template here; their output is written once
// every item has been visited. Resources are written immediately.
type visitor struct {
	b      *Builder
	index  *search.Index
	logger *slog.Logger
}

func (v *visitor) RenderCollectionItem(_ context.Context, kind taxonomy.Kind, _ *taxonomy.Site, c *taxonomy.Collection, item taxonomy.Item) (struct{}, error) {
	var none struct{}
	entry := item.Entry()
	rel := filepath.ToSlash(item.RelativePath())
	ext := strings.ToLower(entry.Ext())
	if isDraft(item) {
		v.logger.Debug("Skipping draft", logfields.Path(rel))
		return none, nil
	}

	var indexer *markdown.SearchIndexer
	format, isData := dataformat.FromExt(ext)
	switch {
	case isMarkdown(ext):
		var err error
		if indexer, err = v.markdown(item, rel); err != nil {
			return none, err
		}
	case isData:
		if err := dataformat.CopyFile(format, entry.Path, item.Meta); err != nil {
			return none, ferrors.WrapError(err, ferrors.CategoryContent, "failed to load data file").
				WithContext("path", rel).
				Build()
		}
	}
	// Front matter and data files may mark an item as a draft.
	if isDraft(item) {
		v.logger.Debug("Skipping draft", logfields.Path(rel))
		return none, nil
	}
	rendered := isMarkdown(ext) || isData

	content := v.b.tree.Entry(v.b.content)
	group, err := c.Entry().RelativeTo(content)
	if err != nil {
		return none, ferrors.WrapError(err, ferrors.CategoryInternal, "collection outside content root").Build()
	}
	if group == "." {
		group = ""
	}

	itemSlug, err := metadata.GetOrSet(item.Meta, metadata.Slug, func() string { return stemSlug(entry.Stem()) })
	if err != nil {
		return none, ferrors.WrapError(err, ferrors.CategoryContent, "invalid slug").
			WithContext("path", rel).
			Build()
	}

	var permapath, url string
	switch {
	case !rendered:
		p, err := entry.RelativeTo(content)
		if err != nil {
			return none, ferrors.WrapError(err, ferrors.CategoryInternal, "item outside content root").Build()
		}
		permapath, url = p, urlpath.FromPath(p)
	case kind.Type == taxonomy.KindIndex:
		permapath = filepath.Join(group, "index.html")
		url = urlpath.Append(urlpath.FromPath(group), "/")
	case kind.Type == taxonomy.KindItem:
		dir := filepath.Join(group, itemSlug)
		permapath = filepath.Join(dir, "index.html")
		url = urlpath.Append(urlpath.FromPath(dir), "/")
	default:
		// Rendered data only feeds its collection.
		return none, nil
	}

	url = urlpath.Prepend(urlpath.MakeRelative(url), v.b.settings.Root)
	item.Meta.Insert(metadata.KeyPermapath, value.Path(permapath))
	metadata.Set(item.Meta, metadata.URL, url)

	if indexer != nil && v.index != nil {
		v.index.Add(url, indexer.Documents())
	}

	if !rendered {
		return none, nil
	}
	if name, ok := v.template(kind, group); ok {
		metadata.Set(item.Meta, metadata.Template, name)
	}
	return none, nil
}

// markdown runs an item's source through the markdown pipeline. The rendered
// HTML, table of contents, snippet, parts and fingerprint end up in the item's
// metadata next to its front matter.
func (v *visitor) markdown(item taxonomy.Item, rel string) (*markdown.SearchIndexer, error) {
	// #nosec G304 -- item paths come from the indexed input tree.
	src, err := os.ReadFile(item.Path())
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read item").
			WithContext("path", rel).
			Build()
	}
	if err := checkUTF8(src, rel); err != nil {
		return nil, err
	}

	meta := item.Meta
	sink := func(key string) value.Sink { return metadata.KeySink{M: meta, Key: key} }
	settings := v.b.settings

	p := markdown.New(
		markdown.NewRenderer(sink(metadata.KeyContent)),
		markdown.NewParts(sink(metadata.KeyParts)),
		markdown.NewSyntaxHighlight(),
		markdown.NewAlias(settings.Aliases),
		markdown.TrimStart(),
		markdown.TrimEnd(),
		markdown.HashLines(),
		markdown.NewHeadingAnchor(),
		markdown.NewAutoHeading(),
		markdown.NewAdmonition(),
		markdown.NewSnippet(sink(metadata.KeySnippet), settings.Build.SnippetLength),
	)
	var indexer *markdown.SearchIndexer
	if v.index != nil {
		indexer = markdown.NewSearchIndexer(nil)
		p.Use(indexer)
	}
	p.Use(
		markdown.NewTableOfContents(sink(metadata.KeyTOC)),
		markdown.NewAutoHeading(),
		markdown.NewAlias(settings.Aliases),
		markdown.NewTemplatize(v.b.engine, rel, meta),
		markdown.NewFrontMatter(meta),
		markdown.NewFingerprint(sink(metadata.KeyFingerprint)),
	)

	if _, err := p.Run(string(src)); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryContent, "markdown rendering failed").
			WithContext("path", rel).
			Build()
	}
	return indexer, nil
}

// template finds the template for a rendered item in the collection at group. From
// the group up to the content root it tries "<dir>/<kind>.html" and then
// "<dir>.html"; default.html is the last resort.
func (v *visitor) template(kind taxonomy.Kind, group string) (string, bool) {
	if v.b.templates == fstree.NoEntry {
		return "", false
	}
	name := PageTemplate
	if kind.Type == taxonomy.KindIndex {
		name = IndexTemplate
	}

	dir := filepath.ToSlash(group)
	for {
		if candidate := path.Join(dir, name); v.hasTemplate(candidate) {
			return candidate, true
		}
		if dir == "" {
			break
		}
		if candidate := dir + ".html"; v.hasTemplate(candidate) {
			return candidate, true
		}
		if dir = path.Dir(dir); dir == "." {
			dir = ""
		}
	}
	if v.hasTemplate(DefaultTemplate) {
		return DefaultTemplate, true
	}
	return "", false
}

func (v *visitor) hasTemplate(name string) bool {
	_, ok := v.b.tree.GetFile(v.b.templates, filepath.FromSlash(name))
	return ok
}

// RenderSiteItem copies a resource to its permapath, compiling stylesheets on
// the way.
func (v *visitor) RenderSiteItem(ctx context.Context, item taxonomy.Item) error {
	permapath, ok, err := metadata.Lookup(item.Meta, metadata.Permapath)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryContent, "invalid metadata value type").
			WithContext("context", item.Path()).
			Build()
	}
	if !ok {
		return nil
	}

	switch strings.ToLower(item.Entry().Ext()) {
	case "scss", "sass":
		dst := v.b.output.Path(strings.TrimSuffix(permapath, filepath.Ext(permapath)) + ".css")
		return v.b.styles.Compile(ctx, item.Path(), dst)
	default:
		if err := v.b.output.Copy(permapath, item.Path()); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to copy asset").
				WithContext("source path", item.Path()).
				WithContext("destination path", v.b.output.Path(permapath)).
				Build()
		}
		return nil
	}
}

// checkUTF8 rejects sources that are not valid UTF-8.
func checkUTF8(src []byte, rel string) error {
	if utf8.Valid(src) {
		return nil
	}
	return ferrors.ContentError(dataformat.ErrInvalidUTF8.Message()).
		WithContext("path", rel).
		Build()
}

func isDraft(item taxonomy.Item) bool {
	draft, _, _ := metadata.Lookup(item.Meta, metadata.Draft)
	return draft
}

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// stemSlug derives a slug from a file stem. Leading characters up to the
// first ASCII letter are dropped so "2024-05-01-launch" becomes "launch".
func stemSlug(stem string) string {
	s := strings.TrimLeftFunc(stem, func(r rune) bool {
		return r > unicode.MaxASCII || !unicode.IsLetter(r)
	})
	s = strings.TrimRight(s, asciiPunct)
	if out := slug.Make(s); out != "" {
		return out
	}
	return slug.Make(stem)
}
