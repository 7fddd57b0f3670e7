package templates

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/logfields"
	"git.home.luguber.info/inful/mockingbird/internal/metadata"
	"git.home.luguber.info/inful/mockingbird/internal/taxonomy"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// ErrTemplateNotFound is returned when a named template was never loaded.
var ErrTemplateNotFound = errors.New("template not found")

// Engine renders site items with Go text/template. Templates are loaded from
// a directory and named by their slash-separated path relative to it.
// Referencing a missing key is an error.
//
// An Engine is safe for concurrent use.
type Engine struct {
	set     *template.Template
	funcs   template.FuncMap
	globals map[string]any
	logger  *slog.Logger

	mu    sync.Mutex
	views map[*taxonomy.Site]*siteView
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New loads every template under dir. A missing dir yields an engine with no
// named templates. globals is exposed to templates as G; its "root" entry is
// the base URL used by join.
func New(dir string, globals value.Dict, opts ...Option) (*Engine, error) {
	g, _ := value.ToAny(value.DictOf(globals)).(map[string]any)
	rootURL, _ := g["root"].(string)

	e := &Engine{
		funcs:   builtinFuncs(rootURL),
		globals: g,
		logger:  slog.Default(),
		views:   make(map[*taxonomy.Site]*siteView),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.set = template.New("").Funcs(e.funcs).Option("missingkey=error")

	if dir == "" {
		return e, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return e, nil
	}

	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		// #nosec G304 -- path comes from walking the templates directory.
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if _, err := e.set.New(name).Parse(string(data)); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRender, "failed to parse template").
				WithContext("template", name).
				Build()
		}
		count++
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Loaded templates", logfields.Path(dir), logfields.Count(count))
	return e, nil
}

// Has reports whether a template called name was loaded.
func (e *Engine) Has(name string) bool {
	return e.set.Lookup(name) != nil
}

// Render executes the named template for ctx.
func (e *Engine) Render(name string, ctx Context) (string, error) {
	t := e.set.Lookup(name)
	if t == nil {
		return "", ferrors.WrapError(ErrTemplateNotFound, ferrors.CategoryRender, "template not found").
			WithContext("template", name).
			Build()
	}
	return e.execute(t, name, e.view(ctx.Site).data(ctx, e.globals))
}

// RenderRaw parses src as a template named name and executes it for ctx.
// src may call any loaded template.
func (e *Engine) RenderRaw(name, src string, ctx Context) (string, error) {
	t, err := e.parse(name, src)
	if err != nil {
		return "", err
	}
	return e.execute(t, name, e.view(ctx.Site).data(ctx, e.globals))
}

// RenderString parses src as a template and executes it against an item's
// metadata alone.
func (e *Engine) RenderString(name, src string, meta *metadata.Metadata) (string, error) {
	t, err := e.parse(name, src)
	if err != nil {
		return "", err
	}
	data := metaMap(meta)
	if data == nil {
		data = map[string]any{}
	}
	if _, taken := data[KeyGlobals]; !taken {
		data[KeyGlobals] = e.globals
	}
	return e.execute(t, name, data)
}

func (e *Engine) parse(name, src string) (*template.Template, error) {
	set, err := e.set.Clone()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to clone template set").Build()
	}
	t, err := set.New(name).Parse(src)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to parse template").
			WithContext("template", name).
			Build()
	}
	return t, nil
}

func (e *Engine) execute(t *template.Template, name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "failed to execute template").
			WithContext("template", name).
			Build()
	}
	return buf.String(), nil
}

func (e *Engine) view(site *taxonomy.Site) *siteView {
	if site == nil {
		return &siteView{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.views[site]
	if !ok {
		v = buildSiteView(site)
		e.views[site] = v
	}
	return v
}
