// Package site builds a mockingbird site: it indexes the input directory,
// discovers the site model, renders every item and writes the output tree.
package site

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/mockingbird/internal/config"
	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/fstree"
	"git.home.luguber.info/inful/mockingbird/internal/gitinfo"
	"git.home.luguber.info/inful/mockingbird/internal/logfields"
	"git.home.luguber.info/inful/mockingbird/internal/metrics"
	"git.home.luguber.info/inful/mockingbird/internal/render"
	"git.home.luguber.info/inful/mockingbird/internal/search"
	"git.home.luguber.info/inful/mockingbird/internal/taxonomy"
	"git.home.luguber.info/inful/mockingbird/internal/templates"
)

// Stage names reported to the recorder, next to the render stages.
const (
	StageIndex    = "index_tree"
	StageDiscover = "discover"
	StageWrite    = "write_output"
	StageSearch   = "search_index"
)

// Builder holds everything needed to build one site. It is created by Open
// and can run Build once per Open; watch mode opens a fresh Builder for every
// rebuild.
type Builder struct {
	input  string
	output OutputWriter

	tree      *fstree.Tree
	content   fstree.EntryID
	templates fstree.EntryID
	assets    fstree.EntryID

	settings *config.Settings
	engine   *templates.Engine
	styles   StyleCompiler

	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = metrics.OrNoop(r) }
}

// WithStyleCompiler replaces the stylesheet compiler named in the settings.
func WithStyleCompiler(c StyleCompiler) Option {
	return func(b *Builder) { b.styles = c }
}

// Open indexes input and loads its settings and templates. Output is only
// written by Build.
func Open(ctx context.Context, input, output string, opts ...Option) (*Builder, error) {
	b := &Builder{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}

	var err error
	if b.input, err = filepath.Abs(input); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve input directory").
			WithContext("path", input).
			Build()
	}
	if output, err = filepath.Abs(output); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve output directory").
			WithContext("path", output).
			Build()
	}
	b.output = OutputWriter{Root: output}

	start := time.Now()
	b.tree, err = fstree.Build(ctx, b.input, fstree.WithLogger(b.logger))
	if err != nil {
		return nil, err
	}
	b.recorder.ObserveStageDuration(StageIndex, time.Since(start))

	if b.content, _, err = dircheck(b.tree, ContentDir, true); err != nil {
		return nil, err
	}
	if b.templates, _, err = dircheck(b.tree, TemplateDir, false); err != nil {
		return nil, err
	}
	if b.assets, _, err = dircheck(b.tree, AssetsDir, false); err != nil {
		return nil, err
	}

	if b.settings, err = config.Load(filepath.Join(b.input, config.FileName)); err != nil {
		return nil, err
	}
	b.addRevision()

	dir := ""
	if b.templates != fstree.NoEntry {
		dir = b.tree.Entry(b.templates).Path
	}
	if b.engine, err = templates.New(dir, b.settings.Globals, templates.WithLogger(b.logger)); err != nil {
		return nil, err
	}

	if b.styles == nil {
		b.styles = ExecCompiler{Command: b.settings.Build.StylesheetCompiler}
	}
	return b, nil
}

// addRevision exposes the input's git revision to templates as "revision".
func (b *Builder) addRevision() {
	rev, err := gitinfo.Lookup(b.input)
	if err != nil {
		if !errors.Is(err, gitinfo.ErrNotRepository) {
			b.logger.Debug("Git revision unavailable", logfields.Path(b.input), logfields.Error(err))
		}
		return
	}
	b.settings.SetGlobal("revision", rev.Value())
}

// Settings returns the loaded settings.
func (b *Builder) Settings() *config.Settings { return b.settings }

// Tree returns the indexed input directory.
func (b *Builder) Tree() *fstree.Tree { return b.tree }

// Discover assembles the site model without rendering anything.
func (b *Builder) Discover() (*taxonomy.Site, error) {
	start := time.Now()
	defer func() { b.recorder.ObserveStageDuration(StageDiscover, time.Since(start)) }()
	return taxonomy.Discover(b.tree, taxonomy.Roots{Content: b.content, Assets: b.assets}, taxonomy.WithLogger(b.logger))
}

// Result describes a finished build.
type Result struct {
	BuildID  string
	Site     *taxonomy.Site
	Duration time.Duration
}

// Build discovers and renders the site and writes it to the output
// directory. Output written before a failure is left in place.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{BuildID: uuid.NewString()}
	logger := b.logger.With(logfields.BuildID(res.BuildID))
	logger.Info("Build started", logfields.Path(b.input), logfields.Output(b.output.Root))

	err := b.build(ctx, res, logger)
	res.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(res.Duration)

	switch {
	case err != nil && ctx.Err() != nil:
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
	case err != nil:
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	default:
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		logger.Info("Build finished",
			logfields.Count(res.Site.Items()),
			logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	}
	return res, err
}

func (b *Builder) build(ctx context.Context, res *Result, logger *slog.Logger) error {
	site, err := b.Discover()
	if err != nil {
		return err
	}
	res.Site = site
	b.recorder.SetItemsDiscovered(site.Items())

	var index *search.Index
	if b.settings.Build.SearchIndex != config.SearchIndexNone {
		index = search.NewIndex()
	}

	v := &visitor{b: b, index: index, logger: logger}
	_, err = render.Site(ctx, site, v,
		render.WithRecorder(b.recorder),
		render.WithLogger(logger),
		render.WithConcurrency(b.settings.Build.Concurrency))
	if err != nil {
		return err
	}

	if err := b.stage(StageWrite, func() error { return b.writeOutputs(ctx, site) }); err != nil {
		return err
	}

	if index == nil {
		return nil
	}
	return b.stage(StageSearch, func() error {
		w := searchWriter(b.settings.Build.SearchIndex)
		if err := search.Save(ctx, w, b.output.Root, index); err != nil {
			return err
		}
		logger.Debug("Wrote search index", logfields.Output(w.FileName()), logfields.Entries(index.Len()))
		return nil
	})
}

func (b *Builder) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	b.recorder.ObserveStageDuration(name, time.Since(start))
	return err
}

func searchWriter(mode config.SearchIndexMode) search.Writer {
	if mode == config.SearchIndexSQLite {
		return search.SQLiteWriter{}
	}
	return search.JSONWriter{}
}
