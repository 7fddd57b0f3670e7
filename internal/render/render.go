// Package render drives a Visitor over every item of a discovered site.
//
// Collections and site resources are visited on two concurrent branches.
// Within a collection the index, the data groups and the direct items are all
// visited concurrently after the items have been sorted by path. There is no
// ordering guarantee between visits; results are returned in a fixed order
// regardless.
package render

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/logfields"
	"git.home.luguber.info/inful/mockingbird/internal/metrics"
	"git.home.luguber.info/inful/mockingbird/internal/taxonomy"
)

// Visitor renders individual items.
type Visitor[R any] interface {
	RenderCollectionItem(ctx context.Context, kind taxonomy.Kind, site *taxonomy.Site, c *taxonomy.Collection, item taxonomy.Item) (R, error)
	RenderSiteItem(ctx context.Context, item taxonomy.Item) error
}

// Collected holds the renders of one collection in visit-list order: the
// index, then every data group in directory order, then the direct items.
type Collected[R any] struct {
	Collection *taxonomy.Collection
	Renders    []R
}

// Output is the result of a site render, one entry per collection ordered by
// collection root.
type Output[R any] struct {
	Collections []Collected[R]
}

type options struct {
	recorder    metrics.Recorder
	logger      *slog.Logger
	concurrency int
}

// Option configures Site.
type Option func(*options)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(o *options) { o.recorder = metrics.OrNoop(r) } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithConcurrency bounds the number of concurrent visits per fan-out.
// Zero or less means GOMAXPROCS.
func WithConcurrency(n int) Option { return func(o *options) { o.concurrency = n } }

// Stage names reported to the recorder.
const (
	StageCollections = "render_collections"
	StageResources   = "render_resources"
)

// Site visits every collection item and every resource of site. When both
// branches fail their errors are chained, collections first.
func Site[R any](ctx context.Context, site *taxonomy.Site, v Visitor[R], opts ...Option) (Output[R], error) {
	o := options{recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency <= 0 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}

	var (
		out        Output[R]
		errA, errB error
		wg         conc.WaitGroup
	)
	wg.Go(func() {
		start := time.Now()
		out, errA = renderCollections(ctx, site, v, &o)
		o.recorder.ObserveStageDuration(StageCollections, time.Since(start))
	})
	wg.Go(func() {
		start := time.Now()
		errB = renderResources(ctx, site, v, &o)
		o.recorder.ObserveStageDuration(StageResources, time.Since(start))
	})
	wg.Wait()

	switch {
	case errA != nil && errB != nil:
		return out, ferrors.Chain(errA, errB)
	case errA != nil:
		return out, errA
	case errB != nil:
		return out, errB
	}
	return out, nil
}

func renderCollections[R any](ctx context.Context, site *taxonomy.Site, v Visitor[R], o *options) (Output[R], error) {
	cols := site.Collections()
	out := Output[R]{Collections: make([]Collected[R], len(cols))}
	errs := make([]error, len(cols))

	p := pool.New().WithContext(ctx)
	for i, c := range cols {
		p.Go(func(ctx context.Context) error {
			renders, err := renderCollection(ctx, site, c, v, o)
			out.Collections[i] = Collected[R]{Collection: c, Renders: renders}
			errs[i] = err
			return nil
		})
	}
	_ = p.Wait()
	return out, ferrors.ChainAll(errs...)
}

// renderCollection sorts c and visits all of its items.
func renderCollection[R any](ctx context.Context, site *taxonomy.Site, c *taxonomy.Collection, v Visitor[R], o *options) ([]R, error) {
	SortCollection(c)
	renders, err := ParMapItems(ctx, c, o.concurrency, func(ctx context.Context, kind taxonomy.Kind, item taxonomy.Item) (R, error) {
		r, err := v.RenderCollectionItem(ctx, kind, site, c, item)
		if err != nil {
			o.recorder.IncRenderResult(kind.Label(), metrics.ResultFailed)
			o.logger.Debug("Item render failed",
				logfields.Collection(c.Name),
				logfields.Kind(kind.Label()),
				logfields.Path(item.Path()),
				logfields.Error(err))
			return r, err
		}
		o.recorder.IncRenderResult(kind.Label(), metrics.ResultSuccess)
		return r, nil
	})
	return renders, err
}

// SortCollection orders the direct items and every data group by path. The
// sorts run concurrently.
func SortCollection(c *taxonomy.Collection) {
	var wg conc.WaitGroup
	wg.Go(c.SortByPath)
	for _, g := range c.DataGroups() {
		wg.Go(func() { c.SortGroupByPath(g) })
	}
	wg.Wait()
}

type task struct {
	kind taxonomy.Kind
	item taxonomy.Item
}

// ParMapItems calls fn for the index, every datum and every direct item of c
// with at most limit calls in flight. Results are returned in task order and
// all failures are chained in that same order.
func ParMapItems[R any](ctx context.Context, c *taxonomy.Collection, limit int, fn func(context.Context, taxonomy.Kind, taxonomy.Item) (R, error)) ([]R, error) {
	var tasks []task
	if c.Index != nil {
		tasks = append(tasks, task{kind: taxonomy.Index(), item: *c.Index})
	}
	for _, g := range c.DataGroups() {
		for _, it := range c.Data[g].All() {
			tasks = append(tasks, task{kind: taxonomy.Datum(g), item: it})
		}
	}
	for i, it := range c.Items.All() {
		tasks = append(tasks, task{kind: taxonomy.AtPosition(i), item: it})
	}

	results := make([]R, len(tasks))
	errs := make([]error, len(tasks))
	p := pool.New().WithContext(ctx)
	if limit > 0 {
		p = p.WithMaxGoroutines(limit)
	}
	for i, t := range tasks {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = fn(ctx, t.kind, t.item)
			return nil
		})
	}
	_ = p.Wait()
	return results, ferrors.ChainAll(errs...)
}

func renderResources[R any](ctx context.Context, site *taxonomy.Site, v Visitor[R], o *options) error {
	return site.Resources.Slice().ParallelEachLimit(ctx, o.concurrency, func(_ int, item taxonomy.Item) error {
		if err := v.RenderSiteItem(ctx, item); err != nil {
			o.recorder.IncRenderResult("resource", metrics.ResultFailed)
			return err
		}
		o.recorder.IncRenderResult("resource", metrics.ResultSuccess)
		return nil
	})
}
