// Package watch rebuilds a site whenever its input directory changes, and
// optionally on a fixed interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/mockingbird/internal/logfields"
)

// Triggers passed to BuildFunc.
const (
	TriggerInitial  = "initial"
	TriggerChange   = "change"
	TriggerInterval = "interval"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc runs one build. Its error is logged and does not stop watching.
type BuildFunc func(ctx context.Context, trigger string) error

// Watcher runs builds for one input directory. Builds never overlap; triggers
// arriving during a build are coalesced into a single follow-up build.
type Watcher struct {
	root     string
	build    BuildFunc
	ignore   []string
	debounce time.Duration
	interval time.Duration
	logger   *slog.Logger

	requests chan string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle time after a file change.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// WithInterval adds a periodic rebuild. Zero disables it.
func WithInterval(d time.Duration) Option { return func(w *Watcher) { w.interval = d } }

// WithIgnore excludes directories, typically the output directory when it
// lives inside the input.
func WithIgnore(dirs ...string) Option {
	return func(w *Watcher) {
		for _, d := range dirs {
			if abs, err := filepath.Abs(d); err == nil {
				w.ignore = append(w.ignore, abs)
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

func New(root string, build BuildFunc, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		build:    build,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		requests: make(chan string, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run builds once, then keeps rebuilding until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return fmt.Errorf("resolve input directory: %w", err)
	}
	w.root = root

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()
	w.addDirsRecursive(fsw, w.root)

	if w.interval > 0 {
		sched, err := w.schedule()
		if err != nil {
			return err
		}
		sched.Start()
		defer func() { _ = sched.Shutdown() }()
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()
	defer wg.Wait()
	defer cancel()

	w.request(TriggerInitial)
	trigger := w.debouncer()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev, trigger)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) schedule() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() { w.request(TriggerInterval) }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic build job: %w", err)
	}
	return s, nil
}

// request queues a build unless one is already queued.
func (w *Watcher) request(trigger string) {
	select {
	case w.requests <- trigger:
	default:
	}
}

func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-w.requests:
			start := time.Now()
			if err := w.build(ctx, trigger); err != nil {
				w.logger.Warn("Rebuild failed", logfields.Trigger(trigger), logfields.Error(err))
				continue
			}
			w.logger.Info("Rebuilt site",
				logfields.Trigger(trigger),
				logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		}
	}
}

// debouncer returns a function that requests a change build once no call has
// been made for the debounce period.
func (w *Watcher) debouncer() func() {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() { w.request(TriggerChange) })
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if w.shouldIgnore(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fsw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != w.root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnore reports whether a change to path cannot affect the build:
// hidden files, editor temporaries and ignored directories.
func (w *Watcher) shouldIgnore(path string) bool {
	for _, dir := range w.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
