package fstree

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	conciter "github.com/sourcegraph/conc/iter"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/logfields"
)

var (
	// ErrNoFiles is returned when a build finds no regular files.
	ErrNoFiles = ferrors.DiscoveryError("file system tree discovery yielded zero files").Build()

	// ErrSymlinkCycle is returned when a symlinked directory resolves to one
	// of its own ancestors.
	ErrSymlinkCycle = ferrors.DiscoveryError("symbolic link forms a directory cycle").Build()
)

// Visitor is called once per inserted entry in id order. A non-nil error
// aborts the build.
type Visitor func(*Entry) error

type options struct {
	visitor     Visitor
	concurrency int
	logger      *slog.Logger
}

// Option configures Build.
type Option func(*options)

// WithVisitor installs a callback run for every entry as it is inserted.
func WithVisitor(v Visitor) Option { return func(o *options) { o.visitor = v } }

// WithConcurrency bounds the number of directories read at once.
func WithConcurrency(n int) Option { return func(o *options) { o.concurrency = n } }

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

type child struct {
	path     string
	name     string
	info     os.FileInfo
	symlink  bool
	realPath string
}

// builder holds the per-entry real paths needed for cycle detection.
type builder struct {
	opts  options
	tree  *Tree
	real  []string
	files int
}

// Build indexes the directory at root. Symlinks are followed; broken links
// are skipped.
func Build(ctx context.Context, root string, opts ...Option) (*Tree, error) {
	o := options{concurrency: runtime.GOMAXPROCS(0), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}

	start := time.Now()
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve search root").
			WithContext("search root", root).Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read search root").
			WithContext("search root", abs).Build()
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve search root").
			WithContext("search root", abs).Build()
	}

	b := &builder{
		opts: o,
		tree: &Tree{byPath: make(map[string]EntryID)},
	}
	if err := b.insert(NoEntry, child{path: abs, name: filepath.Base(abs), info: info, realPath: resolved}); err != nil {
		return nil, err
	}

	level := []EntryID{0}
	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mapper := conciter.Mapper[EntryID, []child]{MaxGoroutines: o.concurrency}
		read, err := mapper.MapErr(level, func(id *EntryID) ([]child, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return b.readDir(*id)
		})
		if err != nil {
			return nil, err
		}

		var next []EntryID
		for i, parent := range level {
			for _, c := range read[i] {
				if err := b.insert(parent, c); err != nil {
					return nil, err
				}
				id := EntryID(len(b.tree.entries) - 1)
				if b.tree.entries[id].IsDir() {
					next = append(next, id)
				}
			}
		}
		level = next
	}

	if b.files == 0 {
		return nil, ErrNoFiles.WithContext("search root", abs)
	}

	o.logger.Debug("Indexed file system tree",
		logfields.Path(abs),
		logfields.Entries(len(b.tree.entries)),
		logfields.Count(b.files),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return b.tree, nil
}

func (b *builder) insert(parent EntryID, c child) error {
	t := b.tree
	id := EntryID(len(t.entries))
	e := &Entry{
		ID:      id,
		Path:    c.path,
		Name:    c.name,
		Type:    typeOf(c.info),
		Symlink: c.symlink,
		Info:    c.info,
		Parent:  parent,
	}
	if parent != NoEntry {
		p := t.entries[parent]
		e.Depth = p.Depth + 1
		p.Children = append(p.Children, id)
	}
	if b.opts.visitor != nil {
		if err := b.opts.visitor(e); err != nil {
			return err
		}
	}
	t.entries = append(t.entries, e)
	t.byPath[e.Path] = id
	b.real = append(b.real, c.realPath)
	if e.IsFile() {
		b.files++
	}
	return nil
}

// readDir lists the children of a directory entry. It only reads state
// belonging to already inserted entries, so calls for one level may run
// concurrently.
func (b *builder) readDir(id EntryID) ([]child, error) {
	e := b.tree.entries[id]
	dirents, err := os.ReadDir(e.Path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read directory").
			WithContext("path", e.Path).Build()
	}

	out := make([]child, 0, len(dirents))
	for _, d := range dirents {
		p := filepath.Join(e.Path, d.Name())
		c := child{path: p, name: d.Name(), symlink: d.Type()&os.ModeSymlink != 0}

		if c.symlink {
			info, err := os.Stat(p)
			if err != nil {
				b.opts.logger.Warn("Skipping broken symbolic link", logfields.Path(p), logfields.Error(err))
				continue
			}
			c.info = info
			if info.IsDir() {
				resolved, err := filepath.EvalSymlinks(p)
				if err != nil {
					return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve symbolic link").
						WithContext("path", p).Build()
				}
				if ancestor, ok := b.cycle(id, resolved); ok {
					return nil, ErrSymlinkCycle.
						WithContext("link", p).
						WithContext("target", ancestor)
				}
				c.realPath = resolved
			}
		} else {
			info, err := d.Info()
			if err != nil {
				return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to stat file").
					WithContext("path", p).Build()
			}
			c.info = info
			if info.IsDir() {
				c.realPath = filepath.Join(b.real[id], d.Name())
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// cycle reports the ancestor directory whose real path equals resolved.
func (b *builder) cycle(parent EntryID, resolved string) (string, bool) {
	for p := parent; p != NoEntry; p = b.tree.entries[p].Parent {
		if b.real[p] == resolved {
			return b.tree.entries[p].Path, true
		}
	}
	return "", false
}

func typeOf(info os.FileInfo) FileType {
	switch {
	case info.Mode().IsRegular():
		return TypeFile
	case info.IsDir():
		return TypeDir
	default:
		return TypeOther
	}
}

// String renders a short description for debugging.
func (e *Entry) String() string {
	return fmt.Sprintf("%s(%d %s)", e.Type, e.ID, e.Path)
}
