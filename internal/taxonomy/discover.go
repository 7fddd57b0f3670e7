package taxonomy

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/armon/go-radix"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/fstree"
	"git.home.luguber.info/inful/mockingbird/internal/logfields"
	"git.home.luguber.info/inful/mockingbird/internal/metadata"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// RootCollection is the name of the collection rooted at the content root.
const RootCollection = "/"

// ErrDuplicateIndex is returned when a directory holds two index files.
var ErrDuplicateIndex = ferrors.StructureError("found multiple index files for a single collection").Build()

// Roots names the directories discovery starts from. Assets may be
// fstree.NoEntry when the site has no assets directory.
type Roots struct {
	Content fstree.EntryID
	Assets  fstree.EntryID
}

// Option configures Discover.
type Option func(*discoverer)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option { return func(d *discoverer) { d.logger = l } }

type discoverer struct {
	tree   *fstree.Tree
	roots  Roots
	site   *Site
	owners *radix.Tree
	logger *slog.Logger
}

// Discover builds the site model from tree. The only failure it reports is a
// collection with more than one index file.
func Discover(tree *fstree.Tree, roots Roots, opts ...Option) (*Site, error) {
	d := &discoverer{
		tree:   tree,
		roots:  roots,
		site:   NewSite(tree),
		owners: radix.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.resources()
	if err := d.collections(); err != nil {
		return nil, err
	}
	d.items()

	d.logger.Debug("Discovered site",
		logfields.Count(d.site.Items()),
		slog.Int("collections", len(d.site.collections)))
	return d.site, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.EqualFold(name, "include") ||
		strings.EqualFold(name, "includes")
}

// resources turns every visible file under the assets root into a resource
// whose permapath is relative to that root.
func (d *discoverer) resources() {
	if d.roots.Assets == fstree.NoEntry {
		return
	}
	assets := d.tree.Entry(d.roots.Assets)
	for id := range d.tree.DFS(assets.ID, func(e *fstree.Entry) bool { return !hidden(e.Name) }) {
		e := d.tree.Entry(id)
		if hidden(e.Name) || !e.IsFile() {
			continue
		}
		rel, err := e.RelativeTo(assets)
		if err != nil {
			continue
		}
		it := d.site.NewResource(id)
		it.Meta.Insert(metadata.KeyPermapath, value.Path(rel))
		d.annotate(it)
	}
}

// collections creates one collection per directory holding an index file.
func (d *discoverer) collections() error {
	content := d.tree.Entry(d.roots.Content)
	for id := range d.tree.Files(d.tree.BFS(content.ID)) {
		e := d.tree.Entry(id)
		if e.Stem() != "index" {
			continue
		}
		group := d.tree.Entry(e.Parent)
		c := d.site.GetOrInsertCollection(group.ID, func() string { return d.collectionName(group) })
		if c.Index != nil {
			return ErrDuplicateIndex.
				WithContext("faulting collection", group.Path).
				WithContext("first index", c.Index.Path()).
				WithContext("second index", e.Path)
		}
		d.annotate(c.SetIndex(id))
		d.owners.Insert(ownerKey(group.Path), c)
	}
	return nil
}

// items assigns every non-index content file to its nearest collection.
func (d *discoverer) items() {
	content := d.tree.Entry(d.roots.Content)
	for id := range d.tree.Files(d.tree.BFS(content.ID)) {
		e := d.tree.Entry(id)
		if e.Stem() == "index" {
			continue
		}
		c := d.owner(e)
		if e.Depth-c.Entry().Depth <= 1 {
			d.annotate(c.NewItem(id))
		} else {
			d.annotate(c.NewDatum(e.Parent, id))
		}
	}
}

func (d *discoverer) owner(e *fstree.Entry) *Collection {
	parent := d.tree.Entry(e.Parent)
	if _, v, ok := d.owners.LongestPrefix(ownerKey(parent.Path)); ok {
		return v.(*Collection)
	}
	c := d.site.GetOrInsertCollection(d.roots.Content, func() string { return RootCollection })
	d.owners.Insert(ownerKey(d.tree.Entry(d.roots.Content).Path), c)
	return c
}

func (d *discoverer) collectionName(group *fstree.Entry) string {
	rel, err := group.RelativeTo(d.tree.Entry(d.roots.Content))
	if err != nil || rel == "." {
		return RootCollection
	}
	return filepath.ToSlash(rel)
}

func (d *discoverer) annotate(it Item) {
	e := it.Entry()
	it.Meta.Insert(metadata.KeySourcePath, value.Path(e.RelativePath(d.tree)))
	it.Meta.Insert(metadata.KeyFileStem, value.String(e.Stem()))
}

func ownerKey(dir string) string {
	return strings.TrimSuffix(dir, string(filepath.Separator)) + string(filepath.Separator)
}
