package taxonomy

import (
	"slices"

	"git.home.luguber.info/inful/mockingbird/internal/fstree"
	"git.home.luguber.info/inful/mockingbird/internal/list"
)

// Site is the discovered content model.
type Site struct {
	Tree      *fstree.Tree
	Resources *list.List[Item]

	collections map[fstree.EntryID]*Collection
	byName      map[string]*Collection
}

// NewSite returns an empty site over tree.
func NewSite(tree *fstree.Tree) *Site {
	return &Site{
		Tree:        tree,
		Resources:   list.New[Item](),
		collections: make(map[fstree.EntryID]*Collection),
		byName:      make(map[string]*Collection),
	}
}

// NewResource appends a site-level resource.
func (s *Site) NewResource(id fstree.EntryID) Item {
	it := NewItem(s.Tree, id)
	s.Resources.Push(it)
	return it
}

// GetOrInsertCollection returns the collection rooted at root, creating it
// with name if needed.
func (s *Site) GetOrInsertCollection(root fstree.EntryID, name func() string) *Collection {
	if c, ok := s.collections[root]; ok {
		return c
	}
	c := NewCollection(s.Tree, root, name())
	s.collections[root] = c
	s.byName[c.Name] = c
	return c
}

// Collection returns the collection rooted at root.
func (s *Site) Collection(root fstree.EntryID) (*Collection, bool) {
	c, ok := s.collections[root]
	return c, ok
}

// CollectionByName finds a collection by its name.
func (s *Site) CollectionByName(name string) (*Collection, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Collections returns all collections ordered by root id.
func (s *Site) Collections() []*Collection {
	out := make([]*Collection, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *Collection) int { return int(a.Root) - int(b.Root) })
	return out
}

// Items returns the number of items across all collections, including index
// and data items, plus resources.
func (s *Site) Items() int {
	n := s.Resources.Len()
	for _, c := range s.collections {
		n += c.Items.Len()
		if c.Index != nil {
			n++
		}
		for _, l := range c.Data {
			n += l.Len()
		}
	}
	return n
}
