package taxonomy

import (
	"cmp"
	"slices"

	"git.home.luguber.info/inful/mockingbird/internal/fstree"
	"git.home.luguber.info/inful/mockingbird/internal/list"
)

// Collection is a directory of content with at most one index item.
type Collection struct {
	Root  fstree.EntryID
	Name  string
	Index *Item
	Items *list.List[Item]
	Data  map[fstree.EntryID]*list.List[Item]

	tree *fstree.Tree
}

// NewCollection returns an empty collection rooted at root.
func NewCollection(tree *fstree.Tree, root fstree.EntryID, name string) *Collection {
	return &Collection{
		Root:  root,
		Name:  name,
		Items: list.New[Item](),
		Data:  make(map[fstree.EntryID]*list.List[Item]),
		tree:  tree,
	}
}

// Entry returns the collection's root directory.
func (c *Collection) Entry() *fstree.Entry { return c.tree.Entry(c.Root) }

// NewItem appends a direct item.
func (c *Collection) NewItem(id fstree.EntryID) Item {
	it := NewItem(c.tree, id)
	c.Items.Push(it)
	return it
}

// NewDatum appends a data item to the group keyed by its directory.
func (c *Collection) NewDatum(group, id fstree.EntryID) Item {
	l, ok := c.Data[group]
	if !ok {
		l = list.New[Item]()
		c.Data[group] = l
	}
	it := NewItem(c.tree, id)
	l.Push(it)
	return it
}

// SetIndex installs the index item.
func (c *Collection) SetIndex(id fstree.EntryID) Item {
	it := NewItem(c.tree, id)
	c.Index = &it
	return it
}

// DataGroups returns the data group directories in id order.
func (c *Collection) DataGroups() []fstree.EntryID {
	groups := make([]fstree.EntryID, 0, len(c.Data))
	for g := range c.Data {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups
}

// SortByPath orders the direct items by path.
func (c *Collection) SortByPath() {
	c.Items.SortBy(byPath)
}

// SortGroupByPath orders one data group by path.
func (c *Collection) SortGroupByPath(group fstree.EntryID) {
	if l, ok := c.Data[group]; ok {
		l.SortBy(byPath)
	}
}

func byPath(a, b Item) int { return cmp.Compare(a.Path(), b.Path()) }
