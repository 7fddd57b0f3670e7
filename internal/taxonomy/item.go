package taxonomy

import (
	"fmt"

	"git.home.luguber.info/inful/mockingbird/internal/fstree"
	"git.home.luguber.info/inful/mockingbird/internal/metadata"
)

// Item is one file of the site together with its metadata. Item is a small
// value; copies share the same Metadata.
type Item struct {
	ID   fstree.EntryID
	Tree *fstree.Tree
	Meta *metadata.Metadata
}

// NewItem returns an item for id with empty metadata.
func NewItem(tree *fstree.Tree, id fstree.EntryID) Item {
	return Item{ID: id, Tree: tree, Meta: metadata.New()}
}

// Entry returns the file system entry of the item.
func (i Item) Entry() *fstree.Entry { return i.Tree.Entry(i.ID) }

// Path returns the absolute path of the item's file.
func (i Item) Path() string { return i.Entry().Path }

// RelativePath returns the path relative to the tree root.
func (i Item) RelativePath() string { return i.Entry().RelativePath(i.Tree) }

// KindType distinguishes the roles an item plays inside a collection.
type KindType uint8

const (
	KindIndex KindType = iota
	KindDatum
	KindItem
)

// Kind describes an item's role. Position is set for KindItem and Group for
// KindDatum.
type Kind struct {
	Type     KindType
	Position int
	Group    fstree.EntryID
}

// Index returns the kind of a collection's index item.
func Index() Kind { return Kind{Type: KindIndex, Group: fstree.NoEntry} }

// Datum returns the kind of a data item in the given directory.
func Datum(group fstree.EntryID) Kind { return Kind{Type: KindDatum, Group: group} }

// AtPosition returns the kind of the i-th direct item.
func AtPosition(i int) Kind { return Kind{Type: KindItem, Position: i, Group: fstree.NoEntry} }

func (k Kind) String() string {
	switch k.Type {
	case KindIndex:
		return "index"
	case KindDatum:
		return fmt.Sprintf("datum(%d)", k.Group)
	default:
		return fmt.Sprintf("item(%d)", k.Position)
	}
}

// Label returns the kind without its payload, for logs and metrics.
func (k Kind) Label() string {
	switch k.Type {
	case KindIndex:
		return "index"
	case KindDatum:
		return "datum"
	default:
		return "item"
	}
}
