// Package fstree indexes a directory into an immutable arena of entries.
//
// Entries are numbered in breadth-first discovery order, so a parent always
// has a smaller id than its children and every level is complete before the
// next one starts. Children are sorted by name, which makes the ids stable
// across runs over an unchanged tree.
package fstree

import (
	"iter"
	"path/filepath"
	"slices"
	"strings"
)

// Tree is the immutable entry arena produced by Build.
type Tree struct {
	entries []*Entry
	byPath  map[string]EntryID
}

// Root returns the id of the root entry.
func (t *Tree) Root() EntryID { return 0 }

// Len returns the number of entries.
func (t *Tree) Len() int { return len(t.entries) }

// Entry returns the entry for id. It panics on an id from another tree.
func (t *Tree) Entry(id EntryID) *Entry { return t.entries[id] }

// Get resolves rel against the entry from.
func (t *Tree) Get(from EntryID, rel string) (EntryID, bool) {
	p := filepath.Clean(filepath.Join(t.entries[from].Path, rel))
	id, ok := t.byPath[p]
	return id, ok
}

// GetFile is Get restricted to files.
func (t *Tree) GetFile(from EntryID, rel string) (EntryID, bool) {
	id, ok := t.Get(from, rel)
	if !ok || !t.entries[id].IsFile() {
		return NoEntry, false
	}
	return id, true
}

// Search finds an entry by a path relative to the root by walking down from
// the root one component at a time.
func (t *Tree) Search(rel string) (EntryID, bool) {
	rel = filepath.Clean(rel)
	if rel == "." || rel == "" {
		return t.Root(), true
	}
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return NoEntry, false
	}
	cur := t.Root()
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		children := t.entries[cur].Children
		i, found := slices.BinarySearchFunc(children, part, func(id EntryID, name string) int {
			return strings.Compare(t.entries[id].Name, name)
		})
		if !found {
			return NoEntry, false
		}
		cur = children[i]
	}
	return cur, true
}

// BFS yields from and its descendants in breadth-first order. Only nodes
// with children are kept on the frontier.
func (t *Tree) BFS(from EntryID) iter.Seq[EntryID] {
	return func(yield func(EntryID) bool) {
		if !yield(from) {
			return
		}
		var frontier []EntryID
		if len(t.entries[from].Children) > 0 {
			frontier = append(frontier, from)
		}
		for next := 0; next < len(frontier); next++ {
			for _, c := range t.entries[frontier[next]].Children {
				if !yield(c) {
					return
				}
				if len(t.entries[c].Children) > 0 {
					frontier = append(frontier, c)
				}
			}
		}
	}
}

// DFS yields from and its descendants in pre-order. When descend returns
// false for an entry its subtree is skipped. A nil descend visits everything.
func (t *Tree) DFS(from EntryID, descend func(*Entry) bool) iter.Seq[EntryID] {
	return func(yield func(EntryID) bool) {
		stack := []EntryID{from}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(id) {
				return
			}
			e := t.entries[id]
			if descend != nil && !descend(e) {
				continue
			}
			for i := len(e.Children) - 1; i >= 0; i-- {
				stack = append(stack, e.Children[i])
			}
		}
	}
}

// Ancestors yields the parent of id, then its parent, up to the root.
func (t *Tree) Ancestors(id EntryID) iter.Seq[EntryID] {
	return func(yield func(EntryID) bool) {
		for p := t.entries[id].Parent; p != NoEntry; p = t.entries[p].Parent {
			if !yield(p) {
				return
			}
		}
	}
}

// IsDescendant reports whether node is ancestor or lies below it.
func (t *Tree) IsDescendant(ancestor, node EntryID) bool {
	if ancestor == node {
		return true
	}
	a, n := t.entries[ancestor], t.entries[node]
	if n.Depth <= a.Depth {
		return false
	}
	if strings.HasPrefix(n.Path, a.Path+string(filepath.Separator)) {
		return true
	}
	for p := range t.Ancestors(node) {
		if p == ancestor {
			return true
		}
	}
	return false
}

// Files filters seq down to file entries.
func (t *Tree) Files(seq iter.Seq[EntryID]) iter.Seq[EntryID] {
	return func(yield func(EntryID) bool) {
		for id := range seq {
			if t.entries[id].IsFile() && !yield(id) {
				return
			}
		}
	}
}
