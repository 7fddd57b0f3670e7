package taxonomy

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mockingbird/internal/fstree"
	"git.home.luguber.info/inful/mockingbird/internal/metadata"
)

const (
	iconCollection = "🗂 "
	iconGroup      = "📦 "
	iconDatum      = "💾 "
	iconIndex      = "📑 "
	iconItem       = "📝 "
)

// Visualize writes the site as an indented tree: every collection with its
// data groups, index and items, followed by the site resources.
func (s *Site) Visualize(w io.Writer) error {
	v := &visualizer{w: w, tree: s.Tree}

	cols := s.Collections()
	for _, c := range cols {
		v.line(nil, iconCollection+c.Name)

		groups := c.DataGroups()
		items := c.Items.Values()
		for j, g := range groups {
			more := j < len(groups)-1 || c.Index != nil || len(items) > 0
			v.line([]bool{more}, iconGroup+v.rel(g, c.Root))

			data := c.Data[g].Values()
			for k, it := range data {
				v.line([]bool{more, k < len(data)-1}, iconDatum+v.rel(it.ID, g))
			}
		}
		if c.Index != nil {
			v.line([]bool{len(items) > 0}, iconIndex+v.rel(c.Index.ID, c.Root))
		}
		for j, it := range items {
			v.line([]bool{j < len(items)-1}, iconItem+v.rel(it.ID, c.Root))
		}
	}

	if s.Resources.Len() > 0 {
		res := s.Resources.Values()
		v.line(nil, iconGroup+"resources")
		for k, it := range res {
			name := it.RelativePath()
			if p, ok := it.Meta.Get(metadata.KeyPermapath); ok {
				if s, ok := p.AsText(); ok {
					name = s
				}
			}
			v.line([]bool{k < len(res)-1}, iconDatum+filepath.ToSlash(name))
		}
	}
	return v.err
}

type visualizer struct {
	w    io.Writer
	tree *fstree.Tree
	err  error
}

func (v *visualizer) rel(id, root fstree.EntryID) string {
	rel, err := v.tree.Entry(id).RelativeTo(v.tree.Entry(root))
	if err != nil {
		return v.tree.Entry(id).Name
	}
	return filepath.ToSlash(rel)
}

// line prints text behind one branch marker per level; siblings[i] reports
// whether more entries follow at level i.
func (v *visualizer) line(siblings []bool, text string) {
	if v.err != nil {
		return
	}
	var b strings.Builder
	for i, more := range siblings {
		last := i == len(siblings)-1
		switch {
		case !more && !last:
			b.WriteString("    ")
		case !more && last:
			b.WriteString("└── ")
		case more && !last:
			b.WriteString("│   ")
		default:
			b.WriteString("├── ")
		}
	}
	b.WriteString(text)
	_, v.err = fmt.Fprintln(v.w, b.String())
}
