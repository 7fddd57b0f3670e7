package templates

import (
	"maps"

	"git.home.luguber.info/inful/mockingbird/internal/fstree"
	"git.home.luguber.info/inful/mockingbird/internal/metadata"
	"git.home.luguber.info/inful/mockingbird/internal/taxonomy"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// Context names the item being rendered and where it lives. Collection is
// nil for site resources.
type Context struct {
	Site       *taxonomy.Site
	Collection *taxonomy.Collection
	Item       taxonomy.Item
}

// Keys added next to an item's own metadata. Metadata wins on collision.
const (
	KeyGlobals    = "G"
	KeySite       = "site"
	KeyCollection = "collection"
	KeyPosition   = "position"
	KeyIsIndex    = "is_index"
	KeyNext       = "next"
	KeyPrevious   = "previous"
)

// siteView is the template-facing snapshot of a site. It is built once, after
// rendering has finished writing metadata.
type siteView struct {
	items       map[fstree.EntryID]map[string]any
	collections map[fstree.EntryID]map[string]any
	root        map[string]any
}

func metaMap(m *metadata.Metadata) map[string]any {
	out, _ := value.ToAny(value.DictOf(m.Snapshot())).(map[string]any)
	return out
}

func buildSiteView(site *taxonomy.Site) *siteView {
	v := &siteView{
		items:       make(map[fstree.EntryID]map[string]any),
		collections: make(map[fstree.EntryID]map[string]any),
	}
	view := func(it taxonomy.Item) map[string]any {
		m, ok := v.items[it.ID]
		if !ok {
			m = metaMap(it.Meta)
			v.items[it.ID] = m
		}
		return m
	}

	byName := make(map[string]any)
	for _, c := range site.Collections() {
		items := make([]any, 0, c.Items.Len())
		for _, it := range c.Items.All() {
			items = append(items, view(it))
		}
		data := make(map[string]any, len(c.Data))
		for _, g := range c.DataGroups() {
			group := make([]any, 0, c.Data[g].Len())
			for _, it := range c.Data[g].All() {
				group = append(group, view(it))
			}
			data[site.Tree.Entry(g).Stem()] = group
		}
		cv := map[string]any{
			"name":  c.Name,
			"items": items,
			"data":  data,
		}
		if c.Index != nil {
			cv["index"] = view(*c.Index)
		}
		v.collections[c.Root] = cv
		byName[c.Name] = cv
	}

	resources := make([]any, 0, site.Resources.Len())
	for _, it := range site.Resources.All() {
		resources = append(resources, view(it))
	}
	v.root = map[string]any{
		"items":       resources,
		"collections": byName,
	}
	return v
}

// data builds the root template value for ctx: the item's metadata plus the
// site, collection, position and neighbour keys.
func (v *siteView) data(ctx Context, globals map[string]any) map[string]any {
	own, ok := v.items[ctx.Item.ID]
	if !ok {
		own = metaMap(ctx.Item.Meta)
	}
	out := maps.Clone(own)
	if out == nil {
		out = map[string]any{}
	}

	extra := map[string]any{
		KeyGlobals: globals,
		KeySite:    v.root,
	}
	if c := ctx.Collection; c != nil {
		extra[KeyCollection] = v.collections[c.Root]
		isIndex := c.Index != nil && c.Index.ID == ctx.Item.ID
		extra[KeyIsIndex] = isIndex

		pos := -1
		for i, it := range c.Items.All() {
			if it.ID == ctx.Item.ID {
				pos = i
				break
			}
		}
		if pos >= 0 {
			extra[KeyPosition] = pos
		}

		next := -1
		switch {
		case isIndex:
			next = 0
		case pos >= 0:
			next = pos + 1
		}
		if next >= 0 {
			if it, ok := c.Items.Get(next); ok {
				extra[KeyNext] = v.items[it.ID]
			}
		}
		switch {
		case pos == 0 && c.Index != nil:
			extra[KeyPrevious] = v.items[c.Index.ID]
		case pos > 0:
			if it, ok := c.Items.Get(pos - 1); ok {
				extra[KeyPrevious] = v.items[it.ID]
			}
		}
	}

	for k, x := range extra {
		if _, taken := out[k]; !taken {
			out[k] = x
		}
	}
	return out
}
