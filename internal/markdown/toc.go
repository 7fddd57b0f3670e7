package markdown

import (
	"strings"

	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// TOCEntry is one heading in a table of contents.
type TOCEntry struct {
	Title    string
	Level    int
	ID       string
	Children []*TOCEntry
}

// Value converts e to a dict with title, level, id and children keys. A
// heading without an id has a null id.
func (e *TOCEntry) Value() value.Value {
	children := make([]value.Value, len(e.Children))
	for i, c := range e.Children {
		children[i] = c.Value()
	}
	id := value.Null()
	if e.ID != "" {
		id = value.String(e.ID)
	}
	return value.DictOf(value.Dict{
		"title":    value.String(e.Title),
		"level":    value.Int(e.Level),
		"id":       id,
		"children": value.Array(children...),
	})
}

// TableOfContents nests the document's headings by level and writes them to
// the sink as an array of entries.
type TableOfContents struct {
	Base
	sink    value.Sink
	entries []*TOCEntry
}

func NewTableOfContents(sink value.Sink) *TableOfContents {
	return &TableOfContents{sink: sink}
}

// Entries returns the top-level entries gathered so far.
func (t *TableOfContents) Entries() []*TOCEntry { return t.entries }

func (t *TableOfContents) Remap(s Stream) Stream {
	t.entries = nil
	var (
		current *TOCEntry
		title   strings.Builder
	)
	return StreamFunc(func() (Event, bool) {
		ev, ok := s.Next()
		if !ok {
			return ev, ok
		}
		switch {
		case ev.IsStart(TagHeading):
			current = &TOCEntry{Level: ev.Tag.Level, ID: ev.Tag.ID}
			title.Reset()
		case current != nil && (ev.Kind == EventText || ev.Kind == EventCode):
			title.WriteString(ev.Text)
		case current != nil && ev.IsEnd(TagHeading):
			current.Title = title.String()
			t.entries = insertTOC(t.entries, current)
			current = nil
		}
		return ev, true
	})
}

// insertTOC places e under the deepest trailing entry with a lower level.
func insertTOC(entries []*TOCEntry, e *TOCEntry) []*TOCEntry {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Level < e.Level {
			entries[i].Children = insertTOC(entries[i].Children, e)
			return entries
		}
	}
	return append(entries, e)
}

func (t *TableOfContents) Finalize() error {
	out := make([]value.Value, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Value()
	}
	return t.sink.Write(value.Array(out...))
}
