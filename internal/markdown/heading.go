package markdown

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mockingbird/internal/slug"
)

// AutoHeading assigns ids to headings that have none. The id is the slug of
// the heading's text; repeats within a document get "-1", "-2", ... appended.
type AutoHeading struct {
	Base
	seen map[string]int
}

func NewAutoHeading() *AutoHeading {
	return &AutoHeading{}
}

func (a *AutoHeading) Remap(s Stream) Stream {
	a.seen = map[string]int{}
	q := &queue{}
	return StreamFunc(func() (Event, bool) {
		if ev, ok := q.pop(); ok {
			return ev, true
		}
		ev, ok := s.Next()
		if !ok || !ev.IsStart(TagHeading) {
			return ev, ok
		}
		if ev.Tag.ID != "" {
			a.reserve(ev.Tag.ID)
			return ev, true
		}

		var text strings.Builder
		for {
			inner, ok := s.Next()
			if !ok {
				break
			}
			q.push(inner)
			if inner.IsEnd(TagHeading) {
				break
			}
			if inner.Kind == EventText || inner.Kind == EventCode {
				text.WriteString(inner.Text)
			}
		}
		if id := slug.Make(text.String()); id != "" {
			ev.Tag.ID = a.unique(id)
		}
		return ev, true
	})
}

func (a *AutoHeading) reserve(id string) {
	if _, ok := a.seen[id]; !ok {
		a.seen[id] = 0
	}
}

func (a *AutoHeading) unique(id string) string {
	n, ok := a.seen[id]
	if !ok {
		a.seen[id] = 0
		return id
	}
	for {
		n++
		candidate := id + "-" + strconv.Itoa(n)
		if _, taken := a.seen[candidate]; !taken {
			a.seen[id] = n
			a.seen[candidate] = 0
			return candidate
		}
	}
}

// HeadingAnchor inserts a self link after the start of every heading that
// has an id.
type HeadingAnchor struct {
	Base
}

func NewHeadingAnchor() *HeadingAnchor { return &HeadingAnchor{} }

func (HeadingAnchor) Remap(s Stream) Stream {
	var pending *Event
	return StreamFunc(func() (Event, bool) {
		if pending != nil {
			ev := *pending
			pending = nil
			return ev, true
		}
		ev, ok := s.Next()
		if ok && ev.IsStart(TagHeading) && ev.Tag.ID != "" {
			anchor := HTML(`<a class="anchor" title="anchor" href="#` + html.EscapeString(ev.Tag.ID) + `"></a>`)
			pending = &anchor
		}
		return ev, ok
	})
}
