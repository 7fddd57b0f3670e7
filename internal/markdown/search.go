package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// Document is one searchable section of a page: the text under a heading
// with an id, up to the next such heading.
type Document struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Breadcrumb string `json:"breadcrumb"`
	Body       string `json:"body"`
}

// BreadcrumbSeparator joins the titles of enclosing headings.
const BreadcrumbSeparator = " > "

type crumb struct {
	level int
	title string
}

// SearchIndexer splits a document into sections and hands them to a
// collector on Finalize. Text outside any section is not indexed.
type SearchIndexer struct {
	Base
	collect func([]Document) error
	docs    []Document
}

func NewSearchIndexer(collect func([]Document) error) *SearchIndexer {
	return &SearchIndexer{collect: collect}
}

// Documents returns the sections gathered from the last document.
func (x *SearchIndexer) Documents() []Document { return x.docs }

func (x *SearchIndexer) Remap(s Stream) Stream {
	x.docs = nil
	var (
		crumbs    []crumb
		inHeading bool
		level     int
	)
	last := func() *Document {
		if len(x.docs) == 0 {
			return nil
		}
		return &x.docs[len(x.docs)-1]
	}

	return StreamFunc(func() (Event, bool) {
		ev, ok := s.Next()
		if !ok {
			return ev, ok
		}

		switch ev.Kind {
		case EventStart:
			if ev.Tag.Kind == TagHeading && ev.Tag.ID != "" {
				for len(crumbs) > 0 && crumbs[len(crumbs)-1].level >= ev.Tag.Level {
					crumbs = crumbs[:len(crumbs)-1]
				}
				inHeading, level = true, ev.Tag.Level
				x.docs = append(x.docs, Document{ID: ev.Tag.ID})
			}
		case EventEnd:
			if ev.Tag.Kind == TagHeading && inHeading {
				inHeading = false
				doc := last()
				crumbs = append(crumbs, crumb{level: level, title: doc.Title})
				titles := make([]string, len(crumbs))
				for i, c := range crumbs {
					titles[i] = c.title
				}
				doc.Breadcrumb = strings.Join(titles, BreadcrumbSeparator)
			}
		case EventText, EventCode:
			if doc := last(); doc != nil {
				if inHeading {
					doc.Title += ev.Text
				} else {
					doc.Body += ev.Text
				}
			}
		case EventHTML, EventInlineHTML:
			if doc := last(); doc != nil && !inHeading {
				doc.Body += htmlText(ev.Text)
			}
		case EventSoftBreak, EventHardBreak:
			if doc := last(); doc != nil && !inHeading {
				doc.Body += " "
			}
		}
		return ev, true
	})
}

func (x *SearchIndexer) Finalize() error {
	if x.collect == nil || len(x.docs) == 0 {
		return nil
	}
	return x.collect(x.docs)
}

// htmlText returns the character data of an HTML fragment.
func htmlText(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
