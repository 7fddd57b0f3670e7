// Package search collects searchable page sections during a build and writes
// them out as a JSON or SQLite index.
package search

import (
	"cmp"
	"slices"
	"sync"

	"git.home.luguber.info/inful/mockingbird/internal/markdown"
)

// Record is a page section together with the URL of its page.
type Record struct {
	URL string `json:"url"`
	markdown.Document
}

// Index accumulates records from concurrently rendered pages.
type Index struct {
	mu      sync.Mutex
	records []Record
}

func NewIndex() *Index { return &Index{} }

// Add records the sections of the page at url.
func (x *Index) Add(url string, docs []markdown.Document) {
	if len(docs) == 0 {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, d := range docs {
		x.records = append(x.records, Record{URL: url, Document: d})
	}
}

// Len returns the number of records.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.records)
}

// Records returns the records ordered by page URL. Sections of one page keep
// their document order.
func (x *Index) Records() []Record {
	x.mu.Lock()
	out := slices.Clone(x.records)
	x.mu.Unlock()
	slices.SortStableFunc(out, func(a, b Record) int { return cmp.Compare(a.URL, b.URL) })
	return out
}
