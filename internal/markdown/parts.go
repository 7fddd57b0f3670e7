package markdown

import (
	"strings"

	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// PartSeparator opens a paragraph that splits a document into parts.
const PartSeparator = "==="

// Parts splits the document at separator paragraphs and renders each part
// separately. The joined HTML replaces the stream as a single HTML event and
// the parts are written to the sink as an array of strings. A document with
// no separator has no parts.
type Parts struct {
	Base
	sink  value.Sink
	parts []string
}

func NewParts(sink value.Sink) *Parts {
	return &Parts{sink: sink}
}

func (p *Parts) Remap(s Stream) Stream {
	p.parts = nil
	done := false
	return StreamFunc(func() (Event, bool) {
		if done {
			return Event{}, false
		}
		done = true

		var (
			sections []string
			current  []Event
			found    bool
		)
		for {
			ev, ok := s.Next()
			if !ok {
				break
			}
			if !ev.IsStart(TagParagraph) {
				current = append(current, ev)
				continue
			}
			first, ok := s.Next()
			if !ok {
				current = append(current, ev)
				break
			}
			if first.Kind != EventText || !strings.HasPrefix(first.Text, PartSeparator) {
				current = append(current, ev, first)
				continue
			}

			skipParagraph(s)
			found = true
			sections = append(sections, RenderHTML(Events(current...)))
			current = nil
		}
		if !found || len(current) > 0 {
			sections = append(sections, RenderHTML(Events(current...)))
		}

		if found {
			p.parts = sections
		}
		return HTML(strings.Join(sections, "")), true
	})
}

func (p *Parts) Finalize() error {
	parts := p.parts
	p.parts = nil
	return p.sink.Write(value.Strings(parts))
}

// skipParagraph consumes events up to and including the end of the current
// paragraph.
func skipParagraph(s Stream) {
	depth := 1
	for depth > 0 {
		ev, ok := s.Next()
		if !ok {
			return
		}
		switch {
		case ev.IsStart(TagParagraph):
			depth++
		case ev.IsEnd(TagParagraph):
			depth--
		}
	}
}
