// Package markdown turns Markdown source into HTML through a chain of stages.
//
// The parser produces a pull-based stream of events. Stages may rewrite the
// source text before parsing, wrap the stream to observe or replace events,
// and flush what they gathered once the stream has been drained.
package markdown

// EventKind identifies the variant carried by an Event.
type EventKind int

const (
	EventStart EventKind = iota
	EventEnd
	EventText
	EventCode
	EventHTML
	EventInlineHTML
	EventSoftBreak
	EventHardBreak
	EventRule
	EventTaskMarker
	EventFootnoteReference
)

// TagKind identifies the container opened by a Start event and closed by the
// matching End event.
type TagKind int

const (
	TagParagraph TagKind = iota
	TagHeading
	TagBlockQuote
	TagCodeBlock
	TagList
	TagListItem
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagLink
	TagImage
	TagTable
	TagTableHead
	TagTableRow
	TagTableCell
	TagFootnoteDefinition
)

// Alignment of a table column.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Tag describes a container. Only the fields relevant to Kind are set.
type Tag struct {
	Kind TagKind

	// Heading.
	Level   int
	ID      string
	Classes []string

	// CodeBlock. Info is the full info string of a fenced block.
	Fenced bool
	Info   string

	// List.
	Ordered bool
	Start   int

	// Link and Image.
	Dest  string
	Title string

	// Table holds column alignments; TableCell its own.
	Alignments []Alignment
	Align      Alignment

	// FootnoteDefinition.
	Label string
}

// Event is one step of a document walk.
type Event struct {
	Kind EventKind
	Tag  Tag
	// Text is the payload of Text, Code, HTML, InlineHTML and
	// FootnoteReference events.
	Text    string
	Checked bool
}

func Start(tag Tag) Event           { return Event{Kind: EventStart, Tag: tag} }
func End(tag Tag) Event             { return Event{Kind: EventEnd, Tag: tag} }
func Text(s string) Event           { return Event{Kind: EventText, Text: s} }
func Code(s string) Event           { return Event{Kind: EventCode, Text: s} }
func HTML(s string) Event           { return Event{Kind: EventHTML, Text: s} }
func InlineHTML(s string) Event     { return Event{Kind: EventInlineHTML, Text: s} }
func SoftBreak() Event              { return Event{Kind: EventSoftBreak} }
func HardBreak() Event              { return Event{Kind: EventHardBreak} }
func Rule() Event                   { return Event{Kind: EventRule} }
func TaskMarker(checked bool) Event { return Event{Kind: EventTaskMarker, Checked: checked} }

// IsStart reports whether e opens a container of kind k.
func (e Event) IsStart(k TagKind) bool { return e.Kind == EventStart && e.Tag.Kind == k }

// IsEnd reports whether e closes a container of kind k.
func (e Event) IsEnd(k TagKind) bool { return e.Kind == EventEnd && e.Tag.Kind == k }

// Stream yields events until it reports false.
type Stream interface {
	Next() (Event, bool)
}

// StreamFunc adapts a function to Stream.
type StreamFunc func() (Event, bool)

func (f StreamFunc) Next() (Event, bool) { return f() }

type sliceStream struct {
	events []Event
}

func (s *sliceStream) Next() (Event, bool) {
	if len(s.events) == 0 {
		return Event{}, false
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, true
}

// Events returns a stream over a fixed list of events.
func Events(events ...Event) Stream {
	return &sliceStream{events: events}
}

// Collect drains s into a slice.
func Collect(s Stream) []Event {
	var out []Event
	for {
		ev, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

// Drain pulls every remaining event from s.
func Drain(s Stream) {
	for {
		if _, ok := s.Next(); !ok {
			return
		}
	}
}

// queue buffers events that a stage has already pulled.
type queue struct {
	pending []Event
}

func (q *queue) push(ev ...Event) { q.pending = append(q.pending, ev...) }

func (q *queue) pop() (Event, bool) {
	if len(q.pending) == 0 {
		return Event{}, false
	}
	ev := q.pending[0]
	q.pending = q.pending[1:]
	return ev, true
}
