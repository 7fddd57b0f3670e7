package markdown

import (
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// Snippet captures a short HTML excerpt from the start of a document.
//
// Inline markup is captured inside paragraphs, emphasis, strong,
// strikethrough, block quotes and links. Any other container opens a frame
// that captures nothing. Capture stops once every frame has closed and at
// least minLength bytes of text were captured. With minLength zero nothing is
// captured.
type Snippet struct {
	Base
	sink      value.Sink
	minLength int
	buf       strings.Builder
}

func NewSnippet(sink value.Sink, minLength int) *Snippet {
	return &Snippet{sink: sink, minLength: minLength}
}

func (sn *Snippet) Remap(s Stream) Stream {
	sn.buf.Reset()
	var (
		frames  []bool
		textLen int
		done    = sn.minLength == 0
	)

	open := func(markup string) {
		if markup == "" {
			frames = append(frames, false)
			return
		}
		sn.buf.WriteString(markup)
		frames = append(frames, true)
	}
	closeFrame := func(markup string) {
		sn.buf.WriteString(markup)
		if len(frames) > 0 {
			frames = frames[:len(frames)-1]
		}
		if len(frames) == 0 && textLen >= sn.minLength {
			done = true
		}
	}
	capture := func(text, markup string) {
		if len(frames) > 0 && frames[len(frames)-1] {
			sn.buf.WriteString(markup)
			textLen += len(text)
		}
	}

	return StreamFunc(func() (Event, bool) {
		ev, ok := s.Next()
		if !ok || done {
			return ev, ok
		}

		switch ev.Kind {
		case EventStart:
			open(snippetOpen(ev.Tag))
		case EventEnd:
			closeFrame(snippetClose(ev.Tag))
		case EventSoftBreak:
			capture(" ", " ")
		case EventHardBreak:
			capture("", "<br>")
		case EventCode:
			capture(ev.Text, "<code>"+html.EscapeString(ev.Text)+"</code>")
		case EventText:
			capture(ev.Text, html.EscapeString(ev.Text))
		}
		return ev, true
	})
}

func snippetOpen(tag Tag) string {
	switch tag.Kind {
	case TagParagraph:
		return "<p>"
	case TagEmphasis:
		return "<em>"
	case TagStrong:
		return "<strong>"
	case TagStrikethrough:
		return "<strike>"
	case TagBlockQuote:
		return "<blockquote>"
	case TagLink:
		return `<a href="` + html.EscapeString(tag.Dest) + `" title="` + html.EscapeString(tag.Title) + `">`
	}
	return ""
}

func snippetClose(tag Tag) string {
	switch tag.Kind {
	case TagParagraph:
		return "</p>"
	case TagEmphasis:
		return "</em>"
	case TagStrong:
		return "</strong>"
	case TagStrikethrough:
		return "</strike>"
	case TagBlockQuote:
		return "</blockquote>"
	case TagLink:
		return "</a>"
	}
	return ""
}

func (sn *Snippet) Finalize() error {
	out := sn.buf.String()
	sn.buf.Reset()
	return sn.sink.Write(value.String(out))
}
