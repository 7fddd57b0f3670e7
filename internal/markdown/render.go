package markdown

import (
	"strings"

	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// Renderer consumes the whole stream, serializes it to HTML and writes the
// result to the sink as a string.
type Renderer struct {
	Base
	sink value.Sink
	html strings.Builder
}

func NewRenderer(sink value.Sink) *Renderer {
	return &Renderer{sink: sink}
}

func (r *Renderer) Remap(s Stream) Stream {
	r.html.Reset()
	return StreamFunc(func() (Event, bool) {
		_ = WriteHTML(&r.html, s)
		return Event{}, false
	})
}

func (r *Renderer) Finalize() error {
	out := r.html.String()
	r.html.Reset()
	return r.sink.Write(value.String(out))
}
