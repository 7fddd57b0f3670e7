package markdown

import (
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mockingbird/internal/highlight"
)

// SyntaxHighlight replaces fenced code blocks with highlighted HTML and a
// line number gutter. The language is the part of the info string before the
// first comma.
type SyntaxHighlight struct {
	Base
}

func NewSyntaxHighlight() *SyntaxHighlight { return &SyntaxHighlight{} }

func (SyntaxHighlight) Remap(s Stream) Stream {
	return StreamFunc(func() (Event, bool) {
		ev, ok := s.Next()
		if !ok || !ev.IsStart(TagCodeBlock) || !ev.Tag.Fenced {
			return ev, ok
		}

		var code strings.Builder
		for {
			inner, ok := s.Next()
			if !ok || inner.IsEnd(TagCodeBlock) {
				break
			}
			if inner.Kind == EventText {
				code.WriteString(inner.Text)
			}
		}

		lang, _, _ := strings.Cut(ev.Tag.Info, ",")
		src := code.String()
		out, err := highlight.HTML(strings.TrimSpace(lang), src)
		if err != nil {
			out = html.EscapeString(src)
		}
		return HTML(highlight.CodeDiv(strings.Count(src, "\n"), out)), true
	})
}
