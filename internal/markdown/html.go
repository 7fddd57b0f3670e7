package markdown

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// WriteHTML drains s and writes its HTML serialization to w.
func WriteHTML(w io.Writer, s Stream) error {
	hw := &htmlWriter{w: w, newline: true}
	for {
		ev, ok := s.Next()
		if !ok {
			return hw.err
		}
		hw.event(ev)
		if hw.err != nil {
			Drain(s)
			return hw.err
		}
	}
}

// RenderHTML drains s and returns its HTML serialization.
func RenderHTML(s Stream) string {
	var b strings.Builder
	_ = WriteHTML(&b, s)
	return b.String()
}

type htmlWriter struct {
	w       io.Writer
	err     error
	newline bool

	aligns   []Alignment
	cell     int
	inHead   bool
	bodyOpen bool

	// Image alt text is written as plain text until the image closes.
	altDepth int
}

func (h *htmlWriter) write(s string) {
	if h.err != nil || s == "" {
		return
	}
	_, h.err = io.WriteString(h.w, s)
	h.newline = strings.HasSuffix(s, "\n")
}

func (h *htmlWriter) line() {
	if !h.newline {
		h.write("\n")
	}
}

func (h *htmlWriter) event(ev Event) {
	if h.altDepth > 0 {
		h.alt(ev)
		return
	}

	switch ev.Kind {
	case EventStart:
		h.start(ev.Tag)
	case EventEnd:
		h.end(ev.Tag)
	case EventText:
		h.write(html.EscapeString(ev.Text))
	case EventCode:
		h.write("<code>" + html.EscapeString(ev.Text) + "</code>")
	case EventHTML, EventInlineHTML:
		h.write(ev.Text)
	case EventSoftBreak:
		h.write("\n")
	case EventHardBreak:
		h.write("<br />\n")
	case EventRule:
		h.line()
		h.write("<hr />\n")
	case EventTaskMarker:
		if ev.Checked {
			h.write(`<input disabled="" type="checkbox" checked=""/>` + "\n")
		} else {
			h.write(`<input disabled="" type="checkbox"/>` + "\n")
		}
	case EventFootnoteReference:
		label := html.EscapeString(ev.Text)
		h.write(`<sup class="footnote-reference"><a href="#` + label + `">` + label + `</a></sup>`)
	}
}

func (h *htmlWriter) alt(ev Event) {
	switch ev.Kind {
	case EventStart:
		if ev.Tag.Kind == TagImage {
			h.altDepth++
		}
	case EventEnd:
		if ev.Tag.Kind == TagImage {
			h.altDepth--
			if h.altDepth == 0 {
				h.write(`"`)
				if ev.Tag.Title != "" {
					h.write(` title="` + html.EscapeString(ev.Tag.Title) + `"`)
				}
				h.write(" />")
			}
		}
	case EventText, EventCode, EventHTML, EventInlineHTML:
		h.write(html.EscapeString(ev.Text))
	case EventSoftBreak, EventHardBreak:
		h.write(" ")
	}
}

func (h *htmlWriter) start(tag Tag) {
	switch tag.Kind {
	case TagParagraph:
		h.line()
		h.write("<p>")
	case TagHeading:
		h.line()
		h.write("<h" + strconv.Itoa(tag.Level))
		if tag.ID != "" {
			h.write(` id="` + html.EscapeString(tag.ID) + `"`)
		}
		if len(tag.Classes) > 0 {
			h.write(` class="` + html.EscapeString(strings.Join(tag.Classes, " ")) + `"`)
		}
		h.write(">")
	case TagBlockQuote:
		h.line()
		h.write("<blockquote>\n")
	case TagCodeBlock:
		h.line()
		lang, _, _ := strings.Cut(tag.Info, " ")
		lang, _, _ = strings.Cut(lang, ",")
		if tag.Fenced && lang != "" {
			h.write(`<pre><code class="language-` + html.EscapeString(lang) + `">`)
		} else {
			h.write("<pre><code>")
		}
	case TagList:
		h.line()
		switch {
		case !tag.Ordered:
			h.write("<ul>\n")
		case tag.Start == 1:
			h.write("<ol>\n")
		default:
			h.write(`<ol start="` + strconv.Itoa(tag.Start) + `">` + "\n")
		}
	case TagListItem:
		h.line()
		h.write("<li>")
	case TagEmphasis:
		h.write("<em>")
	case TagStrong:
		h.write("<strong>")
	case TagStrikethrough:
		h.write("<del>")
	case TagLink:
		h.write(`<a href="` + html.EscapeString(tag.Dest) + `"`)
		if tag.Title != "" {
			h.write(` title="` + html.EscapeString(tag.Title) + `"`)
		}
		h.write(">")
	case TagImage:
		h.write(`<img src="` + html.EscapeString(tag.Dest) + `" alt="`)
		h.altDepth = 1
	case TagTable:
		h.aligns = tag.Alignments
		h.bodyOpen = false
		h.line()
		h.write("<table>")
	case TagTableHead:
		h.inHead = true
		h.cell = 0
		h.write("<thead><tr>")
	case TagTableRow:
		h.cell = 0
		if !h.bodyOpen {
			h.write("<tbody>\n")
			h.bodyOpen = true
		}
		h.write("<tr>")
	case TagTableCell:
		name := "td"
		if h.inHead {
			name = "th"
		}
		h.write("<" + name)
		align := tag.Align
		if align == AlignNone && h.cell < len(h.aligns) {
			align = h.aligns[h.cell]
		}
		switch align {
		case AlignLeft:
			h.write(` style="text-align: left"`)
		case AlignCenter:
			h.write(` style="text-align: center"`)
		case AlignRight:
			h.write(` style="text-align: right"`)
		}
		h.write(">")
	case TagFootnoteDefinition:
		h.line()
		label := html.EscapeString(tag.Label)
		h.write(`<div class="footnote-definition" id="` + label + `"><sup class="footnote-definition-label">` + label + `</sup>`)
	}
}

func (h *htmlWriter) end(tag Tag) {
	switch tag.Kind {
	case TagParagraph:
		h.write("</p>\n")
	case TagHeading:
		h.write("</h" + strconv.Itoa(tag.Level) + ">\n")
	case TagBlockQuote:
		h.write("</blockquote>\n")
	case TagCodeBlock:
		h.write("</code></pre>\n")
	case TagList:
		if tag.Ordered {
			h.write("</ol>\n")
		} else {
			h.write("</ul>\n")
		}
	case TagListItem:
		h.write("</li>\n")
	case TagEmphasis:
		h.write("</em>")
	case TagStrong:
		h.write("</strong>")
	case TagStrikethrough:
		h.write("</del>")
	case TagLink:
		h.write("</a>")
	case TagTable:
		if h.bodyOpen {
			h.write("</tbody>")
		}
		h.write("</table>\n")
		h.aligns = nil
	case TagTableHead:
		h.write("</tr></thead>\n")
		h.inHead = false
	case TagTableRow:
		h.write("</tr>\n")
	case TagTableCell:
		if h.inHead {
			h.write("</th>")
		} else {
			h.write("</td>")
		}
		h.cell++
	case TagFootnoteDefinition:
		h.write("</div>\n")
	}
}
