package markdown

import (
	"bytes"
	"strconv"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var newMarkdown = sync.OnceValue(func() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
})

// Parse parses src and returns a stream over its events. The AST is walked
// lazily, one node transition per pull.
func Parse(src string) Stream {
	source := []byte(src)
	root := newMarkdown().Parser().Parse(text.NewReader(source))
	return &cursor{src: source, root: root, node: root, entering: true}
}

type cursor struct {
	src      []byte
	root     gmast.Node
	node     gmast.Node
	entering bool
	done     bool
	pending  []Event
}

func (c *cursor) Next() (Event, bool) {
	for len(c.pending) == 0 {
		if c.done {
			return Event{}, false
		}
		c.step()
	}
	ev := c.pending[0]
	c.pending = c.pending[1:]
	return ev, true
}

func (c *cursor) emit(ev ...Event) { c.pending = append(c.pending, ev...) }

func (c *cursor) step() {
	n := c.node
	descend := false
	if c.entering {
		descend = c.enter(n)
	} else {
		c.exit(n)
	}

	switch {
	case c.entering && descend && n.FirstChild() != nil:
		c.node = n.FirstChild()
	case c.entering:
		c.entering = false
	case n == c.root:
		c.done = true
	case n.NextSibling() != nil:
		c.node, c.entering = n.NextSibling(), true
	default:
		c.node = n.Parent()
	}
}

// enter emits the events for opening n and reports whether its children
// should be walked.
func (c *cursor) enter(n gmast.Node) bool {
	if tag, ok := c.tag(n); ok {
		c.emit(Start(tag))
	}

	switch node := n.(type) {
	case *gmast.Text:
		c.emit(Text(unescape(node.Segment.Value(c.src))))
		switch {
		case node.HardLineBreak():
			c.emit(HardBreak())
		case node.SoftLineBreak():
			c.emit(SoftBreak())
		}
	case *gmast.String:
		c.emit(Text(string(node.Value)))
	case *gmast.CodeSpan:
		c.emit(Code(c.inlineText(node)))
		return false
	case *gmast.CodeBlock, *gmast.FencedCodeBlock:
		c.emit(Text(c.lines(n)))
		return false
	case *gmast.HTMLBlock:
		html := c.lines(n)
		if node.HasClosure() {
			html += string(node.ClosureLine.Value(c.src))
		}
		c.emit(HTML(html))
		return false
	case *gmast.RawHTML:
		var b strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(c.src))
		}
		c.emit(InlineHTML(b.String()))
		return false
	case *gmast.AutoLink:
		c.emit(Text(string(node.Label(c.src))))
		return false
	case *gmast.ThematicBreak:
		c.emit(Rule())
		return false
	case *extast.TaskCheckBox:
		c.emit(TaskMarker(node.IsChecked))
		return false
	case *extast.FootnoteLink:
		c.emit(Event{Kind: EventFootnoteReference, Text: strconv.Itoa(node.Index)})
		return false
	case *extast.FootnoteBacklink:
		return false
	}
	return true
}

func (c *cursor) exit(n gmast.Node) {
	if tag, ok := c.tag(n); ok {
		c.emit(End(tag))
	}
}

// tag maps container nodes to their Tag. Nodes without one are transparent.
func (c *cursor) tag(n gmast.Node) (Tag, bool) {
	switch node := n.(type) {
	case *gmast.Paragraph:
		return Tag{Kind: TagParagraph}, true
	case *gmast.Heading:
		tag := Tag{Kind: TagHeading, Level: node.Level}
		if id, ok := node.AttributeString("id"); ok {
			tag.ID = attrString(id)
		}
		if class, ok := node.AttributeString("class"); ok {
			tag.Classes = strings.Fields(attrString(class))
		}
		return tag, true
	case *gmast.Blockquote:
		return Tag{Kind: TagBlockQuote}, true
	case *gmast.CodeBlock:
		return Tag{Kind: TagCodeBlock}, true
	case *gmast.FencedCodeBlock:
		tag := Tag{Kind: TagCodeBlock, Fenced: true}
		if node.Info != nil {
			tag.Info = strings.TrimSpace(string(node.Info.Segment.Value(c.src)))
		}
		return tag, true
	case *gmast.List:
		return Tag{Kind: TagList, Ordered: node.IsOrdered(), Start: node.Start}, true
	case *gmast.ListItem:
		return Tag{Kind: TagListItem}, true
	case *gmast.Emphasis:
		if node.Level >= 2 {
			return Tag{Kind: TagStrong}, true
		}
		return Tag{Kind: TagEmphasis}, true
	case *gmast.Link:
		return Tag{Kind: TagLink, Dest: string(node.Destination), Title: string(node.Title)}, true
	case *gmast.AutoLink:
		dest := string(node.URL(c.src))
		if node.AutoLinkType == gmast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(dest), "mailto:") {
			dest = "mailto:" + dest
		}
		return Tag{Kind: TagLink, Dest: dest}, true
	case *gmast.Image:
		return Tag{Kind: TagImage, Dest: string(node.Destination), Title: string(node.Title)}, true
	case *extast.Strikethrough:
		return Tag{Kind: TagStrikethrough}, true
	case *extast.Table:
		aligns := make([]Alignment, len(node.Alignments))
		for i, a := range node.Alignments {
			aligns[i] = alignment(a)
		}
		return Tag{Kind: TagTable, Alignments: aligns}, true
	case *extast.TableHeader:
		return Tag{Kind: TagTableHead}, true
	case *extast.TableRow:
		return Tag{Kind: TagTableRow}, true
	case *extast.TableCell:
		return Tag{Kind: TagTableCell, Align: alignment(node.Alignment)}, true
	case *extast.Footnote:
		return Tag{Kind: TagFootnoteDefinition, Label: strconv.Itoa(node.Index)}, true
	}
	return Tag{}, false
}

func (c *cursor) lines(n gmast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}

func (c *cursor) inlineText(n gmast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(c.src))
		case *gmast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}

func unescape(b []byte) string {
	if bytes.IndexByte(b, '\\') < 0 && bytes.IndexByte(b, '&') < 0 {
		return string(b)
	}
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}

func attrString(v any) string {
	switch s := v.(type) {
	case []byte:
		return string(s)
	case string:
		return s
	}
	return ""
}

func alignment(a extast.Alignment) Alignment {
	switch a {
	case extast.AlignLeft:
		return AlignLeft
	case extast.AlignCenter:
		return AlignCenter
	case extast.AlignRight:
		return AlignRight
	}
	return AlignNone
}
