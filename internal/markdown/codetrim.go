package markdown

import "strings"

// LineFilter reports whether line n (0-based within its code block) should be
// dropped. Lines keep their trailing newline.
type LineFilter func(line string, n int) bool

// CodeTrim drops lines from code blocks. A fresh filter is created for every
// block so filters may keep per-block state.
type CodeTrim struct {
	Base
	filter  func() LineFilter
	trimEnd bool
}

// NewCodeTrim returns a stage dropping the lines selected by filter.
func NewCodeTrim(filter func() LineFilter) *CodeTrim {
	return &CodeTrim{filter: filter}
}

// TrimStart drops whitespace-only lines at the start of each block.
func TrimStart() *CodeTrim {
	return NewCodeTrim(func() LineFilter {
		start := true
		return func(line string, n int) bool {
			if n == 0 {
				start = true
			}
			if start && strings.TrimSpace(line) == "" {
				return true
			}
			start = false
			return false
		}
	})
}

// TrimEnd drops whitespace-only lines at the end of each block.
func TrimEnd() *CodeTrim {
	return &CodeTrim{trimEnd: true}
}

// HashLines drops hidden boilerplate lines: those whose trimmed text starts
// with "# " or is exactly "#".
func HashLines() *CodeTrim {
	return NewCodeTrim(func() LineFilter {
		return func(line string, _ int) bool {
			t := strings.TrimSpace(line)
			return t == "#" || strings.HasPrefix(t, "# ")
		}
	})
}

func (c *CodeTrim) Remap(s Stream) Stream {
	q := &queue{}
	return StreamFunc(func() (Event, bool) {
		if ev, ok := q.pop(); ok {
			return ev, true
		}
		ev, ok := s.Next()
		if !ok || !ev.IsStart(TagCodeBlock) {
			return ev, ok
		}

		var filter LineFilter
		if c.filter != nil {
			filter = c.filter()
		}
		var kept []string
		n := 0
		for {
			inner, ok := s.Next()
			if !ok {
				break
			}
			if inner.Kind != EventText {
				kept = c.flush(q, kept)
				q.push(inner)
				if inner.IsEnd(TagCodeBlock) {
					break
				}
				continue
			}
			for _, line := range strings.SplitAfter(inner.Text, "\n") {
				if line == "" {
					continue
				}
				if filter == nil || !filter(line, n) {
					kept = append(kept, line)
				}
				n++
			}
		}
		return ev, true
	})
}

func (c *CodeTrim) flush(q *queue, lines []string) []string {
	if c.trimEnd {
		for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
			lines = lines[:len(lines)-1]
		}
	}
	if len(lines) > 0 {
		q.push(Text(strings.Join(lines, "")))
	}
	return nil
}
