package markdown

import "strings"

// Admonition expands call-out blocks before parsing.
//
// A line starting with "!name: Title" or "!name" opens the block. The body
// is the run of following lines that are blank or indented by two spaces;
// body lines lose that indentation. Image links and lines inside fenced code
// are left alone.
type Admonition struct {
	Base
}

func NewAdmonition() *Admonition { return &Admonition{} }

func (Admonition) Preprocess(src string) (string, error) {
	if !strings.HasPrefix(src, "!") && !strings.Contains(src, "\n!") {
		return src, nil
	}

	lines := strings.SplitAfter(src, "\n")
	var (
		out         strings.Builder
		inCodeBlock bool
		activeFence string
	)
	out.Grow(len(src))

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```"):
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "```")
		case strings.HasPrefix(trimmed, "~~~"):
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "~~~")
		}
		if inCodeBlock || !strings.HasPrefix(line, "!") || strings.HasPrefix(line, "![") {
			out.WriteString(line)
			continue
		}

		header := strings.TrimSuffix(line[1:], "\n")
		name, title, _ := strings.Cut(header, ":")
		name, title = strings.TrimSpace(name), strings.TrimSpace(title)
		if name == "" {
			out.WriteString(line)
			continue
		}

		var body strings.Builder
		for i+1 < len(lines) {
			next := lines[i+1]
			if next != "\n" && !strings.HasPrefix(next, "  ") {
				break
			}
			body.WriteString(strings.TrimPrefix(next, "  "))
			i++
		}

		out.WriteString(`<div class="admonition ` + name + `">` + "\n")
		out.WriteString(`<span class="title ` + name + `">`)
		out.WriteString("\n\n" + title + "\n\n</span>\n\n")
		out.WriteString(body.String())
		out.WriteString("\n</div>\n\n")
	}
	return out.String(), nil
}

func toggleFencedBlock(inCodeBlock bool, activeFence string, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}
