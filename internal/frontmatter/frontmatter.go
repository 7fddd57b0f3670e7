// Package frontmatter splits a metadata block off the top of a content file.
//
// A block fenced by "+++" lines is TOML; a block fenced by "---" lines is
// YAML. Both LF and CRLF line endings are accepted.
package frontmatter

import (
	"bytes"
	"errors"

	"git.home.luguber.info/inful/mockingbird/internal/dataformat"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// ErrMissingClosingDelimiter indicates the document started with a front
// matter fence but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

var fences = []struct {
	fence  string
	format dataformat.Format
}{
	{"+++", dataformat.TOML},
	{"---", dataformat.YAML},
}

// Split separates the front matter from the body.
//
// If the document does not start with a fence, had is false and body is the
// full input.
func Split(content []byte) (frontmatter []byte, body []byte, format dataformat.Format, had bool, err error) {
	nl := detectNewline(content)

	for _, f := range fences {
		open := []byte(f.fence + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}

		start := len(open)
		if bytes.HasPrefix(content[start:], open) {
			return []byte{}, content[start+len(open):], f.format, true, nil
		}

		closeSeq := []byte(nl + f.fence + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			return nil, nil, "", false, ErrMissingClosingDelimiter
		}

		end := start + idx + len(nl)
		return content[start:end], content[start+idx+len(closeSeq):], f.format, true, nil
	}
	return nil, content, "", false, nil
}

// Parse decodes raw front matter (without fences).
func Parse(frontmatter []byte, format dataformat.Format) (value.Value, error) {
	return dataformat.Parse(format, frontmatter)
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
