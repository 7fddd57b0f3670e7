package markdown

import (
	"errors"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/mockingbird/internal/frontmatter"
	"git.home.luguber.info/inful/mockingbird/internal/value"
)

// FrontMatter strips a leading TOML or YAML block and writes its decoded
// dictionary to a sink. A block with no closing fence is left in place.
type FrontMatter struct {
	Base
	sink value.Sink
}

func NewFrontMatter(sink value.Sink) *FrontMatter {
	return &FrontMatter{sink: sink}
}

func (f *FrontMatter) Preprocess(src string) (string, error) {
	fm, body, format, had, err := frontmatter.Split([]byte(src))
	if errors.Is(err, frontmatter.ErrMissingClosingDelimiter) || !had {
		return src, nil
	}
	if err != nil {
		return "", err
	}

	v, err := frontmatter.Parse(fm, format)
	if err != nil {
		return "", err
	}
	if err := f.sink.Write(v); err != nil {
		return "", err
	}
	return string(body), nil
}

// Fingerprint computes a content fingerprint over the raw front matter and
// body, and writes it as a string on Finalize.
type Fingerprint struct {
	Base
	sink        value.Sink
	fingerprint string
}

func NewFingerprint(sink value.Sink) *Fingerprint {
	return &Fingerprint{sink: sink}
}

func (f *Fingerprint) Preprocess(src string) (string, error) {
	fm, body, _, had, err := frontmatter.Split([]byte(src))
	if err != nil || !had {
		fm, body = nil, []byte(src)
	}
	f.fingerprint = mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fm), "\n"), string(body))
	return src, nil
}

func (f *Fingerprint) Finalize() error {
	if f.fingerprint == "" {
		return nil
	}
	return f.sink.Write(value.String(f.fingerprint))
}
