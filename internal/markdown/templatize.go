package markdown

import (
	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/metadata"
	"git.home.luguber.info/inful/mockingbird/internal/slug"
)

// StringRenderer renders a template given as source text.
type StringRenderer interface {
	RenderString(name, src string, meta *metadata.Metadata) (string, error)
}

// Templatize runs the source through a template engine when it contains
// template markup.
type Templatize struct {
	Base
	engine StringRenderer
	name   string
	meta   *metadata.Metadata
}

func NewTemplatize(engine StringRenderer, name string, meta *metadata.Metadata) *Templatize {
	return &Templatize{engine: engine, name: name, meta: meta}
}

func (t *Templatize) Preprocess(src string) (string, error) {
	if !slug.IsTemplate(src) {
		return src, nil
	}
	out, err := t.engine.RenderString(t.name, src, t.meta)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "markdown templatization failed").
			WithContext("path", t.name).
			Build()
	}
	return out, nil
}
