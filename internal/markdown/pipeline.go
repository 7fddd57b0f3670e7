package markdown

import (
	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
)

// Stage is one step of a Pipeline.
//
// Preprocess rewrites the raw source before it is parsed. Remap wraps the
// event stream. Finalize flushes whatever the stage gathered once the stream
// has been fully drained.
type Stage interface {
	Preprocess(src string) (string, error)
	Remap(s Stream) Stream
	Finalize() error
}

// Base provides identity implementations of every Stage method. Embed it and
// override what the stage needs.
type Base struct{}

func (Base) Preprocess(src string) (string, error) { return src, nil }
func (Base) Remap(s Stream) Stream                 { return s }
func (Base) Finalize() error                       { return nil }

// Pipeline runs a document through an ordered list of stages.
//
// Preprocessing runs from the last declared stage to the first. Remapping
// nests the same way: the last declared stage sees the parser's events first
// and the first declared stage sees them last. Finalize runs in declaration
// order.
type Pipeline struct {
	stages []Stage
}

// New returns a pipeline over stages, in declaration order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Use appends stages to the declaration order.
func (p *Pipeline) Use(stages ...Stage) *Pipeline {
	p.stages = append(p.stages, stages...)
	return p
}

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Run processes src and returns the preprocessed source.
func (p *Pipeline) Run(src string) (string, error) {
	out := src
	for i := len(p.stages) - 1; i >= 0; i-- {
		var err error
		if out, err = p.stages[i].Preprocess(out); err != nil {
			return "", err
		}
	}

	s := Parse(out)
	for i := len(p.stages) - 1; i >= 0; i-- {
		s = p.stages[i].Remap(s)
	}
	Drain(s)

	for _, stage := range p.stages {
		if err := stage.Finalize(); err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryContent, "markdown plugin failed").Build()
		}
	}
	return out, nil
}
