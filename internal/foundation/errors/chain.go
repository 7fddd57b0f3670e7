package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Chain merges two independent failures into one error. second is attached
// beneath the deepest cause of first, so both causal chains survive.
// Either argument may be nil.
func Chain(first, second error) error {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	classified, ok := first.(*ClassifiedError)
	if !ok {
		return &ClassifiedError{
			category: GetCategory(second),
			severity: GetSeverity(second),
			message:  first.Error(),
			cause:    second,
		}
	}
	clone := *classified
	clone.cause = Chain(classified.cause, second)
	return &clone
}

// ChainAll folds Chain over errs, skipping nils.
func ChainAll(errs ...error) error {
	var out error
	for _, err := range errs {
		out = Chain(out, err)
	}
	return out
}

// Describe renders err and its causes as a nested, human-readable report.
// Each level of the chain is indented four spaces further than its parent and
// followed by its context fields.
func Describe(err error) string {
	var b strings.Builder
	describe(&b, err, 0)
	return strings.TrimRight(b.String(), "\n")
}

func describe(b *strings.Builder, err error, depth int) {
	if err == nil {
		return
	}
	indent := strings.Repeat(" ", depth*4)
	writeIndented := func(s string) {
		b.WriteString(indent)
		b.WriteString(strings.ReplaceAll(s, "\n", "\n"+indent))
		b.WriteByte('\n')
	}

	classified, ok := err.(*ClassifiedError)
	if !ok {
		// Plain wrapped errors repeat their cause text; print only the outer message
		// and let the cause speak for itself on the next level.
		msg := err.Error()
		inner := stderrors.Unwrap(err)
		if inner != nil {
			msg = strings.TrimSuffix(msg, ": "+inner.Error())
		}
		writeIndented(msg)
		describe(b, inner, depth+1)
		return
	}

	writeIndented(classified.message)
	for _, f := range classified.context {
		writeIndented(fmt.Sprintf("%s: %v", f.Key, f.Value))
	}
	describe(b, classified.cause, depth+1)
}
