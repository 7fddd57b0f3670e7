// Package errors provides the classified error primitives used across mockingbird.
//
// A ClassifiedError carries a category, a severity, a message, an optional cause
// and an ordered list of context fields. Errors are chained rather than replaced:
// a low-level cause is wrapped with more specific context as it crosses package
// boundaries, and two independent failures can be merged with Chain.
//
// Key features:
//   - ErrorCategory: broad classification (discovery, structure, content, render, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - Chain and Describe: error merging and nested, indented presentation
//   - CLIErrorAdapter: exit codes and stderr formatting
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryRender, "failed to render item").
//		WithContext("path", rel).
//		WithContext("template", name).
//		Build()
package errors
