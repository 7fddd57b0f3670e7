package errors

import "slices"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryDiscovery represents failures while indexing the input tree.
	CategoryDiscovery  ErrorCategory = "discovery"
	CategoryStructure  ErrorCategory = "structure"
	CategoryFileSystem ErrorCategory = "filesystem"

	// CategoryContent represents malformed content: bad UTF-8, front matter, data files, metadata types.
	CategoryContent ErrorCategory = "content"
	CategoryRender  ErrorCategory = "render"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// Field is one key/value pair of error context.
type Field struct {
	Key   string
	Value any
}

// ErrorContext provides structured context for errors. Fields keep insertion order.
type ErrorContext []Field

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	for i := range c {
		if c[i].Key == key {
			c[i].Value = value
			return c
		}
	}
	return append(c, Field{Key: key, Value: value})
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	for _, f := range c {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := slices.Clone(c)
	for _, f := range other {
		result = result.Set(f.Key, f.Value)
	}
	return result
}
