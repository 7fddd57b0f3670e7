// Package foundation holds small generic helpers shared by the configuration
// layer: enum normalization and composable validators.
package foundation

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
)

// Validator represents a validation function.
type Validator[T any] func(T) ValidationResult

// ValidationResult contains the result of a validation operation.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// FieldError represents a single validation failure.
type FieldError struct {
	Field   string
	Code    string
	Message string
	Value   any
}

func (fe FieldError) Error() string {
	if fe.Field != "" {
		return fmt.Sprintf("field '%s': %s", fe.Field, fe.Message)
	}
	return fe.Message
}

// Valid creates a successful validation result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid creates a failed validation result with errors.
func Invalid(errs ...FieldError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// Combine merges multiple validation results.
func (vr ValidationResult) Combine(other ValidationResult) ValidationResult {
	if vr.Valid && other.Valid {
		return Valid()
	}
	all := make([]FieldError, 0, len(vr.Errors)+len(other.Errors))
	all = append(all, vr.Errors...)
	all = append(all, other.Errors...)
	return Invalid(all...)
}

// ToError converts an invalid result into a validation error. Each offending
// field and its value is attached as context.
func (vr ValidationResult) ToError() error {
	if vr.Valid {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, fe := range vr.Errors {
		messages = append(messages, fe.Error())
	}
	b := errors.ValidationError(strings.Join(messages, "; "))
	for _, fe := range vr.Errors {
		if fe.Field != "" {
			b = b.WithContext(fe.Field, fe.Value)
		}
	}
	return b.Build()
}

// ValidatorChain runs several validators and collects every failure.
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain.
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add appends a validator to the chain.
func (vc *ValidatorChain[T]) Add(v Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, v)
	return vc
}

// Validate runs all validators in the chain.
func (vc *ValidatorChain[T]) Validate(value T) ValidationResult {
	result := Valid()
	for _, v := range vc.validators {
		result = result.Combine(v(value))
	}
	return result
}

// Field applies v to the part of T selected by get.
func Field[T, F any](get func(T) F, v Validator[F]) Validator[T] {
	return func(t T) ValidationResult { return v(get(t)) }
}

// OneOf validates that a value is in a set of allowed values.
func OneOf[T comparable](field string, allowed []T) Validator[T] {
	set := make(map[T]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	return func(value T) ValidationResult {
		if set[value] {
			return Valid()
		}
		return Invalid(FieldError{
			Field:   field,
			Code:    "one_of",
			Message: fmt.Sprintf("must be one of %v", allowed),
			Value:   value,
		})
	}
}

// NonNegative rejects values below zero.
func NonNegative(field string) Validator[int] {
	return func(value int) ValidationResult {
		if value >= 0 {
			return Valid()
		}
		return Invalid(FieldError{Field: field, Code: "non_negative", Message: "must not be negative", Value: value})
	}
}

// NotEmpty rejects blank strings.
func NotEmpty(field string) Validator[string] {
	return func(value string) ValidationResult {
		if strings.TrimSpace(value) != "" {
			return Valid()
		}
		return Invalid(FieldError{Field: field, Code: "required", Message: "must not be empty", Value: value})
	}
}
