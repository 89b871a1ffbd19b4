package catalog

import (
	"fmt"
	"strings"
)

// ErrorKind distinguishes unparseable input from well-formed input that
// violates a constraint.
type ErrorKind string

const (
	KindInvalid  ErrorKind = "invalid"
	KindCoercion ErrorKind = "coercion"
)

// FieldError describes one violated constraint on one field.
type FieldError struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// IsCoercion reports whether the field failed to parse rather than failing a rule.
func (e FieldError) IsCoercion() bool {
	return e.Kind == KindCoercion
}

// ValidationError is returned when a candidate is rejected. Errors is never
// empty and is ordered by field declaration order.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the error reported for field, if any.
func (e *ValidationError) Field(field string) (FieldError, bool) {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

// CoercionError is raised by the field coercer when a raw value cannot be
// turned into the field's type.
type CoercionError struct {
	Field string
	Want  string // "a number" or "text"
	Raw   any
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s must be %s, got %q", e.Field, e.Want, fmt.Sprint(e.Raw))
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// FieldError converts the coercion failure into its reported form.
func (e *CoercionError) FieldError() FieldError {
	return FieldError{Field: e.Field, Message: e.Error(), Kind: KindCoercion}
}
