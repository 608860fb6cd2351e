package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError describes a single field that failed validation.
// It wraps ErrValidation (or a more specific domain error) so callers can
// match it with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field.
// A nil err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every field failure found in one pass.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes each field error to errors.Is/errors.As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, e := range v {
		errs = append(errs, e)
	}
	return errs
}

// ValidateTaskInput checks name and description against the task bounds.
// It returns nil or a ValidationErrors value listing every failing field.
func ValidateTaskInput(name, description string) error {
	var errs ValidationErrors

	if e := checkLength("name", name, TaskNameMaxLength); e != nil {
		errs = append(errs, e)
	}
	if e := checkLength("description", description, TaskDescriptionMaxLength); e != nil {
		errs = append(errs, e)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkLength(field, value string, maxLen int) *ValidationError {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		return NewValidationError(field, "should not be empty", nil)
	case n > maxLen:
		return NewValidationError(field, fmt.Sprintf("must be shorter than or equal to %d characters", maxLen), nil)
	}
	return nil
}
