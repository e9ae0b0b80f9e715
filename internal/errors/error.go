package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRoute      Category = "route"
	CategoryNavigation Category = "navigation"
	CategoryMount      Category = "mount"
	CategoryConfig     Category = "config"
	CategoryExport     Category = "export"
	CategoryCLI        Category = "cli"
)

// StorefrontError is a structured error with a code and a suggestion.
type StorefrontError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *StorefrontError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *StorefrontError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *StorefrontError) WithSuggestion(s string) *StorefrontError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation with a specific one.
func (e *StorefrontError) WithDetail(d string) *StorefrontError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *StorefrontError) WithDetailf(format string, args ...any) *StorefrontError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// Wrap wraps another error.
func (e *StorefrontError) Wrap(err error) *StorefrontError {
	e.Wrapped = err
	return e
}

// New creates a StorefrontError from a registered error code.
func New(code string) *StorefrontError {
	template, ok := registry[code]
	if !ok {
		return &StorefrontError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &StorefrontError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new StorefrontError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *StorefrontError {
	return &StorefrontError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a StorefrontError.
// Errors that already carry a code are returned unchanged.
func FromError(err error, code string) *StorefrontError {
	if err == nil {
		return nil
	}
	var se *StorefrontError
	if stderrors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err or any error it wraps is a StorefrontError with code.
func HasCode(err error, code string) bool {
	for err != nil {
		if se, ok := err.(*StorefrontError); ok && se.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// CodeOf returns the code of the first StorefrontError in err's chain.
func CodeOf(err error) string {
	var se *StorefrontError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}
