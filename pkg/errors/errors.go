package errors

import (
	"errors"
	"fmt"
)

// Input errors

var (
	// ErrInvalidInput indicates malformed birth input (rejected before the engine runs)
	ErrInvalidInput = errors.New("invalid input")

	// ErrYearOutOfRange indicates a year outside the supported calendar range
	ErrYearOutOfRange = errors.New("year out of supported range")
)

// Calendar errors

var (
	// ErrNoBoundary indicates no solar-term boundary inside the search window
	ErrNoBoundary = errors.New("no solar term boundary in search window")

	// ErrInvalidPillar indicates a stem/branch pair of mixed polarity
	ErrInvalidPillar = errors.New("invalid pillar: stem and branch polarity differ")
)

// Infrastructure errors

var (
	// ErrCacheMiss indicates the report is not cached
	ErrCacheMiss = errors.New("cache miss")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)

// ValidationError represents a rejected input field.
// It always matches ErrInvalidInput via errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap ties every validation error to ErrInvalidInput
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// MultiError wraps multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("multiple errors (%d): %v", len(m.Errors), m.Errors[0])
}

// Unwrap exposes the collected errors to errors.Is / errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the list
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ToError returns the MultiError as an error, or nil if no errors
func (m *MultiError) ToError() error {
	if !m.HasErrors() {
		return nil
	}
	return m
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}
