package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Validator represents a validation function
type Validator[T any] func(T) error

// ValidatorChain allows chaining multiple validators
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add adds a validator to the chain
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

// Validate runs all validators in the chain
func (vc *ValidatorChain[T]) Validate(value T) error {
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			return err
		}
	}
	return nil
}

// NotEmpty validates that a string is not empty
func NotEmpty(field string) Validator[string] {
	return func(value string) error {
		if value == "" {
			return ValidationError{
				Field:   field,
				Value:   value,
				Message: "cannot be empty",
			}
		}
		return nil
	}
}

// HasSuffix validates that a string has a specific suffix
func HasSuffix(field, suffix string) Validator[string] {
	return func(value string) error {
		if !strings.HasSuffix(value, suffix) {
			return ValidationError{
				Field:   field,
				Value:   value,
				Message: fmt.Sprintf("must end with '%s'", suffix),
			}
		}
		return nil
	}
}

// ValidateEach validates each item in a slice using the provided validator
func ValidateEach[T any](field string, itemValidator Validator[T]) Validator[[]T] {
	return func(value []T) error {
		for i, item := range value {
			if err := itemValidator(item); err != nil {
				return ValidationError{
					Field:   fmt.Sprintf("%s[%d]", field, i),
					Value:   item,
					Message: err.Error(),
				}
			}
		}
		return nil
	}
}

// Custom validates using a custom function
func Custom[T any](field string, message string, validatorFunc func(T) bool) Validator[T] {
	return func(value T) error {
		if !validatorFunc(value) {
			return ValidationError{
				Field:   field,
				Value:   value,
				Message: message,
			}
		}
		return nil
	}
}

// ValidateOutputFileName validates the name of the generated file
func ValidateOutputFileName(field string) Validator[string] {
	return NewValidatorChain(
		NotEmpty(field),
		HasSuffix(field, ".go"),
		Custom(field, "must not be a test file", func(v string) bool {
			return !strings.HasSuffix(v, "_test.go")
		}),
		Custom(field, "must be a file name, not a path", func(v string) bool {
			return !strings.ContainsAny(v, `/\`)
		}),
	).Validate
}

// ValidateGlob validates that a string is a well-formed doublestar pattern
func ValidateGlob(field string) Validator[string] {
	return NewValidatorChain(
		NotEmpty(field),
		Custom(field, "is not a valid glob pattern", doublestar.ValidatePattern),
	).Validate
}

// ValidateLogLevel validates a diagnostic level name
func ValidateLogLevel(field string) Validator[string] {
	return func(value string) error {
		if _, err := ParseDiagnosticLevel(value); err != nil {
			return ValidationError{Field: field, Value: value, Message: err.Error()}
		}
		return nil
	}
}

// ValidateDebounce validates the watch debounce interval
func ValidateDebounce(field string) Validator[time.Duration] {
	return Custom(field, "must be between 0 and 1m", func(d time.Duration) bool {
		return d >= 0 && d <= time.Minute
	})
}
