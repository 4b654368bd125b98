package errors

import (
	"fmt"
	"strings"
)

// Diagnostic defines the base interface for all restgen errors
type Diagnostic interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Element() string
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// Annotation error types
	SyntaxErrorCode
	SchemaErrorCode

	// Binding error types
	DuplicateBindingCode
	UnresolvedURLVariableCode
	UnmatchedPathParameterCode
	DuplicateFormFieldCode
	ConflictingBodyEncodingCode
	MixedFieldAndPartCode
	BodyNotAllowedCode

	// Shape error types
	PrimitiveReturnTypeCode
	MissingVerbCode
	MultipleVerbsCode
	MisplacedAnnotationCode
	ConflictingRolesCode
	UnknownParameterCode
	UnsupportedTypeCode
	InvalidSignatureCode
	UnresolvableResponseCode
	DuplicateMethodCode
	ReservedIdentifierCode
	MissingClientAnnotationCode

	// Tooling error types
	GenerationErrorCode
	FileSystemErrorCode
	ConfigurationErrorCode
	DeclarationSourceErrorCode
)

var errorCodeNames = map[ErrorCode]string{
	SyntaxErrorCode:             "SyntaxError",
	SchemaErrorCode:             "SchemaError",
	DuplicateBindingCode:        "DuplicateBinding",
	UnresolvedURLVariableCode:   "UnresolvedUrlVariable",
	UnmatchedPathParameterCode:  "UnmatchedPathParameter",
	DuplicateFormFieldCode:      "DuplicateFormField",
	ConflictingBodyEncodingCode: "ConflictingBodyEncoding",
	MixedFieldAndPartCode:       "MixedFieldAndPartAnnotations",
	BodyNotAllowedCode:          "BodyNotAllowed",
	PrimitiveReturnTypeCode:     "PrimitiveReturnType",
	MissingVerbCode:             "MissingVerb",
	MultipleVerbsCode:           "MultipleVerbs",
	MisplacedAnnotationCode:     "MisplacedAnnotation",
	ConflictingRolesCode:        "ConflictingRoles",
	UnknownParameterCode:        "UnknownParameter",
	UnsupportedTypeCode:         "UnsupportedType",
	InvalidSignatureCode:        "InvalidSignature",
	UnresolvableResponseCode:    "UnresolvableResponse",
	DuplicateMethodCode:         "DuplicateMethod",
	ReservedIdentifierCode:      "ReservedIdentifier",
	MissingClientAnnotationCode: "MissingClientAnnotation",
	GenerationErrorCode:         "GenerationError",
	FileSystemErrorCode:         "FileSystemError",
	ConfigurationErrorCode:      "ConfigurationError",
	DeclarationSourceErrorCode:  "DeclarationSourceError",
}

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	if name, ok := errorCodeNames[e]; ok {
		return name
	}
	return "UnknownError"
}

// IsBinding reports whether the code belongs to the binding category
func (e ErrorCode) IsBinding() bool {
	return e >= DuplicateBindingCode && e <= BodyNotAllowedCode
}

// IsShape reports whether the code belongs to the shape category
func (e ErrorCode) IsShape() bool {
	return e >= PrimitiveReturnTypeCode && e <= MissingClientAnnotationCode
}

// SourceLocation represents where an error occurred in source code
type SourceLocation struct {
	File   string // file path where error occurred
	Line   int    // line number (1-based)
	Column int    // column number (1-based)
}

// String returns a formatted string representation of the location
func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	if s.Column == 0 {
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsEmpty returns true if the location has no useful information
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// BaseError provides a common implementation of the Diagnostic interface
type BaseError struct {
	Code        ErrorCode              // type of error
	Message     string                 // error message
	Loc         SourceLocation         // where the error occurred
	Elem        string                 // declaration element, e.g. "BookClient.Get(id)"
	Cause       error                  // underlying error cause
	ContextData map[string]interface{} // additional context information
	Hints       []string               // helpful suggestions for fixing the error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	msg := e.Message
	if e.Elem != "" {
		msg = fmt.Sprintf("%s: %s", e.Elem, msg)
	}
	if e.Loc.IsEmpty() {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Loc.String(), msg)
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Location returns the source location where the error occurred
func (e *BaseError) Location() SourceLocation {
	return e.Loc
}

// Element returns the declaration element the error is reported against
func (e *BaseError) Element() string {
	return e.Elem
}

// Context returns the error context data
func (e *BaseError) Context() map[string]interface{} {
	if e.ContextData == nil {
		return make(map[string]interface{})
	}
	return e.ContextData
}

// Suggestions returns helpful suggestions for fixing the error
func (e *BaseError) Suggestions() []string {
	return e.Hints
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *BaseError) Unwrap() error {
	return e.Cause
}

// WithLocation adds location information to the error
func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.Loc = loc
	return e
}

// WithElement names the declaration element that caused the error
func (e *BaseError) WithElement(element string) *BaseError {
	e.Elem = element
	return e
}

// WithCause adds an underlying error cause
func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

// WithContext adds context data to the error
func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

// WithSuggestions adds multiple helpful suggestions
func (e *BaseError) WithSuggestions(suggestions ...string) *BaseError {
	e.Hints = append(e.Hints, suggestions...)
	return e
}

// New creates a new BaseError with the specified code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Hints:   make([]string, 0),
	}
}

// Newf creates a new BaseError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new error that wraps another error
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Hints:   make([]string, 0),
	}
}

// Wrapf creates a new error that wraps another error with formatted message
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// MultipleErrors is an ordered, accumulating list of diagnostics
type MultipleErrors struct {
	Errors []Diagnostic
}

// Error implements the error interface
func (e *MultipleErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("multiple errors (%d total):\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap exposes every collected diagnostic to errors.Is and errors.As
func (e *MultipleErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add appends a diagnostic to the collection
func (e *MultipleErrors) Add(err Diagnostic) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

// Merge appends all diagnostics carried by err, if any
func (e *MultipleErrors) Merge(err error) {
	if err == nil {
		return
	}
	switch v := err.(type) {
	case *MultipleErrors:
		e.Errors = append(e.Errors, v.Errors...)
	case Diagnostic:
		e.Errors = append(e.Errors, v)
	default:
		e.Errors = append(e.Errors, Wrap(UnknownErrorCode, err.Error(), err))
	}
}

// IsEmpty returns true if there are no errors
func (e *MultipleErrors) IsEmpty() bool {
	return len(e.Errors) == 0
}

// Count returns the number of errors
func (e *MultipleErrors) Count() int {
	return len(e.Errors)
}

// GetByCode returns all errors of a specific type
func (e *MultipleErrors) GetByCode(code ErrorCode) []Diagnostic {
	var result []Diagnostic
	for _, err := range e.Errors {
		if err.ErrorCode() == code {
			result = append(result, err)
		}
	}
	return result
}

// HasCode returns true if any error of the specified type exists
func (e *MultipleErrors) HasCode(code ErrorCode) bool {
	return len(e.GetByCode(code)) > 0
}

// ErrorOrNil returns nil for an empty collection so callers can return it directly
func (e *MultipleErrors) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// NewMultipleErrors creates a new MultipleErrors collection
func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{
		Errors: make([]Diagnostic, 0),
	}
}
