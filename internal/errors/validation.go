package errors

import "fmt"

// SyntaxError represents an annotation that could not be parsed
type SyntaxError struct {
	*BaseError
	Token    string // the problematic token
	Position int    // column within the annotation text
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// NewSyntaxErrorWithToken creates a syntax error pointing at a token
func NewSyntaxErrorWithToken(message, token string, position int) *SyntaxError {
	err := &SyntaxError{
		BaseError: New(SyntaxErrorCode, fmt.Sprintf("%s at %q", message, token)),
		Token:     token,
		Position:  position,
	}
	err.WithContext("token", token)
	err.WithContext("position", position)
	return err
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// SchemaError represents an annotation that parsed but does not match its schema
type SchemaError struct {
	*BaseError
	Kind      string // annotation kind, e.g. "get"
	Parameter string // offending option or positional argument
}

// NewSchemaError creates a new schema error
func NewSchemaError(kind, parameter, message string) *SchemaError {
	err := &SchemaError{
		BaseError: New(SchemaErrorCode, message),
		Kind:      kind,
		Parameter: parameter,
	}
	err.WithContext("kind", kind)
	if parameter != "" {
		err.WithContext("parameter", parameter)
	}
	return err
}

// WithLocation adds location information to the error
func (e *SchemaError) WithLocation(loc SourceLocation) *SchemaError {
	e.BaseError.WithLocation(loc)
	return e
}

// GenerationError represents a failure while lowering a valid client to source
type GenerationError struct {
	*BaseError
	TargetFile string
	Stage      string
}

// NewGenerationError creates a new generation error
func NewGenerationError(stage, targetFile string, cause error) *GenerationError {
	message := fmt.Sprintf("%s failed", stage)
	if targetFile != "" {
		message = fmt.Sprintf("%s failed for %s", stage, targetFile)
	}
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &GenerationError{
		BaseError:  Wrap(GenerationErrorCode, message, cause),
		TargetFile: targetFile,
		Stage:      stage,
	}
}
