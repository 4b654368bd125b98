package errors

import "fmt"

// BindingError reports a parameter that cannot be bound to the request
type BindingError struct {
	*BaseError
	Method    string // method the parameter belongs to
	Parameter string // offending parameter, empty for URL variables without a source
	Name      string // binding name, URL variable or form field involved
}

func newBindingError(code ErrorCode, method, parameter, name, message string, loc SourceLocation) *BindingError {
	element := method
	if parameter != "" {
		element = fmt.Sprintf("%s(%s)", method, parameter)
	}
	return &BindingError{
		BaseError: New(code, message).WithLocation(loc).WithElement(element).
			WithContext("method", method).
			WithContext("name", name),
		Method:    method,
		Parameter: parameter,
		Name:      name,
	}
}

// NewDuplicateBinding reports a second parameter resolving to an already used binding name
func NewDuplicateBinding(method, parameter, name string, loc SourceLocation) *BindingError {
	err := newBindingError(DuplicateBindingCode, method, parameter, name,
		fmt.Sprintf("binding name %q is already used by another parameter", name), loc)
	err.WithSuggestion("Give each path or query parameter a distinct -Name")
	return err
}

// NewUnresolvedURLVariable reports a URL template variable no parameter or cookie covers
func NewUnresolvedURLVariable(method, variable string, loc SourceLocation) *BindingError {
	err := newBindingError(UnresolvedURLVariableCode, method, "", variable,
		fmt.Sprintf("url variable {%s} has no corresponding parameter", variable), loc)
	err.WithSuggestions(
		fmt.Sprintf("Add a parameter named %q or annotate one with //rest::path <param> -Name=%s", variable, variable),
		"Declare the variable as a cookie with //rest::requires_cookie_in_url",
	)
	return err
}

// NewUnmatchedPathParameter reports a path parameter whose binding name is missing from the URL template
func NewUnmatchedPathParameter(method, parameter, name string, loc SourceLocation) *BindingError {
	err := newBindingError(UnmatchedPathParameterCode, method, parameter, name,
		fmt.Sprintf("annotated parameter is bound to %q which has no corresponding url variable", name), loc)
	err.WithSuggestion(fmt.Sprintf("Add {%s} to the url template or fix the -Name value", name))
	return err
}

// NewDuplicateFormField reports two form or part parameters sharing a field name
func NewDuplicateFormField(method, parameter, name string, loc SourceLocation) *BindingError {
	err := newBindingError(DuplicateFormFieldCode, method, parameter, name,
		fmt.Sprintf("form field %q is declared more than once", name), loc)
	err.WithSuggestion("Use a distinct -Name for each form field")
	return err
}

// NewConflictingBodyEncoding reports a method that mixes entity and form encodings or has several entities
func NewConflictingBodyEncoding(method, parameter, reason string, loc SourceLocation) *BindingError {
	err := newBindingError(ConflictingBodyEncodingCode, method, parameter, "", reason, loc)
	err.WithSuggestions(
		"A request body is either one entity parameter or a set of form fields",
		"Annotate extra parameters with //rest::path, //rest::query or //rest::field",
	)
	return err
}

// NewMixedFieldAndPart reports a method using both field and part annotations
func NewMixedFieldAndPart(method, parameter string, loc SourceLocation) *BindingError {
	err := newBindingError(MixedFieldAndPartCode, method, parameter, "",
		"cannot mix //rest::field and //rest::part annotations in one method", loc)
	err.WithSuggestion("Use //rest::part for every body parameter of a multipart request")
	return err
}

// NewBodyNotAllowed reports a body on a verb that does not carry one
func NewBodyNotAllowed(method, parameter, verb string, loc SourceLocation) *BindingError {
	err := newBindingError(BodyNotAllowedCode, method, parameter, "",
		fmt.Sprintf("%s requests cannot carry a body, but %q would be sent as one", verb, parameter), loc)
	err.WithSuggestion("Bind the parameter to the url with //rest::path or //rest::query")
	return err
}

// ShapeError reports a declaration whose structure cannot produce a client method
type ShapeError struct {
	*BaseError
	Client string
	Method string
}

// NewShapeError creates a shape error against a client or one of its methods
func NewShapeError(code ErrorCode, client, method, message string, loc SourceLocation) *ShapeError {
	element := client
	if method != "" {
		element = client + "." + method
	}
	return &ShapeError{
		BaseError: New(code, message).WithLocation(loc).WithElement(element),
		Client:    client,
		Method:    method,
	}
}

// NewShapeErrorf creates a shape error with a formatted message
func NewShapeErrorf(code ErrorCode, client, method string, loc SourceLocation, format string, args ...interface{}) *ShapeError {
	return NewShapeError(code, client, method, fmt.Sprintf(format, args...), loc)
}
