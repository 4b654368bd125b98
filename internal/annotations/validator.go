package annotations

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/restgen/internal/errors"
)

// SchemaValidator defines the interface for validating annotations against their schemas
type SchemaValidator interface {
	// Validate annotation against its schema
	Validate(annotation *ParsedAnnotation, schema AnnotationSchema) error

	// ApplyDefaults applies default values for missing optional parameters
	ApplyDefaults(annotation *ParsedAnnotation, schema AnnotationSchema) error

	// TransformParameters transforms parameter values to correct types
	TransformParameters(annotation *ParsedAnnotation, schema AnnotationSchema) error
}

// validator is the concrete implementation of SchemaValidator
type validator struct{}

// NewValidator creates a new schema validator
func NewValidator() SchemaValidator {
	return &validator{}
}

// Validate validates an annotation against its schema. Every problem is
// reported; the result is nil or an *errors.MultipleErrors of SchemaErrors.
func (v *validator) Validate(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	kind := annotation.Type.String()
	errs := errors.NewMultipleErrors()
	fail := func(param, format string, args ...interface{}) *errors.SchemaError {
		err := errors.NewSchemaError(kind, param, fmt.Sprintf(format, args...)).WithLocation(annotation.Location)
		errs.Add(err)
		return err
	}

	// Positional arguments
	for i, spec := range schema.Positional {
		if i >= len(annotation.Positional) {
			if spec.Required {
				fail(spec.Name, "missing required argument <%s>", spec.Name).
					WithSuggestion(fmt.Sprintf("Usage: %s", usage(schema)))
			}
			continue
		}
		v.validatePositional(annotation.Positional[i], spec, fail)
	}
	if extra := len(annotation.Positional) - len(schema.Positional); extra > 0 {
		if schema.Variadic && len(schema.Positional) > 0 {
			last := schema.Positional[len(schema.Positional)-1]
			for _, arg := range annotation.Positional[len(schema.Positional):] {
				v.validatePositional(arg, last, fail)
			}
		} else {
			fail("", "unexpected argument %q", annotation.Positional[len(schema.Positional)]).
				WithSuggestion(fmt.Sprintf("Usage: %s", usage(schema)))
		}
	}

	// Validate required parameters are present
	for _, paramName := range sortedParams(schema) {
		paramSpec := schema.Parameters[paramName]
		if paramSpec.Required && !annotation.HasParameter(paramName) {
			fail(paramName, "missing required option -%s", paramName).
				WithSuggestion(fmt.Sprintf("Add -%s=<value> to the annotation", paramName))
		}
	}

	// Validate parameter types and values
	names := make([]string, 0, len(annotation.Parameters))
	for name := range annotation.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, paramName := range names {
		paramValue := annotation.Parameters[paramName]
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			err := fail(paramName, "unknown option -%s for %s", paramName, kind)
			if known := sortedParams(schema); len(known) > 0 {
				err.WithSuggestion("Known options: -" + strings.Join(known, ", -"))
			} else {
				err.WithSuggestion(fmt.Sprintf("Remove -%s, %s takes no options", paramName, kind))
			}
			continue
		}

		if !isCorrectType(paramValue, paramSpec.Type) {
			fail(paramName, "option -%s must be %s, got %T", paramName, paramSpec.Type.String(), paramValue)
			continue
		}

		// Run custom validator if present
		if paramSpec.Validator != nil {
			if err := paramSpec.Validator(paramValue); err != nil {
				fail(paramName, "invalid -%s: %v", paramName, err)
			}
		}
	}

	// Run custom annotation validators
	for _, customValidator := range schema.Validators {
		if err := customValidator(annotation); err != nil {
			fail("", "%v", err)
		}
	}

	return errs.ErrorOrNil()
}

func (v *validator) validatePositional(arg string, spec PositionalSpec, fail func(string, string, ...interface{}) *errors.SchemaError) {
	if spec.Validator == nil {
		return
	}
	if err := spec.Validator(arg); err != nil {
		fail(spec.Name, "invalid <%s>: %v", spec.Name, err)
	}
}

// ApplyDefaults applies default values for missing optional parameters
func (v *validator) ApplyDefaults(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	if annotation.Parameters == nil {
		annotation.Parameters = make(map[string]interface{})
	}

	for paramName, paramSpec := range schema.Parameters {
		if _, exists := annotation.Parameters[paramName]; !exists && paramSpec.DefaultValue != nil {
			annotation.Parameters[paramName] = paramSpec.DefaultValue
		}
	}

	return nil
}

// TransformParameters converts raw option values to their declared types.
// A bare flag arrives as true and is accepted for bool options only.
func (v *validator) TransformParameters(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	for paramName, paramValue := range annotation.Parameters {
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			continue // unknown options are reported by Validate
		}

		var (
			converted interface{}
			err       error
		)
		switch paramSpec.Type {
		case StringType:
			s, ok := paramValue.(string)
			if !ok {
				err = fmt.Errorf("option -%s requires a value", paramName)
			}
			converted = s
		case BoolType:
			converted, err = ConvertToBool(paramValue)
		case StringSliceType:
			if _, isFlag := paramValue.(bool); isFlag {
				err = fmt.Errorf("option -%s requires a value", paramName)
				break
			}
			converted, err = ConvertToStringSlice(paramValue)
		}
		if err != nil {
			return errors.NewSchemaError(annotation.Type.String(), paramName, err.Error()).
				WithLocation(annotation.Location)
		}

		annotation.Parameters[paramName] = converted
	}

	return nil
}

// isCorrectType checks if a value is already the correct type
func isCorrectType(value interface{}, targetType ParameterType) bool {
	switch targetType {
	case StringType:
		_, ok := value.(string)
		return ok
	case BoolType:
		_, ok := value.(bool)
		return ok
	case StringSliceType:
		_, ok := value.([]string)
		return ok
	default:
		return false
	}
}

func sortedParams(schema AnnotationSchema) []string {
	names := make([]string, 0, len(schema.Parameters))
	for name := range schema.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// usage renders the annotation syntax described by a schema
func usage(schema AnnotationSchema) string {
	s := "//rest::" + schema.Type.String()
	for i, pos := range schema.Positional {
		arg := "<" + pos.Name + ">"
		if !pos.Required {
			arg = "[" + arg + "]"
		}
		if schema.Variadic && i == len(schema.Positional)-1 {
			arg += "..."
		}
		s += " " + arg
	}
	for _, name := range sortedParams(schema) {
		s += fmt.Sprintf(" [-%s=<%s>]", name, schema.Parameters[name].Type.String())
	}
	return s
}
