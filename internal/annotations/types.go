package annotations

import (
	"fmt"

	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
)

// AnnotationType represents the kind of a //rest:: annotation
type AnnotationType int

const (
	ClientAnnotation AnnotationType = iota
	GetAnnotation
	PostAnnotation
	PutAnnotation
	PatchAnnotation
	DeleteAnnotation
	HeadAnnotation
	OptionsAnnotation
	PathAnnotation
	QueryAnnotation
	FieldAnnotation
	PartAnnotation
	AcceptAnnotation
	RequiresHeaderAnnotation
	RequiresCookieAnnotation
	RequiresCookieInURLAnnotation
	RequiresAuthAnnotation
	SetsCookieAnnotation
)

var annotationNames = []string{
	ClientAnnotation:              "client",
	GetAnnotation:                 "get",
	PostAnnotation:                "post",
	PutAnnotation:                 "put",
	PatchAnnotation:               "patch",
	DeleteAnnotation:              "delete",
	HeadAnnotation:                "head",
	OptionsAnnotation:             "options",
	PathAnnotation:                "path",
	QueryAnnotation:               "query",
	FieldAnnotation:               "field",
	PartAnnotation:                "part",
	AcceptAnnotation:              "accept",
	RequiresHeaderAnnotation:      "requires_header",
	RequiresCookieAnnotation:      "requires_cookie",
	RequiresCookieInURLAnnotation: "requires_cookie_in_url",
	RequiresAuthAnnotation:        "requires_auth",
	SetsCookieAnnotation:          "sets_cookie",
}

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	if a >= 0 && int(a) < len(annotationNames) {
		return annotationNames[a]
	}
	return "unknown"
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	for i, name := range annotationNames {
		if name == s {
			return AnnotationType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown annotation type: %s", s)
}

// AllTypes returns every annotation type in declaration order
func AllTypes() []AnnotationType {
	types := make([]AnnotationType, len(annotationNames))
	for i := range annotationNames {
		types[i] = AnnotationType(i)
	}
	return types
}

// Verb returns the HTTP verb of a verb annotation
func (a AnnotationType) Verb() (models.HTTPVerb, bool) {
	if a < GetAnnotation || a > OptionsAnnotation {
		return "", false
	}
	return models.ParseVerb(a.String())
}

// Role returns the parameter role assigned by a role annotation
func (a AnnotationType) Role() (models.Role, bool) {
	switch a {
	case PathAnnotation:
		return models.RolePathVariable, true
	case QueryAnnotation:
		return models.RoleQueryParam, true
	case FieldAnnotation:
		return models.RoleFormField, true
	case PartAnnotation:
		return models.RoleMultipartPart, true
	}
	return 0, false
}

// Target describes where an annotation may appear
type Target int

const (
	TargetInterface Target = 1 << iota
	TargetMethod
)

// ParsedAnnotation represents a fully parsed annotation with type-safe parameters
type ParsedAnnotation struct {
	Type       AnnotationType         // Annotation type enum
	Positional []string               // Positional arguments in order
	Parameters map[string]interface{} // Typed -Key=Value options and flags
	Location   errors.SourceLocation  // Source location
	Raw        string                 // Original annotation text
}

// Arg returns the positional argument at index i, or "" when absent
func (p *ParsedAnnotation) Arg(i int) string {
	if i < len(p.Positional) {
		return p.Positional[i]
	}
	return ""
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
	StringSliceType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	case StringSliceType:
		return "[]string"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for an annotation option
type ParameterSpec struct {
	Type         ParameterType           // Parameter type
	Required     bool                    // Whether parameter is required
	DefaultValue interface{}             // Default value if not provided
	Description  string                  // Parameter description
	Validator    func(interface{}) error // Custom validator function
}

// PositionalSpec defines one positional argument
type PositionalSpec struct {
	Name        string
	Required    bool
	Description string
	Validator   func(string) error
}

// CustomValidator represents a custom validation function for annotations
type CustomValidator func(*ParsedAnnotation) error

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	Targets     Target                   // Where the annotation may appear
	Positional  []PositionalSpec         // Positional arguments in order
	Variadic    bool                     // The last positional argument repeats
	Parameters  map[string]ParameterSpec // Option specifications
	Validators  []CustomValidator        // Custom validation functions
	Examples    []string                 // Usage examples
}

// ConvertToBool converts various types to boolean
func ConvertToBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return parseBoolString(v)
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}

// ConvertToStringSlice converts various types to string slice
func ConvertToStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case string:
		if v == "" {
			return []string{}, nil
		}
		return parseCommaSeparated(v), nil
	default:
		return []string{fmt.Sprintf("%v", value)}, nil
	}
}

func parseBoolString(s string) (bool, error) {
	switch s {
	case "true", "True", "TRUE", "1", "yes", "Yes", "YES", "on", "On", "ON":
		return true, nil
	case "false", "False", "FALSE", "0", "no", "No", "NO", "off", "Off", "OFF":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s", s)
	}
}

func parseCommaSeparated(s string) []string {
	parts := make([]string, 0)
	current := ""
	inQuotes := false

	for _, char := range s {
		switch char {
		case '"', '\'':
			inQuotes = !inQuotes
			current += string(char)
		case ',':
			if !inQuotes {
				parts = append(parts, trimAndUnquote(current))
				current = ""
			} else {
				current += string(char)
			}
		default:
			current += string(char)
		}
	}
	if current != "" {
		parts = append(parts, trimAndUnquote(current))
	}

	return parts
}

func trimAndUnquote(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}

	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
