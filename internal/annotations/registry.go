package annotations

import (
	"fmt"
	"sync"

	"github.com/toyz/restgen/internal/errors"
)

// AnnotationRegistry is the set of //rest:: kinds the parser accepts, indexed
// by the declarations each kind may annotate
type AnnotationRegistry interface {
	// Register adds the schema of one annotation kind
	Register(schema AnnotationSchema) error

	// GetSchema retrieves the schema for an annotation type
	GetSchema(annotationType AnnotationType) (AnnotationSchema, error)

	// ListTypes returns the registered kinds in declaration order
	ListTypes() []AnnotationType

	// IsRegistered checks if an annotation type is registered
	IsRegistered(annotationType AnnotationType) bool

	// Allows reports whether a registered kind may annotate the target
	Allows(annotationType AnnotationType, target Target) bool
}

// schemaRegistry stores schemas in a slice indexed by AnnotationType
type schemaRegistry struct {
	mu      sync.RWMutex
	schemas []*AnnotationSchema
}

// NewRegistry creates an empty registry
func NewRegistry() AnnotationRegistry {
	return &schemaRegistry{
		schemas: make([]*AnnotationSchema, len(annotationNames)),
	}
}

var (
	defaultRegistry     AnnotationRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry holding the built-in schemas
func DefaultRegistry() AnnotationRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinSchemas(defaultRegistry); err != nil {
			panic(fmt.Sprintf("failed to register built-in schemas: %v", err))
		}
	})
	return defaultRegistry
}

// Register checks the schema and adds it under its own type. Every problem
// with the schema is reported at once.
func (r *schemaRegistry) Register(schema AnnotationSchema) error {
	if schema.Type < 0 || int(schema.Type) >= len(r.schemas) {
		return errors.NewSchemaError(schema.Type.String(), "",
			fmt.Sprintf("annotation type %d is not a rest:: kind", schema.Type))
	}
	if err := checkSchema(schema); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.schemas[schema.Type] != nil {
		return errors.NewSchemaError(schema.Type.String(), "", "annotation kind is already registered")
	}
	r.schemas[schema.Type] = &schema
	return nil
}

func (r *schemaRegistry) lookup(annotationType AnnotationType) *AnnotationSchema {
	if annotationType < 0 || int(annotationType) >= len(r.schemas) {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas[annotationType]
}

// GetSchema retrieves the schema for an annotation type
func (r *schemaRegistry) GetSchema(annotationType AnnotationType) (AnnotationSchema, error) {
	schema := r.lookup(annotationType)
	if schema == nil {
		return AnnotationSchema{}, fmt.Errorf("annotation type %s is not registered", annotationType)
	}
	return *schema, nil
}

func (r *schemaRegistry) ListTypes() []AnnotationType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []AnnotationType
	for i, schema := range r.schemas {
		if schema != nil {
			types = append(types, AnnotationType(i))
		}
	}
	return types
}

func (r *schemaRegistry) IsRegistered(annotationType AnnotationType) bool {
	return r.lookup(annotationType) != nil
}

// Allows reports whether the kind may annotate the target. Unregistered kinds
// are allowed nowhere.
func (r *schemaRegistry) Allows(annotationType AnnotationType, target Target) bool {
	schema := r.lookup(annotationType)
	return schema != nil && schema.Targets&target != 0
}

// defaultMatches checks an option default against its declared type
var defaultMatches = map[ParameterType]func(interface{}) bool{
	StringType:      func(v interface{}) bool { _, ok := v.(string); return ok },
	BoolType:        func(v interface{}) bool { _, ok := v.(bool); return ok },
	StringSliceType: func(v interface{}) bool { _, ok := v.([]string); return ok },
}

// checkSchema collects the structural problems of a schema
func checkSchema(schema AnnotationSchema) error {
	kind := schema.Type.String()
	errs := errors.NewMultipleErrors()

	if schema.Targets&(TargetInterface|TargetMethod) == 0 {
		errs.Add(errors.NewSchemaError(kind, "", "schema must allow interfaces, methods or both"))
	}

	for i, pos := range schema.Positional {
		if pos.Name == "" {
			errs.Add(errors.NewSchemaError(kind, "", fmt.Sprintf("positional argument %d has no name", i)))
		}
		if pos.Required && i > 0 && !schema.Positional[i-1].Required {
			errs.Add(errors.NewSchemaError(kind, pos.Name, "required positional argument follows an optional one"))
		}
	}
	if schema.Variadic && len(schema.Positional) == 0 {
		errs.Add(errors.NewSchemaError(kind, "", "variadic schema has no positional argument to repeat"))
	}

	for name, spec := range schema.Parameters {
		if name == "" {
			errs.Add(errors.NewSchemaError(kind, "", "option name cannot be empty"))
			continue
		}
		matches, known := defaultMatches[spec.Type]
		if !known {
			errs.Add(errors.NewSchemaError(kind, name, fmt.Sprintf("unknown option type %d", spec.Type)))
			continue
		}
		if spec.DefaultValue != nil && !matches(spec.DefaultValue) {
			errs.Add(errors.NewSchemaError(kind, name,
				fmt.Sprintf("default for %s option must be %s, got %T", spec.Type, spec.Type, spec.DefaultValue)))
		}
	}

	return errs.ErrorOrNil()
}
