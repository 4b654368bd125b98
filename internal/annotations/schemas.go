package annotations

import "fmt"

// Built-in annotation schemas

// ClientAnnotationSchema defines the schema for //rest::client annotations
var ClientAnnotationSchema = AnnotationSchema{
	Type:        ClientAnnotation,
	Description: "Marks an interface as a REST client to generate",
	Targets:     TargetInterface,
	Parameters: map[string]ParameterSpec{
		"RootURL": {
			Type:        StringType,
			Description: "Root URL prepended to every request URL",
			Validator:   ValidateRootURL,
		},
		"Accept": {
			Type:        StringType,
			Description: "Default media type sent in the Accept header",
			Validator:   ValidateMediaType,
		},
	},
	Examples: []string{
		"//rest::client",
		"//rest::client -RootURL=https://api.example.com",
		`//rest::client -RootURL="https://api.example.com/v1" -Accept=application/json`,
	},
}

// verbSchema builds the schema shared by every HTTP verb annotation
func verbSchema(annotationType AnnotationType) AnnotationSchema {
	return AnnotationSchema{
		Type:        annotationType,
		Description: fmt.Sprintf("Issues an HTTP %s request", annotationType.String()),
		Targets:     TargetMethod,
		Positional: []PositionalSpec{
			{
				Name:        "url",
				Required:    true,
				Description: "URL template relative to the root URL, variables in braces",
				Validator:   ValidateURLTemplate,
			},
		},
		Examples: []string{
			fmt.Sprintf("//rest::%s /users/{id}", annotationType.String()),
		},
	}
}

// roleSchema builds the schema shared by every parameter role annotation
func roleSchema(annotationType AnnotationType, description string) AnnotationSchema {
	return AnnotationSchema{
		Type:        annotationType,
		Description: description,
		Targets:     TargetMethod,
		Positional: []PositionalSpec{
			{
				Name:        "param",
				Required:    true,
				Description: "Name of the method parameter the annotation applies to",
				Validator:   ValidateIdentifier,
			},
		},
		Parameters: map[string]ParameterSpec{
			"Name": {
				Type:        StringType,
				Description: "Explicit binding name, defaults to the parameter name",
				Validator: func(v interface{}) error {
					if v.(string) == "" {
						return fmt.Errorf("binding name cannot be empty")
					}
					return nil
				},
			},
		},
		Examples: []string{
			fmt.Sprintf("//rest::%s id", annotationType.String()),
			fmt.Sprintf("//rest::%s id -Name=user_id", annotationType.String()),
		},
	}
}

// namesSchema builds the schema of annotations listing header or cookie names
func namesSchema(annotationType AnnotationType, description string, validate func(string) error) AnnotationSchema {
	return AnnotationSchema{
		Type:        annotationType,
		Description: description,
		Targets:     TargetInterface | TargetMethod,
		Positional: []PositionalSpec{
			{
				Name:        "name",
				Required:    true,
				Description: "Header or cookie name",
				Validator:   validate,
			},
		},
		Variadic: true,
		Examples: []string{
			fmt.Sprintf("//rest::%s session", annotationType.String()),
		},
	}
}

// AcceptAnnotationSchema defines the schema for //rest::accept annotations
var AcceptAnnotationSchema = AnnotationSchema{
	Type:        AcceptAnnotation,
	Description: "Sets the Accept header for the client or a single method",
	Targets:     TargetInterface | TargetMethod,
	Positional: []PositionalSpec{
		{
			Name:        "media",
			Required:    true,
			Description: "Media type, e.g. application/json",
			Validator:   func(s string) error { return ValidateMediaType(s) },
		},
	},
	Examples: []string{
		"//rest::accept application/json",
	},
}

// RequiresAuthAnnotationSchema defines the schema for //rest::requires_auth annotations
var RequiresAuthAnnotationSchema = AnnotationSchema{
	Type:        RequiresAuthAnnotation,
	Description: "Sends the client's authentication with every request",
	Targets:     TargetInterface | TargetMethod,
	Examples: []string{
		"//rest::requires_auth",
	},
}

// BuiltinSchemas returns the schemas of every //rest:: annotation kind
func BuiltinSchemas() []AnnotationSchema {
	schemas := []AnnotationSchema{ClientAnnotationSchema}
	for _, verb := range []AnnotationType{
		GetAnnotation, PostAnnotation, PutAnnotation, PatchAnnotation,
		DeleteAnnotation, HeadAnnotation, OptionsAnnotation,
	} {
		schemas = append(schemas, verbSchema(verb))
	}
	return append(schemas,
		roleSchema(PathAnnotation, "Binds a parameter to a URL template variable"),
		roleSchema(QueryAnnotation, "Appends a parameter to the URL query"),
		roleSchema(FieldAnnotation, "Sends a parameter as a URL-encoded form field"),
		roleSchema(PartAnnotation, "Sends a parameter as a multipart form part"),
		AcceptAnnotationSchema,
		namesSchema(RequiresHeaderAnnotation, "Sends client headers with the request", ValidateHeaderName),
		namesSchema(RequiresCookieAnnotation, "Sends client cookies with the request", ValidateCookieName),
		namesSchema(RequiresCookieInURLAnnotation, "Fills URL template variables from client cookies", ValidateCookieName),
		RequiresAuthAnnotationSchema,
		namesSchema(SetsCookieAnnotation, "Stores the named response cookies in the client", ValidateCookieName),
	)
}

// RegisterBuiltinSchemas registers every built-in schema with the registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range BuiltinSchemas() {
		if err := registry.Register(schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type.String(), err)
		}
	}
	return nil
}
