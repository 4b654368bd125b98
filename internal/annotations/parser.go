package annotations

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/restgen/internal/errors"
)

// Prefix marks a comment line as a restgen annotation
const Prefix = "rest::"

// annotationAST is the grammar of one annotation comment
type annotationAST struct {
	Kind  string     `parser:"Comment? Prefix @Word"`
	Items []*itemAST `parser:"@@*"`
}

// itemAST is a positional argument or an option
type itemAST struct {
	Option *optionAST `parser:"  @@"`
	Value  *string    `parser:"| @(String | Word)"`
}

// optionAST is -Key=Value or a bare -Flag
type optionAST struct {
	Name  string  `parser:"@Option"`
	Value *string `parser:"( Equals @(String | Word) )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Prefix", Pattern: `rest::`},
	{Name: "Option", Pattern: `-[A-Za-z][A-Za-z0-9_]*`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Word", Pattern: `[^\s"=\-][^\s"]*`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// ParserEngine interface defines the core parsing functionality
type ParserEngine interface {
	ParseAnnotation(comment string, location errors.SourceLocation) (*ParsedAnnotation, error)
	ValidateAnnotation(annotation *ParsedAnnotation) error
}

// Parser parses //rest:: comments with participle and checks them against the registry
type Parser struct {
	grammar   *participle.Parser[annotationAST]
	registry  AnnotationRegistry
	validator SchemaValidator
}

// NewParser creates a parser validating against the given registry. A nil
// registry skips schema validation.
func NewParser(registry AnnotationRegistry) *Parser {
	return &Parser{
		grammar: participle.MustBuild[annotationAST](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
		),
		registry:  registry,
		validator: NewValidator(),
	}
}

// IsAnnotation reports whether a comment line carries a restgen annotation
func IsAnnotation(comment string) bool {
	text := strings.TrimSpace(comment)
	text = strings.TrimSpace(strings.TrimPrefix(text, "//"))
	return strings.HasPrefix(text, Prefix)
}

// ParseAnnotation parses an annotation comment, converts its options and
// validates it against the registered schema
func (p *Parser) ParseAnnotation(comment string, location errors.SourceLocation) (*ParsedAnnotation, error) {
	text := strings.TrimSpace(comment)
	if !IsAnnotation(text) {
		return nil, errors.NewSyntaxError("not a restgen annotation").
			WithLocation(location).
			WithSuggestion(fmt.Sprintf("Annotations start with //%s", Prefix))
	}

	ast, err := p.grammar.ParseString(location.File, text)
	if err != nil {
		return nil, syntaxError(err, text, location)
	}

	annotationType, err := ParseAnnotationType(ast.Kind)
	if err != nil {
		return nil, errors.NewSyntaxErrorWithToken("unknown annotation kind", ast.Kind, strings.Index(text, ast.Kind)+1).
			WithLocation(location).
			WithSuggestion(fmt.Sprintf("Known kinds: %s", strings.Join(annotationNames, ", ")))
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        text,
	}
	for _, item := range ast.Items {
		if item.Option == nil {
			parsed.Positional = append(parsed.Positional, *item.Value)
			continue
		}
		name := strings.TrimPrefix(item.Option.Name, "-")
		if _, dup := parsed.Parameters[name]; dup {
			return nil, errors.NewSchemaError(annotationType.String(), name, fmt.Sprintf("option -%s given more than once", name)).
				WithLocation(location)
		}
		if item.Option.Value == nil {
			parsed.Parameters[name] = true
		} else {
			parsed.Parameters[name] = *item.Option.Value
		}
	}

	if p.registry != nil {
		if err := p.ValidateAnnotation(parsed); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

// ValidateAnnotation converts option values and validates them against the
// annotation's schema, then applies schema defaults
func (p *Parser) ValidateAnnotation(annotation *ParsedAnnotation) error {
	schema, err := p.registry.GetSchema(annotation.Type)
	if err != nil {
		return errors.NewSchemaError(annotation.Type.String(), "", err.Error()).WithLocation(annotation.Location)
	}
	if err := p.validator.TransformParameters(annotation, schema); err != nil {
		return err
	}
	if err := p.validator.Validate(annotation, schema); err != nil {
		return err
	}
	return p.validator.ApplyDefaults(annotation, schema)
}

// Allows reports whether the annotation kind may appear on the target. Without
// a registry every placement is accepted.
func (p *Parser) Allows(annotationType AnnotationType, target Target) bool {
	if p.registry == nil {
		return true
	}
	return p.registry.Allows(annotationType, target)
}

// syntaxError maps a participle failure to a syntax diagnostic pointing at
// the offending column of the source line
func syntaxError(err error, text string, location errors.SourceLocation) error {
	var perr participle.Error
	if !stderrors.As(err, &perr) {
		return errors.WrapParseError(text, err).WithLocation(location)
	}

	pos := perr.Position()
	token := ""
	if pos.Offset >= 0 && pos.Offset < len(text) {
		if fields := strings.Fields(text[pos.Offset:]); len(fields) > 0 {
			token = fields[0]
		}
	}
	loc := location
	if loc.Column > 0 {
		loc.Column += pos.Column - 1
	}

	var synErr *errors.SyntaxError
	if token == "" {
		synErr = errors.NewSyntaxError(perr.Message())
		synErr.Position = pos.Column
	} else {
		synErr = errors.NewSyntaxErrorWithToken(perr.Message(), token, pos.Column)
	}
	return synErr.WithLocation(loc).
		WithSuggestion("Expected //rest::<kind> [arguments...] [-Option=value] [-Flag]")
}
