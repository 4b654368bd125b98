package validator

import (
	"fmt"
	"strings"

	"github.com/toyz/restgen/internal/binder"
	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
)

// reservedIdentifiers are the locals and imported package names of generated
// method bodies; parameters may not shadow them.
var reservedIdentifiers = map[string]bool{
	"c":        true,
	"result":   true,
	"err":      true,
	"headers":  true,
	"entity":   true,
	"form":     true,
	"vars":     true,
	"response": true,
	"meta":     true,
	"rest":     true,
	"context":  true,
}

func shapeError(ctx *MethodContext, code errors.ErrorCode, loc errors.SourceLocation, format string, args ...interface{}) *errors.ShapeError {
	if loc.IsEmpty() {
		loc = ctx.Method.Location
	}
	return errors.NewShapeErrorf(code, ctx.Client.Name, ctx.Method.Name, loc, format, args...)
}

func isRequestMethod(m *models.MethodDeclaration) bool {
	return m.Accessor == models.AccessorNone && len(m.Verbs) > 0
}

func checkSourceDiagnostics(client *models.ClientDeclaration) []errors.Diagnostic {
	return client.Diagnostics
}

func checkClientAnnotation(client *models.ClientDeclaration) []errors.Diagnostic {
	if client.Annotated {
		return nil
	}
	err := errors.NewShapeError(errors.MissingClientAnnotationCode, client.Name, "",
		"interface is not annotated with //rest::client", client.Location)
	err.WithSuggestion("Add //rest::client to the interface doc comment")
	return []errors.Diagnostic{err}
}

func checkClientTypeParams(client *models.ClientDeclaration) []errors.Diagnostic {
	if len(client.TypeParams) == 0 {
		return nil
	}
	err := errors.NewShapeErrorf(errors.UnsupportedTypeCode, client.Name, "", client.Location,
		"client interface cannot declare type parameters [%s]", strings.Join(client.TypeParams, ", "))
	return []errors.Diagnostic{err}
}

func checkMethodNames(client *models.ClientDeclaration) []errors.Diagnostic {
	var diags []errors.Diagnostic
	seen := make(map[string]bool, len(client.Methods))
	for _, m := range client.Methods {
		if seen[m.Name] {
			diags = append(diags, errors.NewShapeErrorf(errors.DuplicateMethodCode, client.Name, m.Name, m.Location,
				"method %s is declared more than once", m.Name))
			continue
		}
		seen[m.Name] = true
	}
	return diags
}

func checkVerb(ctx *MethodContext) []errors.Diagnostic {
	m := ctx.Method
	if m.Accessor != models.AccessorNone {
		return nil
	}

	switch len(m.Verbs) {
	case 0:
		err := shapeError(ctx, errors.MissingVerbCode, m.Location,
			"method has no verb annotation and is not a recognised accessor")
		err.WithSuggestion("Annotate the method with //rest::get, //rest::post, //rest::put, //rest::patch, //rest::delete, //rest::head or //rest::options")
		return []errors.Diagnostic{err}
	case 1:
		return nil
	}

	var diags []errors.Diagnostic
	for _, extra := range m.Verbs[1:] {
		diags = append(diags, shapeError(ctx, errors.MultipleVerbsCode, extra.Location,
			"method is already annotated with %s, cannot also be %s", m.Verbs[0].Verb, extra.Verb))
	}
	return diags
}

func checkReturnType(ctx *MethodContext) []errors.Diagnostic {
	m := ctx.Method
	if m.Accessor != models.AccessorNone {
		return nil
	}

	var diags []errors.Diagnostic

	for i, p := range m.Params {
		if p.IsContext() && i > 0 {
			diags = append(diags, shapeError(ctx, errors.InvalidSignatureCode, p.Location,
				"context.Context must be the first parameter, found it at position %d", i+1))
		}
	}

	ret := m.Returns()
	if ret == nil {
		results := make([]string, len(m.Results))
		for i, r := range m.Results {
			results[i] = r.String()
		}
		err := shapeError(ctx, errors.InvalidSignatureCode, m.Location,
			"results must be error or (T, error), got (%s)", strings.Join(results, ", "))
		return append(diags, err)
	}

	switch {
	case ret.IsVoid():
	case ret.IsPrimitive():
		err := shapeError(ctx, errors.PrimitiveReturnTypeCode, m.Location,
			"primitive return type %s is not allowed", ret)
		err.WithSuggestion("Return a struct, a string or a pointer to a value instead")
		diags = append(diags, err)
	case ret.Kind == models.KindPointer && ret.Elem != nil && ret.Elem.Kind == models.KindNamed && ret.Elem.Interface:
		diags = append(diags, shapeError(ctx, errors.UnsupportedTypeCode, m.Location,
			"pointer to interface %s cannot be decoded", ret.Elem))
	default:
		ret.Walk(func(t *models.TypeRef) bool {
			if t.Kind == models.KindUnsupported {
				diags = append(diags, shapeError(ctx, errors.UnsupportedTypeCode, m.Location,
					"return type contains unsupported type %s", t.Reason))
				return false
			}
			return true
		})
	}

	return diags
}

func checkPlacement(ctx *MethodContext) []errors.Diagnostic {
	m := ctx.Method
	var diags []errors.Diagnostic

	verb, hasVerb := m.Verb()
	accessor := m.Accessor != models.AccessorNone

	for _, p := range m.Params {
		for _, role := range p.Roles {
			switch {
			case accessor || !hasVerb:
				diags = append(diags, shapeError(ctx, errors.MisplacedAnnotationCode, role.Location,
					"//rest::%s on parameter %s requires a verb annotation on the method", role.Role, p.Name))
			case p.IsContext():
				diags = append(diags, shapeError(ctx, errors.MisplacedAnnotationCode, role.Location,
					"context parameter %s cannot be annotated with //rest::%s", p.Name, role.Role))
			case role.Role.IsBody() && !verb.Verb.AllowsBody():
				err := shapeError(ctx, errors.MisplacedAnnotationCode, role.Location,
					"//rest::%s on parameter %s is only legal on POST, PUT or PATCH methods, not %s", role.Role, p.Name, verb.Verb)
				err.WithSuggestion("Use //rest::query to send the value in the url")
				diags = append(diags, err)
			}
		}
	}

	for _, role := range m.Unattached {
		err := shapeError(ctx, errors.UnknownParameterCode, role.Location,
			"//rest::%s names parameter %q which the method does not declare", role.Role, role.Target)
		diags = append(diags, err)
	}

	if (accessor || !hasVerb) && !m.Requirements.IsZero() {
		diags = append(diags, shapeError(ctx, errors.MisplacedAnnotationCode, m.Location,
			"header, cookie and authentication annotations require a verb annotation on the method"))
	}

	return diags
}

func checkRoleExclusivity(ctx *MethodContext) []errors.Diagnostic {
	var diags []errors.Diagnostic
	for _, p := range ctx.Method.Params {
		if len(p.Roles) < 2 {
			continue
		}
		first := p.Roles[0]
		for _, extra := range p.Roles[1:] {
			var err *errors.ShapeError
			if extra.Role == first.Role {
				err = shapeError(ctx, errors.ConflictingRolesCode, extra.Location,
					"parameter %s is annotated with //rest::%s more than once", p.Name, extra.Role)
			} else {
				err = shapeError(ctx, errors.ConflictingRolesCode, extra.Location,
					"parameter %s cannot be both //rest::%s and //rest::%s", p.Name, first.Role, extra.Role)
			}
			diags = append(diags, err)
		}
	}
	return diags
}

func checkReservedIdentifiers(ctx *MethodContext) []errors.Diagnostic {
	if !isRequestMethod(ctx.Method) {
		return nil
	}
	var diags []errors.Diagnostic
	for _, p := range ctx.Method.Params {
		if reservedIdentifiers[p.Name] {
			err := shapeError(ctx, errors.ReservedIdentifierCode, p.Location,
				"parameter name %q is used by the generated method body", p.Name)
			err.WithSuggestion("Rename the parameter and keep the binding with -Name=" + p.Name)
			diags = append(diags, err)
		}
	}
	return diags
}

func checkURLBinding(ctx *MethodContext) []errors.Diagnostic {
	if !isRequestMethod(ctx.Method) {
		return nil
	}
	url, err := binder.BindURL(ctx.Client, ctx.Method)
	ctx.URL = url
	return diagnosticsOf(err)
}

func checkBodyEncoding(ctx *MethodContext) []errors.Diagnostic {
	if !isRequestMethod(ctx.Method) {
		return nil
	}
	body, err := binder.BindBody(ctx.Method, ctx.URL)
	ctx.Body = body
	diags := diagnosticsOf(err)

	verb, _ := ctx.Method.Verb()
	if body.Entity != nil && !verb.Verb.AllowsBody() {
		diags = append(diags, errors.NewBodyNotAllowed(ctx.Method.Name, body.Entity.Name, string(verb.Verb), body.Entity.Location))
	}
	return diags
}

func checkResponseType(ctx *MethodContext) []errors.Diagnostic {
	m := ctx.Method
	if !isRequestMethod(m) {
		return nil
	}
	ret := m.Returns()
	if ret == nil || ret.IsPrimitive() {
		return nil
	}

	resolved, err := ctx.Resolver.Resolve(ret)
	if err != nil {
		diag := errors.NewShapeErrorf(errors.UnresolvableResponseCode, ctx.Client.Name, m.Name, m.Location,
			"cannot resolve response type %s: %v", ret, err)
		diag.WithCause(err)
		return []errors.Diagnostic{diag}
	}
	ctx.Response = resolved

	if !resolved.Void && !ctx.Resolver.Decodable(resolved.Type) {
		diag := shapeError(ctx, errors.UnresolvableResponseCode, m.Location,
			"response type %s cannot be decoded", fmt.Sprint(resolved.Declared))
		diag.WithSuggestions(
			"Return a concrete type",
			"Return rest.List, rest.Set, rest.Map or rest.Collection, or an interface that only embeds one of them",
		)
		return []errors.Diagnostic{diag}
	}
	return nil
}
