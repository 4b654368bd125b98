// Package binder matches method parameters to URL variables, form fields and
// the request entity.
package binder

import (
	"fmt"

	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
)

// URLVariable is one entry of the URL variable map. Exactly one of Param and
// Cookie provides the value.
type URLVariable struct {
	Name   string
	Param  *models.ParameterDeclaration
	Cookie bool
}

// URLBinding is the result of binding a method's URL
type URLBinding struct {
	Template  string // method template extended with the query string
	Variables []URLVariable
	Bound     map[*models.ParameterDeclaration]bool
}

// FormField is one named form or multipart value
type FormField struct {
	Name  string
	Param *models.ParameterDeclaration
}

// BodyBinding is the result of binding a method's request body
type BodyBinding struct {
	Entity     *models.ParameterDeclaration
	FormFields []FormField
	Multipart  bool
}

func templateLocation(method *models.MethodDeclaration) errors.SourceLocation {
	if verb, ok := method.Verb(); ok && !verb.Location.IsEmpty() {
		return verb.Location
	}
	return method.Location
}

// BindURL assigns every non-form parameter a binding name and matches the
// URL variables against those names and the cookie-in-URL requirements.
// The returned binding is complete even when an error is reported.
func BindURL(client *models.ClientDeclaration, method *models.MethodDeclaration) (*URLBinding, error) {
	errs := errors.NewMultipleErrors()
	reqs := models.Effective(client, method)
	params := method.BindableParams()

	var template string
	if verb, ok := method.Verb(); ok {
		template = verb.Path
	}

	queries := NewVariableSet()
	for _, p := range params {
		if p.Role() == models.RoleQueryParam {
			queries.Add(p.BindingName())
		}
	}
	template = AppendQuery(template, queries.Names())
	variables := ExtractVariables(template)

	binding := &URLBinding{
		Template: template,
		Bound:    make(map[*models.ParameterDeclaration]bool),
	}

	byName := make(map[string]*models.ParameterDeclaration)
	for _, p := range params {
		if p.IsFormBound() {
			continue
		}
		name := p.BindingName()
		if _, dup := byName[name]; dup {
			errs.Add(errors.NewDuplicateBinding(method.Name, p.Name, name, p.Location))
			binding.Bound[p] = true
			continue
		}
		byName[name] = p
	}

	cookies := NewVariableSet(reqs.URLCookies...)

	for _, name := range variables.Names() {
		if p, ok := byName[name]; ok {
			binding.Variables = append(binding.Variables, URLVariable{Name: name, Param: p})
			binding.Bound[p] = true
			continue
		}
		if cookies.Contains(name) {
			binding.Variables = append(binding.Variables, URLVariable{Name: name, Cookie: true})
			continue
		}
		errs.Add(errors.NewUnresolvedURLVariable(method.Name, name, templateLocation(method)))
	}

	for _, name := range cookies.Names() {
		if !variables.Contains(name) {
			binding.Variables = append(binding.Variables, URLVariable{Name: name, Cookie: true})
		}
	}

	for _, p := range params {
		if p.Role() != models.RolePathVariable {
			continue
		}
		if name := p.BindingName(); !variables.Contains(name) {
			errs.Add(errors.NewUnmatchedPathParameter(method.Name, p.Name, name, p.Location))
			binding.Bound[p] = true
		}
	}

	return binding, errs.ErrorOrNil()
}

// BindBody collects form fields and picks the entity among the parameters
// the URL binding left over.
func BindBody(method *models.MethodDeclaration, url *URLBinding) (*BodyBinding, error) {
	errs := errors.NewMultipleErrors()
	body := &BodyBinding{}

	var firstForm *models.ParameterDeclaration
	fields := make(map[string]bool)
	var remaining []*models.ParameterDeclaration

	for _, p := range method.BindableParams() {
		switch role := p.Role(); {
		case role.IsBody():
			if firstForm == nil {
				firstForm = p
			} else if role != firstForm.Role() {
				errs.Add(errors.NewMixedFieldAndPart(method.Name, p.Name, p.Location))
			}
			if role == models.RoleMultipartPart {
				body.Multipart = true
			}
			name := p.BindingName()
			if fields[name] {
				errs.Add(errors.NewDuplicateFormField(method.Name, p.Name, name, p.Location))
				continue
			}
			fields[name] = true
			body.FormFields = append(body.FormFields, FormField{Name: name, Param: p})
		case role == models.RolePathVariable, role == models.RoleQueryParam:
			// explicit URL roles never become the entity
		case url != nil && url.Bound[p]:
		default:
			remaining = append(remaining, p)
		}
	}

	switch {
	case len(remaining) == 0:
	case len(remaining) == 1 && len(body.FormFields) == 0:
		body.Entity = remaining[0]
	case len(body.FormFields) > 0:
		p := remaining[0]
		errs.Add(errors.NewConflictingBodyEncoding(method.Name, p.Name,
			fmt.Sprintf("cannot have both entity parameter %q and form fields", p.Name), p.Location))
	default:
		body.Entity = remaining[0]
		for _, p := range remaining[1:] {
			errs.Add(errors.NewConflictingBodyEncoding(method.Name, p.Name,
				fmt.Sprintf("more than one entity parameter: %q and %q", remaining[0].Name, p.Name), p.Location))
		}
	}

	return body, errs.ErrorOrNil()
}
