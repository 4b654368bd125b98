package binder

import (
	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
)

// Plan is the per-method binding of parameters and requirements to the request
type Plan struct {
	Client       *models.ClientDeclaration
	Method       *models.MethodDeclaration
	Verb         models.HTTPVerb
	URL          string
	Variables    []URLVariable
	FormFields   []FormField
	Multipart    bool
	Entity       *models.ParameterDeclaration
	Requirements models.Requirements
}

// HasBody reports whether the request sends an entity or form
func (p *Plan) HasBody() bool {
	return p.Entity != nil || len(p.FormFields) > 0
}

// NewPlan combines URL and body bindings into a plan
func NewPlan(client *models.ClientDeclaration, method *models.MethodDeclaration, url *URLBinding, body *BodyBinding) *Plan {
	plan := &Plan{
		Client:       client,
		Method:       method,
		URL:          url.Template,
		Variables:    url.Variables,
		FormFields:   body.FormFields,
		Multipart:    body.Multipart,
		Entity:       body.Entity,
		Requirements: models.Effective(client, method),
	}
	if verb, ok := method.Verb(); ok {
		plan.Verb = verb.Verb
	}
	return plan
}

// Bind runs URL and body binding for one method. The plan is always
// returned so later stages can proceed even when binding reported errors.
func Bind(client *models.ClientDeclaration, method *models.MethodDeclaration) (*Plan, error) {
	errs := errors.NewMultipleErrors()

	url, err := BindURL(client, method)
	errs.Merge(err)
	body, err := BindBody(method, url)
	errs.Merge(err)

	return NewPlan(client, method, url, body), errs.ErrorOrNil()
}
