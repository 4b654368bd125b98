// Package validator runs the fixed battery of consistency checks over a client
// declaration. Checks never short-circuit each other: every applicable check
// runs and its diagnostics are folded into the report.
package validator

import (
	"github.com/toyz/restgen/internal/binder"
	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/resolver"
)

// MethodContext is the state shared by the checks of one method. Checks that
// bind or resolve store their results so later checks and stages reuse them.
type MethodContext struct {
	Client   *models.ClientDeclaration
	Method   *models.MethodDeclaration
	Resolver *resolver.Resolver

	URL      *binder.URLBinding
	Body     *binder.BodyBinding
	Response *resolver.Resolved
}

// MethodCheck is one independent check over a method
type MethodCheck struct {
	Name string
	Run  func(ctx *MethodContext) []errors.Diagnostic
}

// ClientCheck is one independent check over the client as a whole
type ClientCheck struct {
	Name string
	Run  func(client *models.ClientDeclaration) []errors.Diagnostic
}

// Validator validates clients against an ordered list of checks
type Validator struct {
	resolver     *resolver.Resolver
	clientChecks []ClientCheck
	methodChecks []MethodCheck
}

// New creates a validator with the default battery. Response types are
// resolved through res so decorators land in its registry.
func New(res *resolver.Resolver) *Validator {
	return &Validator{
		resolver:     res,
		clientChecks: DefaultClientChecks(),
		methodChecks: DefaultMethodChecks(),
	}
}

// NewWithChecks creates a validator running only the given checks
func NewWithChecks(res *resolver.Resolver, clientChecks []ClientCheck, methodChecks []MethodCheck) *Validator {
	return &Validator{
		resolver:     res,
		clientChecks: clientChecks,
		methodChecks: methodChecks,
	}
}

// DefaultClientChecks returns the client-level checks in execution order
func DefaultClientChecks() []ClientCheck {
	return []ClientCheck{
		{Name: "declarationSource", Run: checkSourceDiagnostics},
		{Name: "clientAnnotation", Run: checkClientAnnotation},
		{Name: "clientTypeParams", Run: checkClientTypeParams},
		{Name: "methodNames", Run: checkMethodNames},
	}
}

// DefaultMethodChecks returns the per-method checks in execution order
func DefaultMethodChecks() []MethodCheck {
	return []MethodCheck{
		{Name: "verb", Run: checkVerb},
		{Name: "returnType", Run: checkReturnType},
		{Name: "placement", Run: checkPlacement},
		{Name: "roleExclusivity", Run: checkRoleExclusivity},
		{Name: "reservedIdentifiers", Run: checkReservedIdentifiers},
		{Name: "urlBinding", Run: checkURLBinding},
		{Name: "bodyEncoding", Run: checkBodyEncoding},
		{Name: "responseType", Run: checkResponseType},
	}
}

// Validate runs every check over the client and returns the accumulated report
func (v *Validator) Validate(client *models.ClientDeclaration) *Report {
	report := &Report{Client: client}

	for _, check := range v.clientChecks {
		report.Diagnostics = append(report.Diagnostics, check.Run(client)...)
	}

	for _, method := range client.Methods {
		ctx := &MethodContext{Client: client, Method: method, Resolver: v.resolver}
		mr := &MethodReport{Method: method}

		for _, check := range v.methodChecks {
			mr.Diagnostics = append(mr.Diagnostics, check.Run(ctx)...)
		}

		if ctx.URL != nil && ctx.Body != nil {
			mr.Plan = binder.NewPlan(client, method, ctx.URL, ctx.Body)
		}
		mr.Response = ctx.Response

		report.Methods = append(report.Methods, mr)
		report.Diagnostics = append(report.Diagnostics, mr.Diagnostics...)
	}

	return report
}
