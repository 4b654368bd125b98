package validator

import (
	"github.com/toyz/restgen/internal/binder"
	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/resolver"
)

// MethodReport holds the outcome of validating one method. Plan and Response
// are filled in as far as the checks got, even when diagnostics were reported.
type MethodReport struct {
	Method      *models.MethodDeclaration
	Plan        *binder.Plan
	Response    *resolver.Resolved
	Diagnostics []errors.Diagnostic
}

// Valid reports whether the method produced no diagnostics
func (m *MethodReport) Valid() bool {
	return len(m.Diagnostics) == 0
}

// IsAccessor reports whether the method delegates to the client instead of issuing a request
func (m *MethodReport) IsAccessor() bool {
	return m.Method.Accessor != models.AccessorNone
}

// Report is the accumulated result of validating one client
type Report struct {
	Client      *models.ClientDeclaration
	Methods     []*MethodReport
	Diagnostics []errors.Diagnostic // client-level diagnostics followed by method diagnostics in declaration order
}

// Valid reports whether the whole unit may be generated
func (r *Report) Valid() bool {
	return len(r.Diagnostics) == 0
}

// Err returns the diagnostics as a *errors.MultipleErrors, or nil when valid
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	errs := errors.NewMultipleErrors()
	for _, d := range r.Diagnostics {
		errs.Add(d)
	}
	return errs
}

// Method returns the report of the named method
func (r *Report) Method(name string) *MethodReport {
	for _, m := range r.Methods {
		if m.Method.Name == name {
			return m
		}
	}
	return nil
}

// Codes returns the codes of all diagnostics in order
func (r *Report) Codes() []errors.ErrorCode {
	codes := make([]errors.ErrorCode, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		codes[i] = d.ErrorCode()
	}
	return codes
}

// Types returns every type the generated code for the unit refers to through
// a resolved response, used to collect the decorators a unit needs
func (r *Report) Types() []*models.TypeRef {
	var types []*models.TypeRef
	for _, m := range r.Methods {
		if m.Response != nil && !m.Response.Void {
			types = append(types, m.Response.Type)
		}
	}
	return types
}

// diagnosticsOf flattens an error returned by a stage into diagnostics
func diagnosticsOf(err error) []errors.Diagnostic {
	if err == nil {
		return nil
	}
	errs := errors.NewMultipleErrors()
	errs.Merge(err)
	return errs.Errors
}
