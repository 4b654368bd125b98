// Package assembler turns a binding plan into the ordered instructions of a
// generated method body.
package assembler

import (
	"github.com/toyz/restgen/internal/binder"
	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/resolver"
)

// Body is the assembled instruction sequence of one method
type Body struct {
	Method       *models.MethodDeclaration
	Response     *resolver.Resolved
	Instructions []Instruction
}

// Ops returns the op of every instruction in order
func (b *Body) Ops() []Op {
	ops := make([]Op, len(b.Instructions))
	for i, in := range b.Instructions {
		ops[i] = in.Op
	}
	return ops
}

// Has reports whether the body contains an instruction with the given op
func (b *Body) Has(op Op) bool {
	for _, in := range b.Instructions {
		if in.Op == op {
			return true
		}
	}
	return false
}

// Invocation returns the transport call of the body
func (b *Body) Invocation() *Invocation {
	for _, in := range b.Instructions {
		if in.Op == OpInvoke {
			return in.Invocation
		}
	}
	return nil
}

// Assemble emits the request construction sequence for a plan. A nil
// response is treated as void.
func Assemble(plan *binder.Plan, response *resolver.Resolved) *Body {
	if response == nil {
		response = &resolver.Resolved{Void: true}
	}
	body := &Body{Method: plan.Method, Response: response}
	emit := func(in Instruction) {
		body.Instructions = append(body.Instructions, in)
	}

	reqs := plan.Requirements

	hasHeaders := reqs.NeedsHeaders()
	if hasHeaders {
		emit(Instruction{Op: OpDeclareHeaders})
		if reqs.Accept != "" {
			emit(Instruction{Op: OpSetAccept, Name: reqs.Accept})
		}
		for _, cookie := range reqs.Cookies {
			emit(Instruction{Op: OpSetCookie, Name: cookie})
		}
		for _, header := range reqs.Headers {
			emit(Instruction{Op: OpSetHeader, Name: header})
		}
		if reqs.RequiresAuth {
			emit(Instruction{Op: OpSetAuthorization})
		}
	}

	hasForm := plan.Entity == nil && len(plan.FormFields) > 0
	if hasForm {
		emit(Instruction{Op: OpDeclareForm, Multipart: plan.Multipart})
		for _, field := range plan.FormFields {
			emit(Instruction{Op: OpAddFormField, Name: field.Name, Param: field.Param})
		}
	}

	hasEntity := plan.Entity != nil || hasForm || hasHeaders
	if hasEntity {
		emit(Instruction{
			Op:          OpDeclareEntity,
			Param:       plan.Entity,
			WithForm:    hasForm,
			WithHeaders: hasHeaders,
		})
	}

	hasVariables := len(plan.Variables) > 0
	if hasVariables {
		emit(Instruction{Op: OpDeclareURLVariables})
		for _, v := range plan.Variables {
			emit(Instruction{Op: OpPutURLVariable, Name: v.Name, Param: v.Param, FromCookie: v.Cookie})
		}
	}

	var ctxParam *models.ParameterDeclaration
	if plan.Method.HasContext() {
		ctxParam = plan.Method.Params[0]
	}
	emit(Instruction{Op: OpInvoke, Invocation: &Invocation{
		Verb:           plan.Verb,
		URL:            plan.URL,
		Entity:         hasEntity,
		Variables:      hasVariables,
		Response:       response,
		CaptureCookies: reqs.SetsCookies,
		Context:        ctxParam,
	}})

	if !response.Void {
		emit(Instruction{Op: OpBindResponse})
	}

	return body
}
