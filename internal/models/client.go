package models

import (
	"fmt"
	"strings"

	"github.com/toyz/restgen/internal/errors"
)

// HTTPVerb is the request method of a client method
type HTTPVerb string

const (
	VerbGet     HTTPVerb = "GET"
	VerbPost    HTTPVerb = "POST"
	VerbPut     HTTPVerb = "PUT"
	VerbPatch   HTTPVerb = "PATCH"
	VerbDelete  HTTPVerb = "DELETE"
	VerbHead    HTTPVerb = "HEAD"
	VerbOptions HTTPVerb = "OPTIONS"
)

// ParseVerb converts an annotation kind or method name to a verb
func ParseVerb(s string) (HTTPVerb, bool) {
	switch v := HTTPVerb(strings.ToUpper(s)); v {
	case VerbGet, VerbPost, VerbPut, VerbPatch, VerbDelete, VerbHead, VerbOptions:
		return v, true
	}
	return "", false
}

// AllowsBody reports whether requests with this verb may carry an entity
func (v HTTPVerb) AllowsBody() bool {
	return v == VerbPost || v == VerbPut || v == VerbPatch
}

// Role is the closed set of ways a parameter contributes to a request
type Role int

const (
	RolePlainEntity Role = iota
	RolePathVariable
	RoleQueryParam
	RoleFormField
	RoleMultipartPart
)

// String returns the annotation kind that assigns the role
func (r Role) String() string {
	switch r {
	case RolePathVariable:
		return "path"
	case RoleQueryParam:
		return "query"
	case RoleFormField:
		return "field"
	case RoleMultipartPart:
		return "part"
	default:
		return "entity"
	}
}

// IsBody reports whether the role places the parameter in the request body
func (r Role) IsBody() bool {
	return r == RoleFormField || r == RoleMultipartPart
}

// RoleAnnotation assigns a role to a parameter
type RoleAnnotation struct {
	Role     Role
	Target   string // parameter the annotation names
	Name     string // explicit binding name, empty for the parameter's own name
	Location errors.SourceLocation
}

// ParameterDeclaration is one method parameter
type ParameterDeclaration struct {
	Name     string
	Type     *TypeRef
	Roles    []RoleAnnotation // every role annotation found, in source order
	Location errors.SourceLocation
}

// IsContext reports whether the parameter is a context.Context passed through to the transport
func (p *ParameterDeclaration) IsContext() bool {
	return p.Type.IsContext()
}

// Role returns the parameter's role. Unannotated parameters are plain entities.
func (p *ParameterDeclaration) Role() Role {
	if len(p.Roles) == 0 {
		return RolePlainEntity
	}
	return p.Roles[0].Role
}

// ExplicitName returns the binding name given by the role annotation, if any
func (p *ParameterDeclaration) ExplicitName() string {
	if len(p.Roles) == 0 {
		return ""
	}
	return p.Roles[0].Name
}

// BindingName returns the explicit binding name if present and non-empty, else the parameter name
func (p *ParameterDeclaration) BindingName() string {
	if name := p.ExplicitName(); name != "" {
		return name
	}
	return p.Name
}

// IsFormBound reports whether the parameter is a form field or multipart part
func (p *ParameterDeclaration) IsFormBound() bool {
	return p.Role().IsBody()
}

// VerbAnnotation is one HTTP verb annotation found on a method
type VerbAnnotation struct {
	Verb     HTTPVerb
	Path     string
	Location errors.SourceLocation
}

// AccessorKind identifies helper methods that expose the underlying client instead of issuing a request
type AccessorKind int

const (
	AccessorNone AccessorKind = iota
	AccessorRootURL
	AccessorSetRootURL
	AccessorHeader
	AccessorSetHeader
	AccessorCookie
	AccessorSetCookie
	AccessorSetAuthentication
	AccessorSetBasicAuth
	AccessorSetBearerAuth
	AccessorRestClient
)

// MethodDeclaration is one endpoint of a client
type MethodDeclaration struct {
	Name         string
	Verbs        []VerbAnnotation
	Params       []*ParameterDeclaration
	Results      []*TypeRef
	Requirements Requirements
	Accessor     AccessorKind
	Location     errors.SourceLocation

	// Unattached holds role annotations whose target parameter does not exist
	Unattached []RoleAnnotation
}

// Verb returns the first verb annotation
func (m *MethodDeclaration) Verb() (VerbAnnotation, bool) {
	if len(m.Verbs) == 0 {
		return VerbAnnotation{}, false
	}
	return m.Verbs[0], true
}

// HasContext reports whether the first parameter is a context.Context
func (m *MethodDeclaration) HasContext() bool {
	return len(m.Params) > 0 && m.Params[0].IsContext()
}

// Param returns the parameter with the given name
func (m *MethodDeclaration) Param(name string) *ParameterDeclaration {
	for _, p := range m.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// BindableParams returns the parameters other than the context
func (m *MethodDeclaration) BindableParams() []*ParameterDeclaration {
	params := make([]*ParameterDeclaration, 0, len(m.Params))
	for _, p := range m.Params {
		if !p.IsContext() {
			params = append(params, p)
		}
	}
	return params
}

// Returns derives the response type from the result list.
// error yields Void, (T, error) yields T and any other shape yields nil.
func (m *MethodDeclaration) Returns() *TypeRef {
	switch len(m.Results) {
	case 1:
		if m.Results[0].IsError() {
			return Void()
		}
	case 2:
		if m.Results[1].IsError() {
			return m.Results[0]
		}
	}
	return nil
}

// ClientDeclaration is one annotated REST client interface and the generation unit
type ClientDeclaration struct {
	Name         string
	PackageName  string
	PackagePath  string
	Dir          string
	File         string
	Location     errors.SourceLocation
	Annotated    bool // carries a client annotation
	TypeParams   []string
	RootURL      string
	Requirements Requirements
	Methods      []*MethodDeclaration

	// Diagnostics holds problems the declaration source found while reading
	// the unit, such as malformed annotations
	Diagnostics []errors.Diagnostic
}

// ImplName returns the name of the generated implementation type
func (c *ClientDeclaration) ImplName() string {
	return c.Name + "Impl"
}

// ConstructorName returns the name of the generated constructor
func (c *ClientDeclaration) ConstructorName() string {
	return "New" + c.Name
}

// Element names a method for diagnostics
func (c *ClientDeclaration) Element(method string) string {
	return fmt.Sprintf("%s.%s", c.Name, method)
}
