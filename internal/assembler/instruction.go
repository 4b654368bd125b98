package assembler

import (
	"fmt"

	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/resolver"
)

// Op identifies a generation instruction
type Op int

const (
	OpDeclareHeaders Op = iota
	OpSetAccept
	OpSetCookie
	OpSetHeader
	OpSetAuthorization
	OpDeclareForm
	OpAddFormField
	OpDeclareEntity
	OpDeclareURLVariables
	OpPutURLVariable
	OpInvoke
	OpBindResponse
)

var opNames = map[Op]string{
	OpDeclareHeaders:      "DeclareHeaders",
	OpSetAccept:           "SetAccept",
	OpSetCookie:           "SetCookie",
	OpSetHeader:           "SetHeader",
	OpSetAuthorization:    "SetAuthorization",
	OpDeclareForm:         "DeclareForm",
	OpAddFormField:        "AddFormField",
	OpDeclareEntity:       "DeclareEntity",
	OpDeclareURLVariables: "DeclareURLVariables",
	OpPutURLVariable:      "PutURLVariable",
	OpInvoke:              "Invoke",
	OpBindResponse:        "BindResponse",
}

// String returns the name of the op
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Instruction is one step of a generated method body
type Instruction struct {
	Op Op

	// Name is the media type for SetAccept, the header, cookie, form field
	// or URL variable name otherwise.
	Name string

	// Param supplies the value of AddFormField and PutURLVariable, and is the
	// entity body of DeclareEntity when set.
	Param *models.ParameterDeclaration

	// FromCookie marks a URL variable read from the client cookie store
	FromCookie bool

	// Multipart marks a DeclareForm whose fields are sent as multipart parts
	Multipart bool

	// WithHeaders and WithForm describe the DeclareEntity arguments
	WithHeaders bool
	WithForm    bool

	Invocation *Invocation
}

// Invocation describes the transport call
type Invocation struct {
	Verb           models.HTTPVerb
	URL            string
	Entity         bool // a request entity was declared; otherwise the nil sentinel is sent
	Variables      bool // a URL variable container was declared
	Response       *resolver.Resolved
	CaptureCookies []string
	Context        *models.ParameterDeclaration // context parameter, nil when the method takes none
}

// String renders the instruction for debugging and tests
func (i Instruction) String() string {
	switch i.Op {
	case OpSetAccept, OpSetCookie, OpSetHeader:
		return fmt.Sprintf("%s(%s)", i.Op, i.Name)
	case OpDeclareForm:
		if i.Multipart {
			return "DeclareForm(multipart)"
		}
		return "DeclareForm"
	case OpAddFormField:
		return fmt.Sprintf("AddFormField(%s=%s)", i.Name, i.Param.Name)
	case OpDeclareEntity:
		body := "nil"
		switch {
		case i.Param != nil:
			body = i.Param.Name
		case i.WithForm:
			body = "form"
		}
		if i.WithHeaders {
			return fmt.Sprintf("DeclareEntity(%s, headers)", body)
		}
		return fmt.Sprintf("DeclareEntity(%s)", body)
	case OpPutURLVariable:
		if i.FromCookie {
			return fmt.Sprintf("PutURLVariable(%s=cookie)", i.Name)
		}
		return fmt.Sprintf("PutURLVariable(%s=%s)", i.Name, i.Param.Name)
	case OpInvoke:
		return fmt.Sprintf("Invoke(%s %s)", i.Invocation.Verb, i.Invocation.URL)
	default:
		return i.Op.String()
	}
}
