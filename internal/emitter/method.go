package emitter

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/toyz/restgen/internal/assembler"
	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/resolver"
)

var verbConstants = map[models.HTTPVerb]string{
	models.VerbGet:     "MethodGet",
	models.VerbPost:    "MethodPost",
	models.VerbPut:     "MethodPut",
	models.VerbPatch:   "MethodPatch",
	models.VerbDelete:  "MethodDelete",
	models.VerbHead:    "MethodHead",
	models.VerbOptions: "MethodOptions",
}

// method lowers an assembled body into a method of the implementation type
func method(impl string, body *assembler.Body) (*jen.Statement, error) {
	m := body.Method
	inv := body.Invocation()
	if inv == nil {
		return nil, fmt.Errorf("no invocation")
	}

	var stmts []jen.Code
	for _, in := range body.Instructions {
		switch in.Op {
		case assembler.OpDeclareHeaders:
			stmts = append(stmts, jen.Id("headers").Op(":=").Qual(rest, "NewHeaders").Call())
		case assembler.OpSetAccept:
			stmts = append(stmts, jen.Id("headers").Dot("SetAccept").Call(jen.Lit(in.Name)))
		case assembler.OpSetCookie:
			stmts = append(stmts, jen.Id("headers").Dot("AddCookie").Call(jen.Lit(in.Name), clientCall("Cookie", jen.Lit(in.Name))))
		case assembler.OpSetHeader:
			stmts = append(stmts, jen.Id("headers").Dot("Set").Call(jen.Lit(in.Name), clientCall("Header", jen.Lit(in.Name))))
		case assembler.OpSetAuthorization:
			stmts = append(stmts, jen.Id("headers").Dot("SetAuthorization").Call(clientCall("Authentication")))
		case assembler.OpDeclareForm:
			ctor := "NewMultiValueMap"
			if in.Multipart {
				ctor = "NewMultipartForm"
			}
			stmts = append(stmts, jen.Id("form").Op(":=").Qual(rest, ctor).Call())
		case assembler.OpAddFormField:
			stmts = append(stmts, jen.Id("form").Dot("Add").Call(jen.Lit(in.Name), jen.Id(in.Param.Name)))
		case assembler.OpDeclareEntity:
			stmts = append(stmts, declareEntity(in))
		case assembler.OpDeclareURLVariables:
			stmts = append(stmts, jen.Id("vars").Op(":=").Qual(rest, "URLVariables").Values())
		case assembler.OpPutURLVariable:
			value := jen.Id(paramName(in.Param))
			if in.FromCookie {
				value = clientCall("Cookie", jen.Lit(in.Name))
			}
			stmts = append(stmts, jen.Id("vars").Index(jen.Lit(in.Name)).Op("=").Add(value))
		case assembler.OpInvoke:
			stmts = append(stmts, invoke(in.Invocation)...)
		case assembler.OpBindResponse:
			stmts = append(stmts, bindResponse(body.Response)...)
		default:
			return nil, fmt.Errorf("unknown instruction %s", in.Op)
		}
	}

	if body.Response.Void {
		stmts = append(stmts, jen.Return(jen.Err()))
	}

	fn := jen.Commentf("%s issues %s %s", m.Name, inv.Verb, inv.URL).Line()
	fn.Func().Params(receiver(impl)).Id(m.Name).Params(params(m)...)
	if body.Response.Void {
		fn.Error()
	} else {
		fn.Params(jen.Id("result").Add(TypeCode(m.Returns())), jen.Err().Error())
	}
	return fn.Block(stmts...), nil
}

func paramName(p *models.ParameterDeclaration) string {
	if p == nil {
		return "nil"
	}
	return p.Name
}

func clientCall(name string, args ...jen.Code) *jen.Statement {
	return jen.Id("c").Dot("client").Dot(name).Call(args...)
}

func declareEntity(in assembler.Instruction) jen.Code {
	body := jen.Nil()
	switch {
	case in.Param != nil:
		body = jen.Id(in.Param.Name)
	case in.WithForm:
		body = jen.Id("form")
	}
	headers := jen.Nil()
	if in.WithHeaders {
		headers = jen.Id("headers")
	}
	return jen.Id("entity").Op(":=").Qual(rest, "NewEntity").Call(body, headers)
}

// invoke declares the decode target and issues the exchange. Void methods
// pass no target and return the exchange error directly.
func invoke(inv *assembler.Invocation) []jen.Code {
	request := jen.Dict{
		jen.Id("Method"): jen.Qual(rest, verbConstants[inv.Verb]),
		jen.Id("URL"):    jen.Lit(inv.URL),
	}
	if inv.Variables {
		request[jen.Id("Variables")] = jen.Id("vars")
	}
	if inv.Entity {
		request[jen.Id("Entity")] = jen.Id("entity")
	}
	if len(inv.CaptureCookies) > 0 {
		names := make([]jen.Code, len(inv.CaptureCookies))
		for i, name := range inv.CaptureCookies {
			names[i] = jen.Lit(name)
		}
		request[jen.Id("CaptureCookies")] = jen.Index().String().Values(names...)
	}

	ctx := jen.Qual("context", "Background").Call()
	if inv.Context != nil {
		ctx = jen.Id(inv.Context.Name)
	}
	req := jen.Op("&").Qual(rest, "Request").Values(request)

	if inv.Response.Void {
		return []jen.Code{
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Add(clientCall("Exchange", ctx, req, jen.Nil())),
		}
	}

	meta := jen.Id("_")
	op := "="
	if inv.Response.Wrapper {
		meta = jen.Id("meta")
		op = ":="
	}
	return []jen.Code{
		jen.Var().Id("response").Add(TypeCode(decodeType(inv.Response))),
		jen.List(meta, jen.Err()).Op(op).Add(clientCall("Exchange", ctx, req, jen.Op("&").Id("response"))),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Id("result"), jen.Err()),
		),
	}
}

// bindResponse converts the decoded value to the declared result
func bindResponse(r *resolver.Resolved) []jen.Code {
	target := jen.Id("result")
	if r.Wrapper {
		target = jen.Id("result").Dot("Body")
	}
	stmts := convert(target, jen.Id("response"), declaredType(r), decodeType(r), 0)
	if r.Wrapper {
		stmts = append(stmts, jen.Id("result").Dot("Metadata").Op("=").Op("*").Id("meta"))
	}
	return append(stmts, jen.Return(jen.Id("result"), jen.Nil()))
}

// decodeType returns the type the body is decoded into. A wrapper without a
// type argument decodes into any.
func decodeType(r *resolver.Resolved) *models.TypeRef {
	if r.Raw {
		return models.Any()
	}
	return r.Type
}

func declaredType(r *resolver.Resolved) *models.TypeRef {
	if r.Raw {
		return models.Any()
	}
	return r.Declared
}

// accessor lowers a helper method into a delegation to the runtime client
func accessor(impl string, m *models.MethodDeclaration) *jen.Statement {
	fn := jen.Commentf("%s delegates to the underlying client", m.Name).Line()
	fn.Func().Params(receiver(impl)).Id(m.Name).Params(params(m)...)

	switch len(m.Results) {
	case 0:
	case 1:
		fn.Add(TypeCode(m.Results[0]))
	default:
		fn.Params(typeList(m.Results)...)
	}

	if m.Accessor == models.AccessorRestClient {
		return fn.Block(jen.Return(jen.Id("c").Dot("client")))
	}

	args := make([]jen.Code, len(m.Params))
	for i, p := range m.Params {
		args[i] = jen.Id(p.Name)
	}
	call := clientCall(m.Name, args...)
	if len(m.Results) == 0 {
		return fn.Block(call)
	}
	return fn.Block(jen.Return(call))
}

// Describe renders the instructions of a body one per line, used by the
// check command to show what would be generated
func Describe(body *assembler.Body) string {
	var b strings.Builder
	for _, in := range body.Instructions {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}
