// Package emitter lowers assembled method bodies and decorator definitions
// into Go source.
package emitter

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/toyz/restgen/internal/assembler"
	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/resolver"
)

// DefaultFileName is the name of the file generated in each package
const DefaultFileName = "restgen_client.go"

const rest = models.RuntimePackage

// Unit is one client to generate with the bodies of its request methods
type Unit struct {
	Client *models.ClientDeclaration
	Bodies []*assembler.Body
}

func (u *Unit) body(m *models.MethodDeclaration) *assembler.Body {
	for _, b := range u.Bodies {
		if b.Method == m {
			return b
		}
	}
	return nil
}

// File collects the units and decorators of one output package
type File struct {
	PackageName string
	PackagePath string

	units      []*Unit
	decorators []*resolver.Decorator
}

// NewFile creates an empty file for a package
func NewFile(pkgName, pkgPath string) *File {
	return &File{PackageName: pkgName, PackagePath: pkgPath}
}

// AddUnit appends a client to the file
func (f *File) AddUnit(u *Unit) {
	f.units = append(f.units, u)
}

// AddDecorators appends decorator definitions, skipping ones already added
func (f *File) AddDecorators(decorators ...*resolver.Decorator) {
	for _, d := range decorators {
		if !f.hasDecorator(d.Name) {
			f.decorators = append(f.decorators, d)
		}
	}
}

func (f *File) hasDecorator(name string) bool {
	for _, d := range f.decorators {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Units returns the clients in the file
func (f *File) Units() []*Unit {
	return f.units
}

// Empty reports whether there is nothing to generate
func (f *File) Empty() bool {
	return len(f.units) == 0 && len(f.decorators) == 0
}

// Render produces the formatted source of the file
func (f *File) Render() ([]byte, error) {
	out := jen.NewFilePathName(f.PackagePath, f.PackageName)
	out.HeaderComment("Code generated by restgen. DO NOT EDIT.")
	out.ImportName(rest, "rest")
	out.ImportName("context", "context")

	for _, u := range f.units {
		if err := f.renderUnit(out, u); err != nil {
			return nil, fmt.Errorf("failed to render client %s: %w", u.Client.Name, err)
		}
	}

	for _, d := range f.decorators {
		renderDecorator(out, d)
	}

	var buf bytes.Buffer
	if err := out.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *File) renderUnit(out *jen.File, u *Unit) error {
	client := u.Client
	impl := client.ImplName()

	out.Commentf("%s implements %s", impl, client.Name)
	out.Type().Id(impl).Struct(
		jen.Id("client").Op("*").Qual(rest, "Client"),
	)
	out.Line()

	out.Var().Id("_").Id(client.Name).Op("=").Parens(jen.Op("*").Id(impl)).Parens(jen.Nil())
	out.Line()

	out.Commentf("%s creates a %s client. Options are applied after the root URL.", client.ConstructorName(), client.Name)
	out.Func().Id(client.ConstructorName()).Params(
		jen.Id("opts").Op("...").Qual(rest, "Option"),
	).Op("*").Id(impl).Block(
		jen.Return(jen.Op("&").Id(impl).Values(jen.Dict{
			jen.Id("client"): jen.Qual(rest, "NewClient").Call(jen.Lit(client.RootURL), jen.Id("opts").Op("...")),
		})),
	)
	out.Line()

	for _, m := range client.Methods {
		if m.Accessor != models.AccessorNone {
			out.Add(accessor(impl, m))
			out.Line()
			continue
		}
		body := u.body(m)
		if body == nil {
			return fmt.Errorf("method %s has no assembled body", m.Name)
		}
		fn, err := method(impl, body)
		if err != nil {
			return fmt.Errorf("method %s: %w", m.Name, err)
		}
		out.Add(fn)
		out.Line()
	}
	return nil
}

func renderDecorator(out *jen.File, d *resolver.Decorator) {
	out.Commentf("%s decodes %s responses", d.Name, d.Declared)
	out.Type().Id(d.Name).Struct(TypeCode(d.Base))
	out.Line()
}

// receiver returns the method receiver of an implementation type
func receiver(impl string) *jen.Statement {
	return jen.Id("c").Op("*").Id(impl)
}

// params renders the parameter list of a declared method
func params(m *models.MethodDeclaration) []jen.Code {
	out := make([]jen.Code, len(m.Params))
	for i, p := range m.Params {
		out[i] = jen.Id(p.Name).Add(TypeCode(p.Type))
	}
	return out
}
