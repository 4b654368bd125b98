// Package generator runs the generation pipeline over a batch of client
// declarations: each client is validated, the methods of valid clients are
// assembled and every package is rendered into one file.
package generator

import (
	"path/filepath"

	"github.com/toyz/restgen/internal/assembler"
	"github.com/toyz/restgen/internal/emitter"
	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/resolver"
	"github.com/toyz/restgen/internal/validator"
)

// Generator implements the CodeGenerator interface
type Generator struct {
	fileName string
}

// Option configures a Generator
type Option func(*Generator)

// WithFileName sets the name of the file generated in each package
func WithFileName(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.fileName = name
		}
	}
}

// NewGenerator creates a new code generator instance
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{fileName: emitter.DefaultFileName}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FileName returns the name of the file generated in each package
func (g *Generator) FileName() string {
	return g.fileName
}

// Result is the outcome of generating one package
type Result struct {
	Package *models.PackageDeclarations
	Reports   []*validator.Report    // one report per client in declaration order
	Bodies    []*assembler.Body      // assembled request methods of the valid clients
	Diagnosed []*assembler.Body      // methods of invalid clients that still bound, never rendered
	File      *models.GeneratedFile // nil when no client of the package is valid
}

// Valid reports whether every client of the package was generated
func (r *Result) Valid() bool {
	for _, report := range r.Reports {
		if !report.Valid() {
			return false
		}
	}
	return true
}

// Invalid returns the reports of the clients left out of the file
func (r *Result) Invalid() []*validator.Report {
	var out []*validator.Report
	for _, report := range r.Reports {
		if !report.Valid() {
			out = append(out, report)
		}
	}
	return out
}

// Generate processes a batch of clients package by package. An invalid
// client is left out of its package's file while the rest of the batch
// continues. The returned error carries rendering failures only; validation
// problems are reported through the results.
func (g *Generator) Generate(clients []*models.ClientDeclaration) ([]*Result, error) {
	errs := errors.NewMultipleErrors()
	var results []*Result
	for _, pkg := range models.GroupByPackage(clients) {
		result, err := g.GeneratePackage(pkg)
		if err != nil {
			errs.Merge(err)
		}
		results = append(results, result)
	}
	return results, errs.ErrorOrNil()
}

// GeneratePackage validates the clients of one package and renders the valid
// ones. Decorators are shared by the clients of the package.
func (g *Generator) GeneratePackage(pkg *models.PackageDeclarations) (*Result, error) {
	result := &Result{Package: pkg}

	registry := resolver.NewRegistry(pkg.PackagePath)
	check := validator.New(resolver.New(registry))
	file := emitter.NewFile(pkg.PackageName, pkg.PackagePath)

	for _, client := range pkg.Clients {
		report := check.Validate(client)
		result.Reports = append(result.Reports, report)
		if !report.Valid() {
			result.Diagnosed = append(result.Diagnosed, assemble(report)...)
			continue
		}

		unit := &emitter.Unit{Client: client, Bodies: assemble(report)}
		result.Bodies = append(result.Bodies, unit.Bodies...)

		file.AddUnit(unit)
		file.AddDecorators(registry.Referenced(report.Types()...)...)
	}

	if file.Empty() {
		return result, nil
	}
	units := file.Units()
	clients := make([]string, len(units))
	for i, u := range units {
		clients[i] = u.Client.Name
	}

	path := filepath.Join(pkg.Dir, g.fileName)
	content, err := file.Render()
	if err != nil {
		return result, errors.NewGenerationError("render", path, err)
	}

	var decorators []string
	for _, d := range registry.Referenced(reportTypes(result.Reports)...) {
		decorators = append(decorators, d.Name)
	}

	result.File = &models.GeneratedFile{
		PackageName: pkg.PackageName,
		FilePath:    path,
		Content:     content,
		Clients:     clients,
		Decorators:  decorators,
	}
	return result, nil
}

// assemble builds the request methods of a report. Methods whose binding
// never produced a plan are skipped.
func assemble(report *validator.Report) []*assembler.Body {
	var bodies []*assembler.Body
	for _, m := range report.Methods {
		if m.IsAccessor() || m.Plan == nil {
			continue
		}
		bodies = append(bodies, assembler.Assemble(m.Plan, m.Response))
	}
	return bodies
}

// reportTypes collects the response types of the valid reports
func reportTypes(reports []*validator.Report) []*models.TypeRef {
	var types []*models.TypeRef
	for _, r := range reports {
		if r.Valid() {
			types = append(types, r.Types()...)
		}
	}
	return types
}
