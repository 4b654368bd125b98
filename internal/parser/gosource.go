package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

// GoSource reads client declarations from Go packages. Interfaces whose doc
// comment or method docs carry //rest:: annotations become clients.
type GoSource struct {
	// Dir is the directory patterns are resolved in
	Dir string
	// Tags are build tags passed to the go command
	Tags []string
	// Exclude reports files to skip, e.g. configured exclude globs
	Exclude func(filename string) bool
}

// NewGoSource creates a source resolving package patterns in dir
func NewGoSource(dir string, tags ...string) *GoSource {
	return &GoSource{Dir: dir, Tags: tags}
}

// Load type-checks the packages matched by the patterns and reads their
// clients. Type errors are tolerated since the generated file may not exist
// yet; packages that cannot be listed or parsed are reported in the returned
// error while the clients of the other packages are still returned.
func (s *GoSource) Load(patterns ...string) ([]*models.ClientDeclaration, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode: loadMode,
		Dir:  s.Dir,
		Fset: fset,
	}
	if len(s.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(s.Tags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.WrapDeclarationSourceError(strings.Join(patterns, " "), err)
	}

	errs := errors.NewMultipleErrors()
	var clients []*models.ClientDeclaration
	for _, pkg := range pkgs {
		if broken := fatalErrors(pkg); len(broken) > 0 {
			for _, e := range broken {
				errs.Add(errors.WrapDeclarationSourceError(pkg.PkgPath, e).WithLocation(packageErrorLocation(e)))
			}
			continue
		}
		if pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}

		dir := ""
		if len(pkg.GoFiles) > 0 {
			dir = filepath.Dir(pkg.GoFiles[0])
		}
		clients = append(clients, s.collect(&checkedPackage{
			Name:  pkg.Name,
			Path:  pkg.PkgPath,
			Dir:   dir,
			Fset:  fset,
			Files: pkg.Syntax,
			Info:  pkg.TypesInfo,
		})...)
	}

	return clients, errs.ErrorOrNil()
}

// SourceFile is an in-memory Go file
type SourceFile struct {
	Name    string
	Content string
}

// Check parses and type-checks the files as the package at pkgPath, resolving
// imports through importer, and reads its clients
func (s *GoSource) Check(pkgPath string, importer types.Importer, files ...SourceFile) ([]*models.ClientDeclaration, error) {
	fset := token.NewFileSet()
	syntax := make([]*ast.File, 0, len(files))
	for _, f := range files {
		file, err := goparser.ParseFile(fset, f.Name, f.Content, goparser.ParseComments)
		if err != nil {
			return nil, errors.WrapDeclarationSourceError(f.Name, err)
		}
		syntax = append(syntax, file)
	}
	if len(syntax) == 0 {
		return nil, nil
	}

	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{
		Importer: importer,
		Error:    func(error) {}, // tolerate errors like Load does
	}
	pkg, _ := conf.Check(pkgPath, fset, syntax, info)

	return s.collect(&checkedPackage{
		Name:  pkg.Name(),
		Path:  pkgPath,
		Dir:   filepath.Dir(files[0].Name),
		Fset:  fset,
		Files: syntax,
		Info:  info,
	}), nil
}

// checkedPackage is the part of a type-checked package the collector needs
type checkedPackage struct {
	Name  string
	Path  string
	Dir   string
	Fset  *token.FileSet
	Files []*ast.File
	Info  *types.Info
}

// collector reads the clients of one package
type collector struct {
	pkg     *checkedPackage
	apply   *applier
	types   *typeConverter
	exclude func(string) bool

	// interfaces maps interface type names declared in the package to their syntax
	interfaces map[*types.TypeName]*ast.InterfaceType
}

func (s *GoSource) collect(pkg *checkedPackage) []*models.ClientDeclaration {
	c := &collector{
		pkg:        pkg,
		apply:      newApplier(),
		types:      newTypeConverter(),
		exclude:    s.Exclude,
		interfaces: make(map[*types.TypeName]*ast.InterfaceType),
	}

	files := append([]*ast.File(nil), pkg.Files...)
	sort.Slice(files, func(i, j int) bool { return c.filename(files[i]) < c.filename(files[j]) })

	type candidate struct {
		spec *ast.TypeSpec
		doc  *ast.CommentGroup
		file string
	}
	var candidates []candidate
	for _, file := range files {
		name := c.filename(file)
		skip := ast.IsGenerated(file) || (c.exclude != nil && c.exclude(name))
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				iface, ok := ts.Type.(*ast.InterfaceType)
				if !ok {
					continue
				}
				if obj, ok := pkg.Info.Defs[ts.Name].(*types.TypeName); ok {
					c.interfaces[obj] = iface
				}
				if skip {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				candidates = append(candidates, candidate{spec: ts, doc: doc, file: name})
			}
		}
	}

	var clients []*models.ClientDeclaration
	for _, cand := range candidates {
		if client := c.client(cand.spec, cand.doc, cand.file); client != nil {
			clients = append(clients, client)
		}
	}
	return clients
}

// client reads one interface. Interfaces without any annotation are not clients.
func (c *collector) client(spec *ast.TypeSpec, doc *ast.CommentGroup, file string) *models.ClientDeclaration {
	obj, ok := c.pkg.Info.Defs[spec.Name].(*types.TypeName)
	if !ok {
		return nil
	}

	client := &models.ClientDeclaration{
		Name:        spec.Name.Name,
		PackageName: c.pkg.Name,
		PackagePath: c.pkg.Path,
		Dir:         c.pkg.Dir,
		File:        file,
		Location:    c.location(spec.Name.Pos()),
	}
	if spec.TypeParams != nil {
		for _, field := range spec.TypeParams.List {
			for _, name := range field.Names {
				client.TypeParams = append(client.TypeParams, name.Name)
			}
		}
	}

	annotated := c.apply.applyClient(client, c.comments(doc))

	seen := make(map[string]bool)
	for _, src := range c.methods(obj, c.interfaces[obj], seen) {
		method := c.method(src, client.Location)
		if c.apply.applyMethod(client, method, c.comments(src.doc)) {
			annotated = true
		}
		client.Methods = append(client.Methods, method)
	}

	if !annotated {
		return nil
	}
	return client
}

// methodSource is an interface method and its doc comment, if declared in
// the package
type methodSource struct {
	fn  *types.Func
	doc *ast.CommentGroup
}

// methods lists the methods of an interface in source order. An embedded
// interface contributes its methods where it is embedded; those declared in
// other packages carry no annotations.
func (c *collector) methods(obj *types.TypeName, syntax *ast.InterfaceType, seen map[string]bool) []methodSource {
	var out []methodSource
	add := func(src methodSource) {
		if seen[src.fn.Name()] {
			return
		}
		seen[src.fn.Name()] = true
		out = append(out, src)
	}

	if syntax == nil {
		iface, ok := obj.Type().Underlying().(*types.Interface)
		if !ok {
			return nil
		}
		for i := 0; i < iface.NumMethods(); i++ {
			add(methodSource{fn: iface.Method(i)})
		}
		return out
	}

	for _, field := range syntax.Methods.List {
		if len(field.Names) > 0 {
			for _, name := range field.Names {
				if fn, ok := c.pkg.Info.Defs[name].(*types.Func); ok {
					add(methodSource{fn: fn, doc: field.Doc})
				}
			}
			continue
		}

		named, ok := types.Unalias(c.pkg.Info.TypeOf(field.Type)).(*types.Named)
		if !ok {
			continue
		}
		embedded := named.Origin().Obj()
		for _, src := range c.methods(embedded, c.interfaces[embedded], seen) {
			if named.TypeArgs().Len() > 0 {
				// take the instantiated signature
				if fn, _, _ := types.LookupFieldOrMethod(named, false, src.fn.Pkg(), src.fn.Name()); fn != nil {
					src.fn = fn.(*types.Func)
				}
			}
			out = append(out, src)
		}
	}
	return out
}

// method reads one method. Methods declared in other packages are located
// at the client.
func (c *collector) method(src methodSource, fallback errors.SourceLocation) *models.MethodDeclaration {
	sig := src.fn.Type().(*types.Signature)
	params, results := c.types.signature(sig)

	local := src.fn.Pkg() != nil && src.fn.Pkg().Path() == c.pkg.Path
	m := &models.MethodDeclaration{
		Name:     src.fn.Name(),
		Params:   params,
		Results:  results,
		Location: fallback,
	}
	if local {
		m.Location = c.location(src.fn.Pos())
	}
	for i, p := range params {
		if v := sig.Params().At(i); local && v.Pos().IsValid() {
			p.Location = c.location(v.Pos())
		} else {
			p.Location = m.Location
		}
	}
	return m
}

// comments returns the lines of a doc comment with their positions
func (c *collector) comments(doc *ast.CommentGroup) []comment {
	if doc == nil {
		return nil
	}
	out := make([]comment, 0, len(doc.List))
	for _, line := range doc.List {
		out = append(out, comment{Text: line.Text, Location: c.location(line.Slash)})
	}
	return out
}

func (c *collector) location(pos token.Pos) errors.SourceLocation {
	p := c.pkg.Fset.Position(pos)
	return errors.SourceLocation{File: p.Filename, Line: p.Line, Column: p.Column}
}

func (c *collector) filename(file *ast.File) string {
	return c.pkg.Fset.Position(file.Package).Filename
}

// fatalErrors returns the errors that prevent reading a package. Type errors
// are not fatal.
func fatalErrors(pkg *packages.Package) []packages.Error {
	var out []packages.Error
	for _, e := range pkg.Errors {
		if e.Kind != packages.TypeError {
			out = append(out, e)
		}
	}
	return out
}

// packageErrorLocation parses the file:line:col prefix go/packages reports
func packageErrorLocation(e packages.Error) errors.SourceLocation {
	var loc errors.SourceLocation
	parts := strings.Split(e.Pos, ":")
	if len(parts) == 0 || parts[0] == "" || parts[0] == "-" {
		return loc
	}
	loc.File = parts[0]
	if len(parts) > 1 {
		fmt.Sscanf(parts[1], "%d", &loc.Line)
	}
	if len(parts) > 2 {
		fmt.Sscanf(parts[2], "%d", &loc.Column)
	}
	return loc
}

func argName(i int) string {
	return fmt.Sprintf("%s%d", argPrefix, i)
}
