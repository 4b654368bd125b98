package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
)

// YAMLSource reads client declarations from YAML declaration files, for
// clients whose interfaces are not available as Go source.
//
//	package: client
//	path: example.com/app/client
//	imports:
//	  app: example.com/app
//	interfaces:
//	  - name: Page
//	    params: [T]
//	    embeds: ["rest.List[T]"]
//	clients:
//	  - name: BookClient
//	    annotations: ["//rest::client -RootURL=https://api.example.com"]
//	    methods:
//	      - name: GetBook
//	        annotations: ["//rest::get /books/{id}"]
//	        params:
//	          - {name: ctx, type: context.Context}
//	          - {name: id, type: string}
//	        returns: "*app.Book"
type YAMLSource struct {
	reader FileReader
}

// NewYAMLSource creates a source reading files through reader. A nil reader
// reads from disk.
func NewYAMLSource(reader FileReader) *YAMLSource {
	return &YAMLSource{reader: reader}
}

// Load reads every declaration file matched by the glob patterns
func (s *YAMLSource) Load(patterns ...string) ([]*models.ClientDeclaration, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.WrapDeclarationSourceError(pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	errs := errors.NewMultipleErrors()
	var clients []*models.ClientDeclaration
	for _, file := range files {
		data, err := s.readFile(file)
		if err != nil {
			errs.Add(errors.WrapFileSystemError("read", file, err))
			continue
		}
		parsed, err := s.Parse(file, data)
		if err != nil {
			errs.Merge(err)
			continue
		}
		clients = append(clients, parsed...)
	}
	return clients, errs.ErrorOrNil()
}

func (s *YAMLSource) readFile(path string) ([]byte, error) {
	if s.reader != nil {
		return s.reader.ReadFile(path)
	}
	return os.ReadFile(path)
}

// Parse reads the clients of one declaration file
func (s *YAMLSource) Parse(filename string, data []byte) ([]*models.ClientDeclaration, error) {
	var doc yamlFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapDeclarationSourceError(filename, err)
	}
	if doc.Package == "" {
		return nil, errors.WrapDeclarationSourceError(filename, fmt.Errorf("missing package name"))
	}

	dir := filepath.Dir(filename)
	if doc.Dir != "" {
		dir = filepath.Join(dir, doc.Dir)
	}

	r := &yamlReader{
		file:       filename,
		doc:        &doc,
		imports:    defaultImports(),
		interfaces: make(map[string]*yamlInterface),
		apply:      newApplier(),
	}
	for alias, path := range doc.Imports {
		r.imports[alias] = path
	}
	for i := range doc.Interfaces {
		iface := &doc.Interfaces[i]
		if iface.Path == "" {
			iface.Path = doc.Path
		}
		r.interfaces[iface.Path+"."+iface.Name] = iface
	}

	clients := make([]*models.ClientDeclaration, 0, len(doc.Clients))
	for _, yc := range doc.Clients {
		client := &models.ClientDeclaration{
			Name:        yc.Name,
			PackageName: doc.Package,
			PackagePath: doc.Path,
			Dir:         dir,
			File:        filename,
			Location:    r.location(yc.node),
			TypeParams:  yc.TypeParams,
		}
		r.client = client
		r.apply.applyClient(client, r.comments(yc.Annotations, yc.node))

		for _, ym := range yc.Methods {
			client.Methods = append(client.Methods, r.method(ym))
		}
		clients = append(clients, client)
	}
	return clients, nil
}

// yamlFile is the document layout of a declaration file
type yamlFile struct {
	Package    string            `yaml:"package"`
	Path       string            `yaml:"path"`
	Dir        string            `yaml:"dir"`
	Imports    map[string]string `yaml:"imports"`
	Interfaces []yamlInterface   `yaml:"interfaces"`
	Clients    []yamlClient      `yaml:"clients"`
}

// yamlInterface declares an interface type the client methods refer to
type yamlInterface struct {
	Name       string   `yaml:"name"`
	Path       string   `yaml:"path"`
	Params     []string `yaml:"params"`
	Embeds     []string `yaml:"embeds"`
	OwnMethods bool     `yaml:"own_methods"`
}

type yamlClient struct {
	Name        string       `yaml:"name"`
	TypeParams  []string     `yaml:"type_params"`
	Annotations []string     `yaml:"annotations"`
	Methods     []yamlMethod `yaml:"methods"`

	node *yaml.Node
}

func (c *yamlClient) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlClient
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}
	c.node = value
	return nil
}

type yamlMethod struct {
	Name        string      `yaml:"name"`
	Annotations []string    `yaml:"annotations"`
	Params      []yamlParam `yaml:"params"`
	Returns     string      `yaml:"returns"`
	// Results lists the result types verbatim; when absent the method
	// returns (Returns, error), or error alone
	Results []string `yaml:"results"`

	node *yaml.Node
}

func (m *yamlMethod) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlMethod
	if err := value.Decode((*plain)(m)); err != nil {
		return err
	}
	m.node = value
	return nil
}

type yamlParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	node *yaml.Node
}

func (p *yamlParam) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlParam
	if err := value.Decode((*plain)(p)); err != nil {
		return err
	}
	p.node = value
	return nil
}

// yamlReader converts one declaration file
type yamlReader struct {
	file       string
	doc        *yamlFile
	imports    map[string]string
	interfaces map[string]*yamlInterface
	apply      *applier
	client     *models.ClientDeclaration
}

func (r *yamlReader) method(ym yamlMethod) *models.MethodDeclaration {
	m := &models.MethodDeclaration{
		Name:     ym.Name,
		Location: r.location(ym.node),
	}
	for i, yp := range ym.Params {
		name := yp.Name
		if name == "" || name == "_" {
			name = argName(i)
		}
		m.Params = append(m.Params, &models.ParameterDeclaration{
			Name:     name,
			Type:     r.typeOf(yp.Type, nil),
			Location: r.location(yp.node),
		})
	}

	switch {
	case ym.Results != nil:
		for _, res := range ym.Results {
			m.Results = append(m.Results, r.typeOf(res, nil))
		}
	case ym.Returns != "":
		m.Results = []*models.TypeRef{r.typeOf(ym.Returns, nil), models.ErrorType()}
	default:
		m.Results = []*models.TypeRef{models.ErrorType()}
	}

	r.apply.applyMethod(r.client, m, r.comments(ym.Annotations, ym.node))
	return m
}

// comments positions annotation lines at their YAML node
func (r *yamlReader) comments(lines []string, node *yaml.Node) []comment {
	loc := r.location(node)
	out := make([]comment, len(lines))
	for i, line := range lines {
		out[i] = comment{Text: line, Location: loc}
	}
	return out
}

func (r *yamlReader) location(node *yaml.Node) errors.SourceLocation {
	loc := errors.SourceLocation{File: r.file}
	if node != nil {
		loc.Line = node.Line
		loc.Column = node.Column
	}
	return loc
}

// typeOf parses a Go type expression. Package qualifiers are import aliases;
// bound maps type parameter names of an interface declaration to arguments.
func (r *yamlReader) typeOf(expr string, bound map[string]*models.TypeRef) *models.TypeRef {
	if expr == "" {
		return models.Unsupported("missing type")
	}
	node, err := goparser.ParseExpr(expr)
	if err != nil {
		return models.Unsupported(expr)
	}
	return r.typeExpr(node, expr, bound)
}

func (r *yamlReader) typeExpr(node ast.Expr, src string, bound map[string]*models.TypeRef) *models.TypeRef {
	switch n := node.(type) {
	case *ast.ParenExpr:
		return r.typeExpr(n.X, src, bound)
	case *ast.Ident:
		if t, ok := bound[n.Name]; ok {
			return t
		}
		switch n.Name {
		case "any":
			return models.Any()
		case "error":
			return models.ErrorType()
		}
		if isBasic(n.Name) {
			return models.Basic(n.Name)
		}
		return r.named(r.doc.Path, n.Name, nil, bound)
	case *ast.SelectorExpr:
		alias, ok := n.X.(*ast.Ident)
		if !ok {
			return models.Unsupported(src)
		}
		path, ok := r.imports[alias.Name]
		if !ok {
			return models.Unsupported(fmt.Sprintf("%s (unknown import %q)", src, alias.Name))
		}
		return r.named(path, n.Sel.Name, nil, bound)
	case *ast.IndexExpr:
		return r.generic(n.X, []ast.Expr{n.Index}, src, bound)
	case *ast.IndexListExpr:
		return r.generic(n.X, n.Indices, src, bound)
	case *ast.StarExpr:
		return models.PointerTo(r.typeExpr(n.X, src, bound))
	case *ast.ArrayType:
		elem := r.typeExpr(n.Elt, src, bound)
		if n.Len == nil {
			return models.SliceOf(elem)
		}
		lit, ok := n.Len.(*ast.BasicLit)
		if !ok {
			return models.Unsupported(src)
		}
		size, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return models.Unsupported(src)
		}
		return models.ArrayOf(size, elem)
	case *ast.MapType:
		return models.MapOf(r.typeExpr(n.Key, src, bound), r.typeExpr(n.Value, src, bound))
	case *ast.InterfaceType:
		if n.Methods == nil || len(n.Methods.List) == 0 {
			return models.Any()
		}
	case *ast.Ellipsis:
		return models.Unsupported(src)
	}
	return models.Unsupported(src)
}

func (r *yamlReader) generic(base ast.Expr, indices []ast.Expr, src string, bound map[string]*models.TypeRef) *models.TypeRef {
	args := make([]*models.TypeRef, len(indices))
	for i, idx := range indices {
		args[i] = r.typeExpr(idx, src, bound)
	}
	switch b := base.(type) {
	case *ast.Ident:
		return r.named(r.doc.Path, b.Name, args, bound)
	case *ast.SelectorExpr:
		alias, ok := b.X.(*ast.Ident)
		if !ok {
			return models.Unsupported(src)
		}
		path, ok := r.imports[alias.Name]
		if !ok {
			return models.Unsupported(fmt.Sprintf("%s (unknown import %q)", src, alias.Name))
		}
		return r.named(path, b.Sel.Name, args, bound)
	}
	return models.Unsupported(src)
}

// named builds a named type, expanding declared interfaces so the resolver
// can walk their hierarchy
func (r *yamlReader) named(path, name string, args []*models.TypeRef, bound map[string]*models.TypeRef) *models.TypeRef {
	switch {
	case path == "context" && name == "Context":
		return models.ContextType()
	case path == models.RuntimePackage:
		if _, ok := runtimeInterfaces[name]; ok {
			return runtimeInterface(name, args...)
		}
		return models.Runtime(name, args...)
	}

	iface, ok := r.interfaces[path+"."+name]
	if !ok {
		return models.Named(path, name, args...)
	}

	ref := models.NamedInterface(path, name, args...)
	ref.HasOwnMethods = iface.OwnMethods
	if len(args) != len(iface.Params) {
		ref.HasOwnMethods = true
		return ref
	}
	inner := make(map[string]*models.TypeRef, len(args))
	for i, param := range iface.Params {
		inner[param] = args[i]
	}
	for _, embed := range iface.Embeds {
		ref.Supertypes = append(ref.Supertypes, r.typeOf(embed, inner))
	}
	return ref
}

func isBasic(name string) bool {
	switch name {
	case "bool", "string",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128",
		"byte", "rune":
		return true
	}
	return false
}
