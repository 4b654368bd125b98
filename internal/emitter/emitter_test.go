package emitter

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/restgen/internal/assembler"
	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/resolver"
	"github.com/toyz/restgen/internal/validator"
)

const pkg = "example.com/app/client"

func book() *models.TypeRef { return models.Named("example.com/app", "Book") }
func str() *models.TypeRef  { return models.Basic("string") }

func param(name string, t *models.TypeRef, roles ...models.Role) *models.ParameterDeclaration {
	p := &models.ParameterDeclaration{Name: name, Type: t}
	for _, r := range roles {
		p.Roles = append(p.Roles, models.RoleAnnotation{Role: r, Target: name})
	}
	return p
}

func endpoint(name string, verb models.HTTPVerb, template string, ret *models.TypeRef, params ...*models.ParameterDeclaration) *models.MethodDeclaration {
	results := []*models.TypeRef{models.ErrorType()}
	if ret != nil {
		results = []*models.TypeRef{ret, models.ErrorType()}
	}
	return &models.MethodDeclaration{
		Name:     name,
		Verbs:    []models.VerbAnnotation{{Verb: verb, Path: template}},
		Params:   params,
		Results:  results,
		Location: errors.SourceLocation{File: "client.go", Line: 5},
	}
}

// build validates a client and assembles every request method into a file
func build(t *testing.T, c *models.ClientDeclaration) (*File, *resolver.Registry) {
	t.Helper()
	registry := resolver.NewRegistry(pkg)
	report := validator.New(resolver.New(registry)).Validate(c)
	require.True(t, report.Valid(), "unexpected diagnostics: %v", report.Err())

	unit := &Unit{Client: c}
	for _, m := range report.Methods {
		if m.IsAccessor() {
			continue
		}
		unit.Bodies = append(unit.Bodies, assembler.Assemble(m.Plan, m.Response))
	}

	f := NewFile("client", pkg)
	f.AddUnit(unit)
	f.AddDecorators(registry.Referenced(report.Types()...)...)
	return f, registry
}

func render(t *testing.T, f *File) string {
	t.Helper()
	src, err := f.Render()
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), DefaultFileName, src, parser.AllErrors)
	require.NoError(t, err, "generated source does not parse:\n%s", src)
	return normalize(string(src))
}

// normalize collapses whitespace so assertions do not depend on gofmt alignment
func normalize(src string) string {
	return strings.Join(strings.Fields(src), " ")
}

func TestRender_Client(t *testing.T) {
	c := &models.ClientDeclaration{
		Name:         "BookClient",
		PackageName:  "client",
		PackagePath:  pkg,
		Annotated:    true,
		RootURL:      "https://api.example.com",
		Requirements: models.Requirements{Accept: "application/json"},
		Methods: []*models.MethodDeclaration{
			endpoint("GetBook", models.VerbGet, "/books/{id}", models.PointerTo(book()),
				param("ctx", models.ContextType()), param("id", str(), models.RolePathVariable)),
			endpoint("CreateBook", models.VerbPost, "/books", models.PointerTo(book()), param("b", book())),
			endpoint("DeleteBook", models.VerbDelete, "/books/{id}", nil, param("id", str())),
			{
				Name:   "SetBearerAuth",
				Params: []*models.ParameterDeclaration{param("token", str())},
			},
			{
				Name:    "RestClient",
				Results: []*models.TypeRef{models.PointerTo(models.Runtime("Client"))},
			},
		},
	}
	for _, m := range c.Methods {
		m.Accessor = models.DetectAccessor(m)
	}

	f, _ := build(t, c)
	src := render(t, f)

	for _, want := range []string{
		"// Code generated by restgen. DO NOT EDIT.",
		"package client",
		`"github.com/toyz/restgen/pkg/rest"`,
		"type BookClientImpl struct { client *rest.Client }",
		"var _ BookClient = (*BookClientImpl)(nil)",
		`func NewBookClient(opts ...rest.Option) *BookClientImpl { return &BookClientImpl{client: rest.NewClient("https://api.example.com", opts...)} }`,

		"func (c *BookClientImpl) GetBook(ctx context.Context, id string) (result *app.Book, err error) {",
		`headers := rest.NewHeaders() headers.SetAccept("application/json") entity := rest.NewEntity(nil, headers) vars := rest.URLVariables{} vars["id"] = id`,
		`var response *app.Book _, err = c.client.Exchange(ctx, &rest.Request{ Entity: entity, Method: rest.MethodGet, URL: "/books/{id}", Variables: vars, }, &response)`,
		"if err != nil { return result, err } result = response return result, nil }",

		"func (c *BookClientImpl) CreateBook(b app.Book) (result *app.Book, err error) {",
		"entity := rest.NewEntity(b, headers)",
		"c.client.Exchange(context.Background(), &rest.Request{ Entity: entity, Method: rest.MethodPost, URL: \"/books\", }, &response)",

		"func (c *BookClientImpl) DeleteBook(id string) error {",
		`_, err := c.client.Exchange(context.Background(), &rest.Request{ Entity: entity, Method: rest.MethodDelete, URL: "/books/{id}", Variables: vars, }, nil) return err }`,

		"func (c *BookClientImpl) SetBearerAuth(token string) { c.client.SetBearerAuth(token) }",
		"func (c *BookClientImpl) RestClient() *rest.Client { return c.client }",
	} {
		assert.Contains(t, src, want)
	}
}

func TestRender_FormsAndCookies(t *testing.T) {
	login := endpoint("Login", models.VerbPost, "/login", nil,
		param("user", str(), models.RoleFormField), param("pass", str(), models.RoleFormField))
	login.Requirements.SetsCookies = []string{"sid"}

	upload := endpoint("Upload", models.VerbPost, "/files/{sid}", nil,
		param("file", models.SliceOf(models.Basic("byte")), models.RoleMultipartPart))
	upload.Requirements = models.Requirements{
		URLCookies:   []string{"sid"},
		Cookies:      []string{"theme"},
		Headers:      []string{"X-Trace"},
		RequiresAuth: true,
	}

	c := &models.ClientDeclaration{
		Name: "Files", PackageName: "client", PackagePath: pkg, Annotated: true,
		Methods: []*models.MethodDeclaration{login, upload},
	}

	f, _ := build(t, c)
	src := render(t, f)

	for _, want := range []string{
		`form := rest.NewMultiValueMap() form.Add("user", user) form.Add("pass", pass) entity := rest.NewEntity(form, nil)`,
		`CaptureCookies: []string{"sid"}, Entity: entity, Method: rest.MethodPost, URL: "/login",`,
		`headers := rest.NewHeaders() headers.AddCookie("theme", c.client.Cookie("theme")) headers.Set("X-Trace", c.client.Header("X-Trace")) headers.SetAuthorization(c.client.Authentication())`,
		`form := rest.NewMultipartForm() form.Add("file", file) entity := rest.NewEntity(form, headers)`,
		`vars["sid"] = c.client.Cookie("sid")`,
	} {
		assert.Contains(t, src, want)
	}
	assert.NotContains(t, src, "type BookClientImpl")
}

func TestRender_Decorators(t *testing.T) {
	list := models.RuntimeInterface("List", book())
	c := &models.ClientDeclaration{
		Name: "Shelf", PackageName: "client", PackagePath: pkg, Annotated: true,
		Methods: []*models.MethodDeclaration{
			endpoint("Books", models.VerbGet, "/books", list),
			endpoint("Again", models.VerbGet, "/books/again", list),
			endpoint("Shelves", models.VerbGet, "/shelves", models.SliceOf(list)),
			endpoint("Counts", models.VerbGet, "/counts", models.RuntimeInterface("Map", str(), models.Basic("int"))),
			endpoint("Wrapped", models.VerbGet, "/wrapped", models.Runtime(resolver.ResponseEntity, list)),
		},
	}

	f, registry := build(t, c)
	assert.Equal(t, 2, registry.Len())
	src := render(t, f)

	for _, want := range []string{
		"// List_Book decodes rest.List[app.Book] responses type List_Book struct { rest.ArrayList[app.Book] }",
		"type Map_StringInt struct { rest.LinkedMap[string, int] }",

		"func (c *ShelfImpl) Books() (result rest.List[app.Book], err error) {",
		"var response List_Book",
		"result = &response return result, nil",

		"func (c *ShelfImpl) Shelves() (result []rest.List[app.Book], err error) {",
		"var response []List_Book",
		"result = make([]rest.List[app.Book], len(response)) for i0 := range response { result[i0] = &response[i0] }",

		"func (c *ShelfImpl) Wrapped() (result rest.ResponseEntity[rest.List[app.Book]], err error) {",
		"meta, err := c.client.Exchange(",
		"result.Body = &response result.Metadata = *meta return result, nil",
	} {
		assert.Contains(t, src, want)
	}
	assert.Equal(t, 1, strings.Count(src, "type List_Book struct"))
}

func TestConvert(t *testing.T) {
	list := models.RuntimeInterface("List", str())
	deco := models.Named(pkg, "List_String")
	deco.Synthetic = true

	tests := []struct {
		name     string
		declared *models.TypeRef
		decoded  *models.TypeRef
		want     string
	}{
		{
			name:     "identity",
			declared: models.SliceOf(str()),
			decoded:  models.SliceOf(str()),
			want:     "result = response",
		},
		{
			name:     "decorator",
			declared: list,
			decoded:  deco,
			want:     "result = &response",
		},
		{
			name:     "array",
			declared: models.ArrayOf(2, list),
			decoded:  models.ArrayOf(2, deco),
			want:     "for i0 := range response { result[i0] = &response[i0] }",
		},
		{
			name:     "pointer",
			declared: models.PointerTo(list),
			decoded:  models.PointerTo(deco),
			want:     "if response != nil { var v0 rest.List[string] v0 = &*response result = &v0 }",
		},
		{
			name:     "nested slices",
			declared: models.SliceOf(models.SliceOf(list)),
			decoded:  models.SliceOf(models.SliceOf(deco)),
			want: "result = make([][]rest.List[string], len(response)) for i0 := range response { " +
				"result[i0] = make([]rest.List[string], len(response[i0])) for i1 := range response[i0] { " +
				"result[i0][i1] = &response[i0][i1] } }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := convert(jen.Id("result"), jen.Id("response"), tt.declared, tt.decoded, 0)
			block := jen.Func().Id("f").Params().Block(stmts...)
			got := normalize(fmt.Sprintf("%#v", block))
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestTypeCode(t *testing.T) {
	tests := []struct {
		typ  *models.TypeRef
		want string
	}{
		{models.Basic("int64"), "int64"},
		{models.Any(), "any"},
		{models.MapOf(str(), models.SliceOf(book())), "map[string][]app.Book"},
		{models.ArrayOf(4, models.Basic("byte")), "[4]byte"},
		{models.PointerTo(models.Runtime("Client")), "*rest.Client"},
		{models.Runtime(resolver.ResponseEntity), "rest.ResponseEntity[any]"},
		{models.Wildcard("", book(), nil), "app.Book"},
		{models.Wildcard("", nil, nil), "any"},
		{models.ErrorType(), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := strings.TrimSpace(fmt.Sprintf("%#v", jen.Var().Id("x").Add(TypeCode(tt.typ))))
			assert.Equal(t, "var x "+tt.want, got)
		})
	}
}
