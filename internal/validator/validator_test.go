package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/resolver"
)

const pkg = "example.com/app/client"

func book() *models.TypeRef { return models.Named("example.com/app", "Book") }
func str() *models.TypeRef  { return models.Basic("string") }

func role(r models.Role, name string) models.RoleAnnotation {
	return models.RoleAnnotation{Role: r, Name: name, Location: errors.SourceLocation{File: "client.go", Line: 10}}
}

func param(name string, t *models.TypeRef, roles ...models.RoleAnnotation) *models.ParameterDeclaration {
	for i := range roles {
		roles[i].Target = name
	}
	return &models.ParameterDeclaration{Name: name, Type: t, Roles: roles}
}

func get(name, template string, ret *models.TypeRef, params ...*models.ParameterDeclaration) *models.MethodDeclaration {
	return endpoint(name, models.VerbGet, template, ret, params...)
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

func client(methods ...*models.MethodDeclaration) *models.ClientDeclaration {
	return &models.ClientDeclaration{
		Name:        "BookClient",
		PackageName: "client",
		PackagePath: pkg,
		Annotated:   true,
		Methods:     methods,
	}
}

func validate(c *models.ClientDeclaration) *Report {
	return New(resolver.New(resolver.NewRegistry(pkg))).Validate(c)
}

func TestValidate_ValidClient(t *testing.T) {
	c := client(
		get("GetBook", "/books/{id}", models.PointerTo(book()), param("ctx", models.ContextType()), param("id", str())),
		endpoint("CreateBook", models.VerbPost, "/books", models.PointerTo(book()), param("b", book())),
		endpoint("DeleteBook", models.VerbDelete, "/books/{id}", nil, param("id", str())),
		get("Counts", "/counts", models.RuntimeInterface("Map", str(), models.Basic("int"))),
	)

	report := validate(c)
	require.True(t, report.Valid(), "unexpected diagnostics: %v", report.Err())
	require.Len(t, report.Methods, 4)

	for _, m := range report.Methods {
		assert.True(t, m.Valid())
		assert.NotNil(t, m.Plan, m.Method.Name)
		assert.NotNil(t, m.Response, m.Method.Name)
	}

	assert.Equal(t, "b", report.Method("CreateBook").Plan.Entity.Name)
	assert.True(t, report.Method("DeleteBook").Response.Void)
	assert.Equal(t, "Map_StringInt", report.Method("Counts").Response.Type.Name)
	assert.Len(t, report.Types(), 3)
}

func TestValidate_MethodChecks(t *testing.T) {
	tests := []struct {
		name   string
		method *models.MethodDeclaration
		want   []errors.ErrorCode
	}{
		{
			name:   "primitive return",
			method: get("Count", "/count", models.Basic("int")),
			want:   []errors.ErrorCode{errors.PrimitiveReturnTypeCode},
		},
		{
			name:   "string return is allowed",
			method: get("Name", "/name", str()),
		},
		{
			name: "missing verb",
			method: &models.MethodDeclaration{
				Name:    "Fetch",
				Results: []*models.TypeRef{models.ErrorType()},
			},
			want: []errors.ErrorCode{errors.MissingVerbCode},
		},
		{
			name: "multiple verbs",
			method: func() *models.MethodDeclaration {
				m := get("Fetch", "/a", nil)
				m.Verbs = append(m.Verbs, models.VerbAnnotation{Verb: models.VerbPost, Path: "/a"})
				return m
			}(),
			want: []errors.ErrorCode{errors.MultipleVerbsCode},
		},
		{
			name: "invalid results",
			method: func() *models.MethodDeclaration {
				m := get("Fetch", "/a", nil)
				m.Results = []*models.TypeRef{book()}
				return m
			}(),
			want: []errors.ErrorCode{errors.InvalidSignatureCode},
		},
		{
			name:   "context not first",
			method: get("Fetch", "/a/{id}", nil, param("id", str()), param("ctx", models.ContextType())),
			want:   []errors.ErrorCode{errors.InvalidSignatureCode},
		},
		{
			name:   "pointer to interface",
			method: get("Fetch", "/a", models.PointerTo(models.NamedInterface("example.com/app", "Shape"))),
			want:   []errors.ErrorCode{errors.UnsupportedTypeCode, errors.UnresolvableResponseCode},
		},
		{
			name:   "unsupported return",
			method: get("Fetch", "/a", models.Unsupported("chan int")),
			want:   []errors.ErrorCode{errors.UnsupportedTypeCode, errors.UnresolvableResponseCode},
		},
		{
			name: "set and list together",
			method: func() *models.MethodDeclaration {
				shelf := models.NamedInterface("example.com/app", "Shelf", book())
				shelf.Supertypes = []*models.TypeRef{
					models.RuntimeInterface("Set", book()),
					models.RuntimeInterface("List", book()),
				}
				return get("Shelf", "/shelf", shelf)
			}(),
			want: []errors.ErrorCode{errors.UnresolvableResponseCode},
		},
		{
			name:   "undecodable interface",
			method: get("Fetch", "/a", models.NamedInterface("example.com/app", "Shape")),
			want:   []errors.ErrorCode{errors.UnresolvableResponseCode},
		},
		{
			name:   "field on get",
			method: get("Search", "/search", nil, param("q", str(), role(models.RoleFormField, ""))),
			want:   []errors.ErrorCode{errors.MisplacedAnnotationCode},
		},
		{
			name:   "entity on get",
			method: get("Search", "/search", nil, param("q", str())),
			want:   []errors.ErrorCode{errors.BodyNotAllowedCode},
		},
		{
			name:   "conflicting roles",
			method: get("Search", "/search/{q}", nil, param("q", str(), role(models.RolePathVariable, ""), role(models.RoleQueryParam, ""))),
			want:   []errors.ErrorCode{errors.ConflictingRolesCode},
		},
		{
			name: "unknown target parameter",
			method: func() *models.MethodDeclaration {
				m := get("Fetch", "/a", nil)
				m.Unattached = []models.RoleAnnotation{{Role: models.RolePathVariable, Target: "id"}}
				return m
			}(),
			want: []errors.ErrorCode{errors.UnknownParameterCode},
		},
		{
			name:   "reserved identifier",
			method: endpoint("Create", models.VerbPost, "/a", nil, param("entity", book())),
			want:   []errors.ErrorCode{errors.ReservedIdentifierCode},
		},
		{
			name:   "duplicate binding",
			method: get("Dup", "/duplicates/{v1}", nil, param("v1", str(), role(models.RolePathVariable, "v1")), param("v2", str(), role(models.RolePathVariable, "v1"))),
			want:   []errors.ErrorCode{errors.DuplicateBindingCode},
		},
		{
			name:   "unresolved variable",
			method: get("Missing", "/missingparameter/{v1}", nil),
			want:   []errors.ErrorCode{errors.UnresolvedURLVariableCode},
		},
		{
			name:   "unmatched path parameter",
			method: get("Missing", "/missingvariable/{v1}", nil, param("v1", str(), role(models.RolePathVariable, "v1")), param("v2", str(), role(models.RolePathVariable, "v2"))),
			want:   []errors.ErrorCode{errors.UnmatchedPathParameterCode},
		},
		{
			name:   "entity and field",
			method: endpoint("Login", models.VerbPost, "/login", nil, param("user", str(), role(models.RoleFormField, "")), param("b", book())),
			want:   []errors.ErrorCode{errors.ConflictingBodyEncodingCode},
		},
		{
			name:   "field and part",
			method: endpoint("Upload", models.VerbPost, "/upload", nil, param("a", str(), role(models.RoleFormField, "")), param("b", str(), role(models.RoleMultipartPart, ""))),
			want:   []errors.ErrorCode{errors.MixedFieldAndPartCode},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := validate(client(tt.method))
			if tt.want == nil {
				assert.True(t, report.Valid(), "unexpected diagnostics: %v", report.Err())
				return
			}
			assert.False(t, report.Valid())
			assert.Equal(t, tt.want, report.Codes())
		})
	}
}

func TestValidate_ChecksDoNotShortCircuit(t *testing.T) {
	m := get("Broken", "/things/{missing}", models.Basic("bool"),
		param("q", str(), role(models.RoleFormField, "")),
		param("result", str()),
	)

	report := validate(client(m))
	assert.Equal(t, []errors.ErrorCode{
		errors.PrimitiveReturnTypeCode,
		errors.MisplacedAnnotationCode,
		errors.ReservedIdentifierCode,
		errors.UnresolvedURLVariableCode,
		errors.ConflictingBodyEncodingCode,
	}, report.Codes())

	mr := report.Method("Broken")
	require.NotNil(t, mr)
	assert.NotNil(t, mr.Plan, "plan is built even for invalid methods")
	assert.Len(t, mr.Diagnostics, 5)
}

func TestNewWithChecks_RunsOnlyGivenChecks(t *testing.T) {
	m := get("Broken", "/things/{missing}", models.Basic("bool"),
		param("q", str(), role(models.RoleFormField, "")),
		param("result", str()),
	)
	c := client(m)
	c.Annotated = false

	checks := make(map[string]MethodCheck)
	for _, check := range DefaultMethodChecks() {
		checks[check.Name] = check
	}

	tests := []struct {
		check string
		want  []errors.ErrorCode
	}{
		{"verb", nil},
		{"returnType", []errors.ErrorCode{errors.PrimitiveReturnTypeCode}},
		{"placement", []errors.ErrorCode{errors.MisplacedAnnotationCode}},
		{"reservedIdentifiers", []errors.ErrorCode{errors.ReservedIdentifierCode}},
		{"urlBinding", []errors.ErrorCode{errors.UnresolvedURLVariableCode}},
	}
	for _, tt := range tests {
		t.Run(tt.check, func(t *testing.T) {
			check, ok := checks[tt.check]
			require.True(t, ok)

			v := NewWithChecks(resolver.New(resolver.NewRegistry(pkg)), nil, []MethodCheck{check})
			report := v.Validate(c)
			if tt.want == nil {
				assert.True(t, report.Valid(), "unexpected diagnostics: %v", report.Err())
			} else {
				assert.Equal(t, tt.want, report.Codes())
			}
			assert.Nil(t, report.Method("Broken").Plan, "no plan without both binding checks")
		})
	}

	t.Run("client checks only", func(t *testing.T) {
		v := NewWithChecks(resolver.New(resolver.NewRegistry(pkg)), DefaultClientChecks(), nil)
		assert.Equal(t, []errors.ErrorCode{errors.MissingClientAnnotationCode}, v.Validate(c).Codes())
	})
}

func TestValidate_ClientChecks(t *testing.T) {
	t.Run("missing annotation", func(t *testing.T) {
		c := client(get("A", "/a", nil))
		c.Annotated = false
		assert.Equal(t, []errors.ErrorCode{errors.MissingClientAnnotationCode}, validate(c).Codes())
	})

	t.Run("type parameters", func(t *testing.T) {
		c := client(get("A", "/a", nil))
		c.TypeParams = []string{"T"}
		assert.Equal(t, []errors.ErrorCode{errors.UnsupportedTypeCode}, validate(c).Codes())
	})

	t.Run("duplicate methods", func(t *testing.T) {
		c := client(get("A", "/a", nil), get("A", "/b", nil))
		report := validate(c)
		assert.Equal(t, []errors.ErrorCode{errors.DuplicateMethodCode}, report.Codes())
		assert.Contains(t, report.Diagnostics[0].Element(), "BookClient.A")
	})
}

func TestValidate_Accessors(t *testing.T) {
	rootURL := &models.MethodDeclaration{
		Name:     "RootURL",
		Results:  []*models.TypeRef{str()},
		Accessor: models.AccessorRootURL,
	}

	report := validate(client(rootURL))
	require.True(t, report.Valid(), "unexpected diagnostics: %v", report.Err())
	assert.True(t, report.Methods[0].IsAccessor())
	assert.Nil(t, report.Methods[0].Plan)

	rootURL.Requirements.RequiresAuth = true
	assert.Equal(t, []errors.ErrorCode{errors.MisplacedAnnotationCode}, validate(client(rootURL)).Codes())
}

func TestValidate_CookieCoverage(t *testing.T) {
	c := client(get("Session", "/session/{sid}", nil))
	c.Requirements.URLCookies = []string{"sid"}

	report := validate(c)
	require.True(t, report.Valid(), "unexpected diagnostics: %v", report.Err())
	plan := report.Methods[0].Plan
	require.Len(t, plan.Variables, 1)
	assert.True(t, plan.Variables[0].Cookie)
}

func TestValidate_DiagnosticsCarryLocations(t *testing.T) {
	m := get("Search", "/search", nil, param("q", str(), role(models.RoleFormField, "")))

	report := validate(client(m))
	require.Len(t, report.Diagnostics, 1)
	d := report.Diagnostics[0]
	assert.Equal(t, "client.go", d.Location().File)
	assert.Equal(t, 10, d.Location().Line)
	assert.NotEmpty(t, d.Suggestions())
}
