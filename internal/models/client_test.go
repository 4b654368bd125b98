package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func param(name string, typ *TypeRef, roles ...RoleAnnotation) *ParameterDeclaration {
	return &ParameterDeclaration{Name: name, Type: typ, Roles: roles}
}

func TestParseVerb(t *testing.T) {
	tests := []struct {
		in   string
		want HTTPVerb
		ok   bool
	}{
		{"get", VerbGet, true},
		{"POST", VerbPost, true},
		{"Patch", VerbPatch, true},
		{"options", VerbOptions, true},
		{"trace", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			verb, ok := ParseVerb(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, verb)
		})
	}

	for _, verb := range []HTTPVerb{VerbPost, VerbPut, VerbPatch} {
		assert.True(t, verb.AllowsBody(), verb)
	}
	for _, verb := range []HTTPVerb{VerbGet, VerbHead, VerbOptions, VerbDelete} {
		assert.False(t, verb.AllowsBody(), verb)
	}
}

func TestParameterDeclaration_Binding(t *testing.T) {
	tests := []struct {
		name     string
		param    *ParameterDeclaration
		role     Role
		binding  string
		formBody bool
	}{
		{"unannotated", param("book", Named("example.com/app", "Book")), RolePlainEntity, "book", false},
		{"path default name", param("id", Basic("string"), RoleAnnotation{Role: RolePathVariable, Target: "id"}), RolePathVariable, "id", false},
		{"path explicit name", param("id", Basic("string"), RoleAnnotation{Role: RolePathVariable, Target: "id", Name: "book_id"}), RolePathVariable, "book_id", false},
		{"query", param("q", Basic("string"), RoleAnnotation{Role: RoleQueryParam, Target: "q", Name: "search"}), RoleQueryParam, "search", false},
		{"field", param("title", Basic("string"), RoleAnnotation{Role: RoleFormField, Target: "title"}), RoleFormField, "title", true},
		{"part", param("cover", SliceOf(Basic("byte")), RoleAnnotation{Role: RoleMultipartPart, Target: "cover"}), RoleMultipartPart, "cover", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.role, tt.param.Role())
			assert.Equal(t, tt.binding, tt.param.BindingName())
			assert.Equal(t, tt.formBody, tt.param.IsFormBound())
		})
	}
}

func TestMethodDeclaration_Returns(t *testing.T) {
	book := Named("example.com/app", "Book")
	tests := []struct {
		name    string
		results []*TypeRef
		want    *TypeRef
	}{
		{"error only", []*TypeRef{ErrorType()}, Void()},
		{"value and error", []*TypeRef{book, ErrorType()}, book},
		{"no results", nil, nil},
		{"value only", []*TypeRef{book}, nil},
		{"no trailing error", []*TypeRef{book, Basic("int")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := (&MethodDeclaration{Results: tt.results}).Returns()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestMethodDeclaration_Params(t *testing.T) {
	m := &MethodDeclaration{
		Name: "GetBook",
		Params: []*ParameterDeclaration{
			param("ctx", ContextType()),
			param("id", Basic("string")),
		},
	}
	assert.True(t, m.HasContext())
	assert.Len(t, m.BindableParams(), 1)
	assert.Equal(t, "id", m.Param("id").Name)
	assert.Nil(t, m.Param("missing"))

	_, ok := m.Verb()
	assert.False(t, ok)
	m.Verbs = []VerbAnnotation{{Verb: VerbGet, Path: "/books/{id}"}, {Verb: VerbPost}}
	verb, ok := m.Verb()
	assert.True(t, ok)
	assert.Equal(t, VerbGet, verb.Verb)
}

func TestClientDeclaration_Names(t *testing.T) {
	c := &ClientDeclaration{Name: "BookClient"}
	assert.Equal(t, "BookClientImpl", c.ImplName())
	assert.Equal(t, "NewBookClient", c.ConstructorName())
	assert.Equal(t, "BookClient.GetBook", c.Element("GetBook"))
}

func TestDetectAccessor(t *testing.T) {
	str := Basic("string")
	tests := []struct {
		name   string
		method *MethodDeclaration
		want   AccessorKind
	}{
		{"root url", &MethodDeclaration{Name: "RootURL", Results: []*TypeRef{str}}, AccessorRootURL},
		{"set header", &MethodDeclaration{Name: "SetHeader", Params: []*ParameterDeclaration{param("name", str), param("value", str)}}, AccessorSetHeader},
		{"rest client", &MethodDeclaration{Name: "RestClient", Results: []*TypeRef{PointerTo(Runtime("Client"))}}, AccessorRestClient},
		{"wrong signature", &MethodDeclaration{Name: "RootURL", Results: []*TypeRef{Basic("int")}}, AccessorNone},
		{"unknown name", &MethodDeclaration{Name: "Endpoint", Results: []*TypeRef{str}}, AccessorNone},
		{"verb annotated", &MethodDeclaration{Name: "RootURL", Results: []*TypeRef{str}, Verbs: []VerbAnnotation{{Verb: VerbGet}}}, AccessorNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectAccessor(tt.method))
		})
	}
}

func TestRequirements_Override(t *testing.T) {
	client := Requirements{
		Accept:     "application/json",
		Headers:    []string{"X-Tenant"},
		Cookies:    []string{"session"},
		URLCookies: []string{"token"},
	}

	t.Run("empty method keeps client", func(t *testing.T) {
		assert.Equal(t, client, client.Override(Requirements{}))
	})

	t.Run("method kinds replace client kinds", func(t *testing.T) {
		got := client.Override(Requirements{
			Accept:      "text/plain",
			Headers:     []string{"X-Trace"},
			SetsCookies: []string{"session"},
		})
		assert.Equal(t, "text/plain", got.Accept)
		assert.Equal(t, []string{"X-Trace"}, got.Headers)
		assert.Equal(t, []string{"session"}, got.Cookies, "undeclared kinds are inherited")
		assert.Equal(t, []string{"session"}, got.SetsCookies)
	})

	t.Run("authentication from either level", func(t *testing.T) {
		assert.True(t, Requirements{RequiresAuth: true}.Override(Requirements{}).RequiresAuth)
		assert.True(t, Requirements{}.Override(Requirements{RequiresAuth: true}).RequiresAuth)
	})

	t.Run("effective", func(t *testing.T) {
		method := &MethodDeclaration{Requirements: Requirements{RequiresAuth: true}}
		got := Effective(&ClientDeclaration{Requirements: client}, method)
		assert.True(t, got.RequiresAuth)
		assert.Equal(t, "application/json", got.Accept)
		assert.Equal(t, method.Requirements, Effective(nil, method))
	})
}

func TestRequirements_Predicates(t *testing.T) {
	assert.True(t, Requirements{}.IsZero())
	assert.False(t, Requirements{}.NeedsHeaders())

	urlOnly := Requirements{URLCookies: []string{"token"}}
	assert.False(t, urlOnly.IsZero())
	assert.False(t, urlOnly.NeedsHeaders(), "cookies in the URL need no header container")

	assert.True(t, Requirements{Accept: "application/json"}.NeedsHeaders())
	assert.True(t, Requirements{RequiresAuth: true}.NeedsHeaders())
	assert.False(t, Requirements{SetsCookies: []string{"session"}}.NeedsHeaders())
}

func TestGroupByPackage(t *testing.T) {
	clients := []*ClientDeclaration{
		{Name: "A", PackageName: "api", PackagePath: "example.com/api", Dir: "api"},
		{Name: "B", PackageName: "pets", PackagePath: "example.com/pets", Dir: "pets"},
		{Name: "C", PackageName: "api", PackagePath: "example.com/api", Dir: "api"},
		{Name: "D", PackageName: "local", Dir: "local"},
		{Name: "E", PackageName: "local", Dir: "local"},
	}

	pkgs := GroupByPackage(clients)
	if assert.Len(t, pkgs, 3) {
		names := func(p *PackageDeclarations) []string {
			var out []string
			for _, c := range p.Clients {
				out = append(out, c.Name)
			}
			return out
		}
		assert.Equal(t, "example.com/api", pkgs[0].PackagePath)
		assert.Equal(t, []string{"A", "C"}, names(pkgs[0]))
		assert.Equal(t, []string{"B"}, names(pkgs[1]))
		assert.Equal(t, "local", pkgs[2].Dir, "packages without a path group by directory")
		assert.Equal(t, []string{"D", "E"}, names(pkgs[2]))
	}
	assert.Empty(t, GroupByPackage(nil))
}
