package models

type accessorSignature struct {
	kind    AccessorKind
	params  []*TypeRef
	results []*TypeRef
}

var accessorSignatures = map[string]accessorSignature{
	"RootURL":           {AccessorRootURL, nil, []*TypeRef{Basic("string")}},
	"SetRootURL":        {AccessorSetRootURL, []*TypeRef{Basic("string")}, nil},
	"Header":            {AccessorHeader, []*TypeRef{Basic("string")}, []*TypeRef{Basic("string")}},
	"SetHeader":         {AccessorSetHeader, []*TypeRef{Basic("string"), Basic("string")}, nil},
	"Cookie":            {AccessorCookie, []*TypeRef{Basic("string")}, []*TypeRef{Basic("string")}},
	"SetCookie":         {AccessorSetCookie, []*TypeRef{Basic("string"), Basic("string")}, nil},
	"SetAuthentication": {AccessorSetAuthentication, []*TypeRef{RuntimeInterface("Authentication")}, nil},
	"SetBasicAuth":      {AccessorSetBasicAuth, []*TypeRef{Basic("string"), Basic("string")}, nil},
	"SetBearerAuth":     {AccessorSetBearerAuth, []*TypeRef{Basic("string")}, nil},
	"RestClient":        {AccessorRestClient, nil, []*TypeRef{PointerTo(Runtime("Client"))}},
}

// DetectAccessor recognises helper methods by name and exact signature.
// Methods with verb annotations are never accessors.
func DetectAccessor(m *MethodDeclaration) AccessorKind {
	if len(m.Verbs) > 0 {
		return AccessorNone
	}
	sig, ok := accessorSignatures[m.Name]
	if !ok {
		return AccessorNone
	}
	if !sameTypes(m.Params, sig.params) || !sameResults(m.Results, sig.results) {
		return AccessorNone
	}
	return sig.kind
}

func sameTypes(params []*ParameterDeclaration, want []*TypeRef) bool {
	if len(params) != len(want) {
		return false
	}
	for i, p := range params {
		if !p.Type.Equal(want[i]) {
			return false
		}
	}
	return true
}

func sameResults(got, want []*TypeRef) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			return false
		}
	}
	return true
}
