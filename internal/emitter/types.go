package emitter

import (
	"github.com/dave/jennifer/jen"

	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/resolver"
)

// TypeCode renders a type reference. Named types are qualified by import path
// so the file imports them as needed; types of the output package render bare.
func TypeCode(t *models.TypeRef) jen.Code {
	if t == nil {
		return jen.Any()
	}
	switch t.Kind {
	case models.KindBasic:
		return jen.Id(t.Name)
	case models.KindAny:
		return jen.Any()
	case models.KindNamed:
		var s *jen.Statement
		if t.PkgPath == "" {
			s = jen.Id(t.Name)
		} else {
			s = jen.Qual(t.PkgPath, t.Name)
		}
		switch {
		case len(t.TypeArgs) > 0:
			s = s.Types(typeList(t.TypeArgs)...)
		case t.IsRuntime(resolver.ResponseEntity):
			s = s.Types(jen.Any())
		}
		return s
	case models.KindSlice:
		return jen.Index().Add(TypeCode(t.Elem))
	case models.KindArray:
		return jen.Index(jen.Lit(int(t.Len))).Add(TypeCode(t.Elem))
	case models.KindPointer:
		return jen.Op("*").Add(TypeCode(t.Elem))
	case models.KindMap:
		return jen.Map(TypeCode(t.MapKey)).Add(TypeCode(t.Elem))
	case models.KindWildcard:
		return TypeCode(resolver.Normalize(t))
	default:
		return jen.Id(t.String())
	}
}

func typeList(types []*models.TypeRef) []jen.Code {
	out := make([]jen.Code, len(types))
	for i, t := range types {
		out[i] = TypeCode(t)
	}
	return out
}
