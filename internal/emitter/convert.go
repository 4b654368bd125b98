package emitter

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/toyz/restgen/internal/models"
)

// convert assigns src, of the decoded type, to dst, of the declared type.
// Decorators are handed back by address; slices, arrays and pointers holding
// decorators are converted element by element. depth numbers the loop and
// temporary variables of nested conversions.
func convert(dst, src jen.Code, declared, decoded *models.TypeRef, depth int) []jen.Code {
	if declared.Equal(decoded) {
		return []jen.Code{jen.Add(dst).Op("=").Add(src)}
	}

	switch decoded.Kind {
	case models.KindNamed:
		if decoded.Synthetic {
			return []jen.Code{jen.Add(dst).Op("=").Op("&").Add(src)}
		}
	case models.KindSlice, models.KindArray:
		i := jen.Id(fmt.Sprintf("i%d", depth))
		var stmts []jen.Code
		if decoded.Kind == models.KindSlice {
			stmts = append(stmts, jen.Add(dst).Op("=").Make(TypeCode(declared), jen.Len(src)))
		}
		loop := convert(
			jen.Add(dst).Index(i),
			jen.Add(src).Index(i),
			declared.Elem, decoded.Elem, depth+1,
		)
		return append(stmts, jen.For(jen.Add(i).Op(":=").Range().Add(src)).Block(loop...))
	case models.KindPointer:
		v := jen.Id(fmt.Sprintf("v%d", depth))
		inner := convert(v, jen.Op("*").Add(src), declared.Elem, decoded.Elem, depth+1)
		block := append([]jen.Code{jen.Var().Add(v).Add(TypeCode(declared.Elem))}, inner...)
		block = append(block, jen.Add(dst).Op("=").Op("&").Add(v))
		return []jen.Code{jen.If(jen.Add(src).Op("!=").Nil()).Block(block...)}
	}

	return []jen.Code{jen.Add(dst).Op("=").Add(src)}
}
