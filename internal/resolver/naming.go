package resolver

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/toyz/restgen/internal/models"
)

// DecoratorName derives the name of the decorator synthesized for a generic
// interface: the interface's simple name, an underscore and the plain name of
// each type argument in declaration order, e.g. Map[string, int] -> Map_StringInt.
func DecoratorName(declared *models.TypeRef) string {
	caser := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	b.WriteString(caser.String(declared.Name))
	b.WriteByte('_')
	for _, arg := range declared.TypeArgs {
		writePlainName(&b, caser, arg)
	}
	return b.String()
}

// PlainName renders a type as an identifier fragment
func PlainName(t *models.TypeRef) string {
	var b strings.Builder
	writePlainName(&b, cases.Title(language.Und, cases.NoLower), t)
	return b.String()
}

func writePlainName(b *strings.Builder, caser cases.Caser, t *models.TypeRef) {
	if t == nil {
		b.WriteString("Any")
		return
	}
	switch t.Kind {
	case models.KindBasic:
		b.WriteString(caser.String(t.Name))
	case models.KindAny:
		b.WriteString("Any")
	case models.KindNamed:
		b.WriteString(caser.String(t.Name))
		if len(t.TypeArgs) > 0 {
			b.WriteByte('_')
			for _, arg := range t.TypeArgs {
				writePlainName(b, caser, arg)
			}
		}
	case models.KindSlice:
		writePlainName(b, caser, t.Elem)
		b.WriteByte('s')
	case models.KindArray:
		writePlainName(b, caser, t.Elem)
		b.WriteByte('s')
		b.WriteString(strconv.FormatInt(t.Len, 10))
	case models.KindPointer:
		b.WriteString("Ptr")
		writePlainName(b, caser, t.Elem)
	case models.KindMap:
		b.WriteString("MapOf")
		writePlainName(b, caser, t.MapKey)
		writePlainName(b, caser, t.Elem)
	case models.KindWildcard:
		writePlainName(b, caser, Normalize(t))
	default:
		b.WriteString("Invalid")
	}
}
