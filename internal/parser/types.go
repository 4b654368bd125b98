package parser

import (
	"go/types"

	"github.com/toyz/restgen/internal/models"
)

// typeConverter turns go/types types into front-end neutral type references
type typeConverter struct {
	// expanding guards interface hierarchies that mention themselves in type arguments
	expanding map[string]bool
}

func newTypeConverter() *typeConverter {
	return &typeConverter{expanding: make(map[string]bool)}
}

func (c *typeConverter) convert(t types.Type) *models.TypeRef {
	t = types.Unalias(t)

	switch t := t.(type) {
	case *types.Basic:
		if t.Kind() == types.Invalid || t.Kind() == types.UnsafePointer || t.Info()&types.IsUntyped != 0 {
			return models.Unsupported(t.String())
		}
		return models.Basic(t.Name())
	case *types.Named:
		return c.named(t)
	case *types.Pointer:
		return models.PointerTo(c.convert(t.Elem()))
	case *types.Slice:
		return models.SliceOf(c.convert(t.Elem()))
	case *types.Array:
		return models.ArrayOf(t.Len(), c.convert(t.Elem()))
	case *types.Map:
		return models.MapOf(c.convert(t.Key()), c.convert(t.Elem()))
	case *types.Interface:
		if t.Empty() {
			return models.Any()
		}
		return models.Unsupported(typeString(t))
	case *types.TypeParam:
		return models.Wildcard(t.Obj().Name(), nil, nil)
	default:
		return models.Unsupported(typeString(t))
	}
}

func (c *typeConverter) named(t *types.Named) *models.TypeRef {
	obj := t.Obj()
	if obj.Pkg() == nil {
		if obj.Name() == "error" {
			return models.ErrorType()
		}
		return models.Unsupported(obj.Name())
	}

	args := make([]*models.TypeRef, 0, t.TypeArgs().Len())
	for i := 0; i < t.TypeArgs().Len(); i++ {
		args = append(args, c.convert(t.TypeArgs().At(i)))
	}
	ref := models.Named(obj.Pkg().Path(), obj.Name(), args...)

	iface, ok := t.Underlying().(*types.Interface)
	if !ok {
		return ref
	}
	ref.Interface = true
	ref.HasOwnMethods = iface.NumExplicitMethods() > 0

	key := typeString(t)
	if c.expanding[key] {
		return ref
	}
	c.expanding[key] = true
	defer delete(c.expanding, key)

	for i := 0; i < iface.NumEmbeddeds(); i++ {
		embedded := c.convert(iface.EmbeddedType(i))
		if embedded.Kind != models.KindNamed {
			// unions and other constraint elements cannot be decoded into
			ref.HasOwnMethods = true
			continue
		}
		ref.Supertypes = append(ref.Supertypes, embedded)
	}
	return ref
}

// signature converts parameters and results. Unnamed and blank parameters
// are named by position.
func (c *typeConverter) signature(sig *types.Signature) ([]*models.ParameterDeclaration, []*models.TypeRef) {
	params := make([]*models.ParameterDeclaration, 0, sig.Params().Len())
	for i := 0; i < sig.Params().Len(); i++ {
		v := sig.Params().At(i)
		name := v.Name()
		if name == "" || name == "_" {
			name = argName(i)
		}

		typ := c.convert(v.Type())
		if sig.Variadic() && i == sig.Params().Len()-1 {
			typ = models.Unsupported("..." + typeString(v.Type().(*types.Slice).Elem()))
		}
		params = append(params, &models.ParameterDeclaration{Name: name, Type: typ})
	}

	results := make([]*models.TypeRef, 0, sig.Results().Len())
	for i := 0; i < sig.Results().Len(); i++ {
		results = append(results, c.convert(sig.Results().At(i).Type()))
	}
	return params, results
}

func typeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Name() })
}
