package models

import (
	"fmt"
	"strings"
)

// RuntimePackage is the import path of the package generated clients call into
const RuntimePackage = "github.com/toyz/restgen/pkg/rest"

// TypeKind classifies a TypeRef
type TypeKind int

const (
	KindInvalid TypeKind = iota
	KindVoid
	KindBasic
	KindNamed
	KindSlice
	KindArray
	KindPointer
	KindMap
	KindWildcard
	KindAny
	KindUnsupported
)

// String returns the string representation of the kind
func (k TypeKind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBasic:
		return "basic"
	case KindNamed:
		return "named"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	case KindMap:
		return "map"
	case KindWildcard:
		return "wildcard"
	case KindAny:
		return "any"
	case KindUnsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// TypeRef is a front-end neutral description of a declared type.
// Values are treated as immutable once built.
type TypeRef struct {
	Kind    TypeKind
	Name    string // basic name, named type simple name or type parameter name
	PkgPath string // import path for named types, empty for predeclared and local synthetic types

	// Named types
	Interface     bool       // declared as an interface
	HasOwnMethods bool       // interface declares methods beyond its embedded interfaces
	TypeArgs      []*TypeRef // instantiation arguments in declaration order
	Supertypes    []*TypeRef // directly embedded interfaces with arguments substituted
	Synthetic     bool       // decorator type produced by the resolver

	// Composite types
	Elem   *TypeRef
	MapKey *TypeRef
	Len    int64

	// Wildcards
	Upper *TypeRef
	Lower *TypeRef

	// Reason carries the source text of an unsupported type
	Reason string
}

// Void returns the type of a method without a response body
func Void() *TypeRef {
	return &TypeRef{Kind: KindVoid}
}

// Basic returns a predeclared scalar type such as string or int64
func Basic(name string) *TypeRef {
	return &TypeRef{Kind: KindBasic, Name: name}
}

// Any returns the empty interface
func Any() *TypeRef {
	return &TypeRef{Kind: KindAny, Name: "any"}
}

// Named returns a defined type applied to the given arguments
func Named(pkgPath, name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: KindNamed, PkgPath: pkgPath, Name: name, TypeArgs: args}
}

// NamedInterface returns an interface type applied to the given arguments
func NamedInterface(pkgPath, name string, args ...*TypeRef) *TypeRef {
	t := Named(pkgPath, name, args...)
	t.Interface = true
	return t
}

// Runtime returns a type declared by the runtime package
func Runtime(name string, args ...*TypeRef) *TypeRef {
	return Named(RuntimePackage, name, args...)
}

// RuntimeInterface returns an interface declared by the runtime package
func RuntimeInterface(name string, args ...*TypeRef) *TypeRef {
	return NamedInterface(RuntimePackage, name, args...)
}

// SliceOf returns []elem
func SliceOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindSlice, Elem: elem}
}

// ArrayOf returns [n]elem
func ArrayOf(n int64, elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindArray, Len: n, Elem: elem}
}

// PointerTo returns *elem
func PointerTo(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindPointer, Elem: elem}
}

// MapOf returns map[key]elem
func MapOf(key, elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindMap, MapKey: key, Elem: elem}
}

// Wildcard returns an unresolved type argument with optional bounds
func Wildcard(name string, upper, lower *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindWildcard, Name: name, Upper: upper, Lower: lower}
}

// Unsupported marks a type the generator cannot express
func Unsupported(reason string) *TypeRef {
	return &TypeRef{Kind: KindUnsupported, Reason: reason}
}

// ErrorType returns the predeclared error interface
func ErrorType() *TypeRef {
	return &TypeRef{Kind: KindNamed, Name: "error", Interface: true}
}

// ContextType returns context.Context
func ContextType() *TypeRef {
	return NamedInterface("context", "Context")
}

var primitiveBasics = map[string]bool{
	"bool": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"byte": true, "rune": true,
}

// IsVoid reports whether the type carries no response body
func (t *TypeRef) IsVoid() bool {
	return t == nil || t.Kind == KindVoid
}

// IsPrimitive reports whether the type is a boolean or numeric scalar
func (t *TypeRef) IsPrimitive() bool {
	return t != nil && t.Kind == KindBasic && primitiveBasics[t.Name]
}

// IsError reports whether the type is the predeclared error interface
func (t *TypeRef) IsError() bool {
	return t != nil && t.Kind == KindNamed && t.PkgPath == "" && t.Name == "error"
}

// IsContext reports whether the type is context.Context
func (t *TypeRef) IsContext() bool {
	return t != nil && t.Kind == KindNamed && t.PkgPath == "context" && t.Name == "Context"
}

// IsRuntime reports whether the type is the named runtime type
func (t *TypeRef) IsRuntime(name string) bool {
	return t != nil && t.Kind == KindNamed && t.PkgPath == RuntimePackage && t.Name == name
}

// IsGeneric reports whether the type is a named type with type arguments
func (t *TypeRef) IsGeneric() bool {
	return t != nil && t.Kind == KindNamed && len(t.TypeArgs) > 0
}

// Equal reports structural equality, ignoring supertypes and bounds metadata
func (t *TypeRef) Equal(other *TypeRef) bool {
	return t.Key() == other.Key()
}

// Key returns a canonical structural identity string
func (t *TypeRef) Key() string {
	var b strings.Builder
	t.writeKey(&b)
	return b.String()
}

func (t *TypeRef) writeKey(b *strings.Builder) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case KindVoid:
		b.WriteString("void")
	case KindBasic, KindAny:
		b.WriteString(t.Name)
	case KindNamed:
		if t.PkgPath != "" {
			b.WriteString(t.PkgPath)
			b.WriteByte('.')
		}
		b.WriteString(t.Name)
		if len(t.TypeArgs) > 0 {
			b.WriteByte('[')
			for i, arg := range t.TypeArgs {
				if i > 0 {
					b.WriteByte(',')
				}
				arg.writeKey(b)
			}
			b.WriteByte(']')
		}
	case KindSlice:
		b.WriteString("[]")
		t.Elem.writeKey(b)
	case KindArray:
		fmt.Fprintf(b, "[%d]", t.Len)
		t.Elem.writeKey(b)
	case KindPointer:
		b.WriteByte('*')
		t.Elem.writeKey(b)
	case KindMap:
		b.WriteString("map[")
		t.MapKey.writeKey(b)
		b.WriteByte(']')
		t.Elem.writeKey(b)
	case KindWildcard:
		b.WriteString("?")
		if t.Upper != nil {
			b.WriteString(" extends ")
			t.Upper.writeKey(b)
		} else if t.Lower != nil {
			b.WriteString(" super ")
			t.Lower.writeKey(b)
		}
	case KindUnsupported:
		fmt.Fprintf(b, "unsupported(%s)", t.Reason)
	default:
		b.WriteString("invalid")
	}
}

// String renders the type in Go syntax with package names shortened to their last element
func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindBasic, KindAny:
		return t.Name
	case KindNamed:
		name := t.Name
		if t.PkgPath != "" {
			name = PackageName(t.PkgPath) + "." + name
		}
		if len(t.TypeArgs) == 0 {
			return name
		}
		args := make([]string, len(t.TypeArgs))
		for i, arg := range t.TypeArgs {
			args[i] = arg.String()
		}
		return name + "[" + strings.Join(args, ", ") + "]"
	case KindSlice:
		return "[]" + t.Elem.String()
	case KindArray:
		return fmt.Sprintf("[%d]%s", t.Len, t.Elem.String())
	case KindPointer:
		return "*" + t.Elem.String()
	case KindMap:
		return "map[" + t.MapKey.String() + "]" + t.Elem.String()
	case KindWildcard:
		if t.Name != "" {
			return t.Name
		}
		return "?"
	case KindUnsupported:
		return t.Reason
	default:
		return "invalid"
	}
}

// PackageName returns the last element of an import path
func PackageName(pkgPath string) string {
	if i := strings.LastIndex(pkgPath, "/"); i >= 0 {
		return pkgPath[i+1:]
	}
	return pkgPath
}

// Walk calls fn for t and every type nested in it, depth first. Returning false stops descent.
func (t *TypeRef) Walk(fn func(*TypeRef) bool) {
	if t == nil || !fn(t) {
		return
	}
	for _, arg := range t.TypeArgs {
		arg.Walk(fn)
	}
	t.MapKey.Walk(fn)
	t.Elem.Walk(fn)
	t.Upper.Walk(fn)
	t.Lower.Walk(fn)
}
