// Package resolver computes the concrete type a response is decoded into,
// synthesizing decorator types for generic collection interfaces.
package resolver

import (
	"fmt"

	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
)

// ResponseEntity is the runtime wrapper pairing a decoded body with response metadata
const ResponseEntity = "ResponseEntity"

// collectionImpls maps the recognised runtime collection interfaces to the
// concrete implementation a decorator embeds.
var collectionImpls = map[string]string{
	"Map":        "LinkedMap",
	"Set":        "SortedSet",
	"List":       "ArrayList",
	"Collection": "ArrayList",
}

// collectionParents lists the recognised interfaces each collection embeds
var collectionParents = map[string][]string{
	"List": {"Collection"},
	"Set":  {"Collection"},
}

// Resolved is the outcome of resolving a method's declared return type
type Resolved struct {
	Void     bool
	Wrapper  bool            // declared as rest.ResponseEntity[Declared]
	Raw      bool            // wrapper without a type argument
	Declared *models.TypeRef // type the generated method hands back, without the wrapper
	Type     *models.TypeRef // type the response body is decoded into
}

// Synthesized reports whether decoding goes through a decorator
func (r *Resolved) Synthesized() bool {
	if r.Void || r.Type == nil {
		return false
	}
	found := false
	r.Type.Walk(func(t *models.TypeRef) bool {
		if t.Synthetic {
			found = true
		}
		return !found
	})
	return found
}

// Resolver resolves response types against a decorator registry
type Resolver struct {
	registry *Registry
}

// New creates a resolver that records decorators in registry
func New(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Registry returns the decorator registry
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve computes the decode type for a declared return type. A nil or void
// type resolves to no response body.
func (r *Resolver) Resolve(t *models.TypeRef) (*Resolved, error) {
	if t.IsVoid() {
		return &Resolved{Void: true}, nil
	}

	if t.IsRuntime(ResponseEntity) {
		if len(t.TypeArgs) == 0 {
			return &Resolved{Wrapper: true, Raw: true, Declared: t, Type: t}, nil
		}
		inner := Normalize(t.TypeArgs[0])
		decoded, err := r.resolveType(inner)
		if err != nil {
			return nil, err
		}
		return &Resolved{Wrapper: true, Declared: inner, Type: decoded}, nil
	}

	declared := Normalize(t)
	decoded, err := r.resolveType(declared)
	if err != nil {
		return nil, err
	}
	return &Resolved{Declared: declared, Type: decoded}, nil
}

func (r *Resolver) resolveType(t *models.TypeRef) (*models.TypeRef, error) {
	switch t.Kind {
	case models.KindBasic, models.KindAny, models.KindMap:
		return t, nil
	case models.KindSlice:
		elem, err := r.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}
		if elem == t.Elem {
			return t, nil
		}
		return models.SliceOf(elem), nil
	case models.KindArray:
		elem, err := r.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}
		if elem == t.Elem {
			return t, nil
		}
		return models.ArrayOf(t.Len, elem), nil
	case models.KindPointer:
		elem, err := r.resolveType(t.Elem)
		if err != nil {
			return nil, err
		}
		if elem == t.Elem {
			return t, nil
		}
		return models.PointerTo(elem), nil
	case models.KindNamed:
		if !t.IsGeneric() || !t.Interface {
			return t, nil
		}
		if d := r.synthesize(t); d != nil {
			return d.Type(), nil
		}
		return t, nil
	case models.KindUnsupported:
		return nil, errors.Newf(errors.UnsupportedTypeCode, "type %s cannot be decoded", t.Reason)
	default:
		return nil, errors.Newf(errors.UnsupportedTypeCode, "unexpected %s type %s", t.Kind, t)
	}
}

// synthesize walks the interface and its embedded interfaces breadth first and
// defines a decorator for the most specific recognised collection. It returns
// nil when no collection is found, when two recognised collections are
// unrelated (Set and List), or when the interface hierarchy declares methods
// the implementation does not provide.
func (r *Resolver) synthesize(t *models.TypeRef) *Decorator {
	var match *models.TypeRef
	var impl string

	queue := []*models.TypeRef{t}
	seen := make(map[string]bool)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		key := node.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		if name, ok := collectionImpl(node); ok {
			switch {
			case match == nil, embedsCollection(node, match):
				match, impl = node, name
			case embedsCollection(match, node):
				// implied by the match
			default:
				// no single implementation satisfies both
				return nil
			}
			continue
		}
		if node.HasOwnMethods || !node.Interface {
			return nil
		}
		queue = append(queue, node.Supertypes...)
	}

	if match == nil {
		return nil
	}
	return r.registry.Define(t, models.Runtime(impl, match.TypeArgs...))
}

// embedsCollection reports whether the collection child is, or embeds, parent
// with the same type arguments
func embedsCollection(child, parent *models.TypeRef) bool {
	if !sameArgs(child, parent) {
		return false
	}
	if child.Name == parent.Name {
		return true
	}
	for _, name := range collectionParents[child.Name] {
		if name == parent.Name {
			return true
		}
	}
	return false
}

func sameArgs(a, b *models.TypeRef) bool {
	if len(a.TypeArgs) != len(b.TypeArgs) {
		return false
	}
	for i := range a.TypeArgs {
		if !a.TypeArgs[i].Equal(b.TypeArgs[i]) {
			return false
		}
	}
	return true
}

func collectionImpl(t *models.TypeRef) (string, bool) {
	if t.Kind != models.KindNamed || t.PkgPath != models.RuntimePackage {
		return "", false
	}
	impl, ok := collectionImpls[t.Name]
	return impl, ok
}

// Decodable reports whether a value of the resolved type can be populated by
// the runtime codec. Interfaces other than any are not decodable, including
// inside decorator arguments.
func (r *Resolver) Decodable(t *models.TypeRef) bool {
	ok := true
	t.Walk(func(n *models.TypeRef) bool {
		switch n.Kind {
		case models.KindNamed:
			if n.Synthetic {
				d, found := r.registry.Lookup(n.Name)
				if !found || !r.Decodable(d.Base) {
					ok = false
				}
				return false
			}
			if n.Interface {
				ok = false
			}
		case models.KindUnsupported, models.KindWildcard, models.KindVoid, models.KindInvalid:
			ok = false
		}
		return ok
	})
	return ok
}

// Normalize replaces wildcard type arguments by their upper bound, else their
// lower bound, else any. Types without wildcards are returned unchanged.
func Normalize(t *models.TypeRef) *models.TypeRef {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case models.KindWildcard:
		switch {
		case t.Upper != nil:
			return Normalize(t.Upper)
		case t.Lower != nil:
			return Normalize(t.Lower)
		default:
			return models.Any()
		}
	case models.KindNamed:
		if len(t.TypeArgs) == 0 && len(t.Supertypes) == 0 {
			return t
		}
		args, argsChanged := normalizeAll(t.TypeArgs)
		supers, supersChanged := normalizeAll(t.Supertypes)
		if !argsChanged && !supersChanged {
			return t
		}
		out := *t
		out.TypeArgs = args
		out.Supertypes = supers
		return &out
	case models.KindSlice, models.KindArray, models.KindPointer:
		elem := Normalize(t.Elem)
		if elem == t.Elem {
			return t
		}
		out := *t
		out.Elem = elem
		return &out
	case models.KindMap:
		key, elem := Normalize(t.MapKey), Normalize(t.Elem)
		if key == t.MapKey && elem == t.Elem {
			return t
		}
		return models.MapOf(key, elem)
	}
	return t
}

func normalizeAll(types []*models.TypeRef) ([]*models.TypeRef, bool) {
	if len(types) == 0 {
		return types, false
	}
	out := make([]*models.TypeRef, len(types))
	changed := false
	for i, t := range types {
		out[i] = Normalize(t)
		if out[i] != t {
			changed = true
		}
	}
	return out, changed
}

// String renders a resolved type for diagnostics
func (r *Resolved) String() string {
	switch {
	case r.Void:
		return "void"
	case r.Wrapper:
		return fmt.Sprintf("%s[%s] decoded as %s", ResponseEntity, r.Declared, r.Type)
	default:
		return fmt.Sprintf("%s decoded as %s", r.Declared, r.Type)
	}
}
