package resolver

import (
	"strconv"

	"github.com/toyz/restgen/internal/models"
)

// Decorator is a synthesized named type that embeds a concrete collection
// implementation narrowed to the arguments of a generic interface.
type Decorator struct {
	Name     string
	Declared *models.TypeRef // generic interface the decorator stands in for
	Base     *models.TypeRef // runtime implementation it embeds
	PkgPath  string
}

// Type returns a reference to the decorator type
func (d *Decorator) Type() *models.TypeRef {
	t := models.Named(d.PkgPath, d.Name)
	t.Synthetic = true
	return t
}

// Registry holds the decorators of one output package keyed by the structural
// shape of the declared interface, so identical shapes collapse to one
// definition and one name.
type Registry struct {
	pkgPath string
	byKey   map[string]*Decorator
	byName  map[string]*Decorator
	order   []*Decorator
}

// NewRegistry creates an empty registry for decorators declared in pkgPath
func NewRegistry(pkgPath string) *Registry {
	return &Registry{
		pkgPath: pkgPath,
		byKey:   make(map[string]*Decorator),
		byName:  make(map[string]*Decorator),
	}
}

// Define returns the decorator for a declared shape, creating it on first use.
// A different shape whose derived name is taken receives a numeric suffix.
func (r *Registry) Define(declared, base *models.TypeRef) *Decorator {
	key := declared.Key()
	if d, ok := r.byKey[key]; ok {
		return d
	}

	name := DecoratorName(declared)
	if _, taken := r.byName[name]; taken {
		for i := 2; ; i++ {
			candidate := name + strconv.Itoa(i)
			if _, taken := r.byName[candidate]; !taken {
				name = candidate
				break
			}
		}
	}

	d := &Decorator{Name: name, Declared: declared, Base: base, PkgPath: r.pkgPath}
	r.byKey[key] = d
	r.byName[name] = d
	r.order = append(r.order, d)
	return d
}

// Lookup returns the decorator with the given name
func (r *Registry) Lookup(name string) (*Decorator, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Decorators returns every decorator in definition order
func (r *Registry) Decorators() []*Decorator {
	out := make([]*Decorator, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of decorators
func (r *Registry) Len() int {
	return len(r.order)
}

// Referenced returns the decorators used by the given types, in definition order
func (r *Registry) Referenced(types ...*models.TypeRef) []*Decorator {
	used := make(map[*Decorator]bool)
	for _, t := range types {
		t.Walk(func(n *models.TypeRef) bool {
			if n.Synthetic {
				if d, ok := r.byName[n.Name]; ok {
					used[d] = true
				}
			}
			return true
		})
	}

	var out []*Decorator
	for _, d := range r.order {
		if used[d] {
			out = append(out, d)
		}
	}
	return out
}
