package binder

import (
	"strings"

	"github.com/toyz/restgen/pkg/rest"
)

// VariableSet is a set of URL variable names that remembers first-appearance order
type VariableSet struct {
	names []string
	index map[string]struct{}
}

// NewVariableSet creates a set holding the given names
func NewVariableSet(names ...string) *VariableSet {
	s := &VariableSet{index: make(map[string]struct{}, len(names))}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add inserts a name and reports whether it was new
func (s *VariableSet) Add(name string) bool {
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

// Contains reports membership
func (s *VariableSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the names in first-appearance order
func (s *VariableSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of names
func (s *VariableSet) Len() int {
	return len(s.names)
}

// Union returns a new set with the names of s followed by the new names of other
func (s *VariableSet) Union(other *VariableSet) *VariableSet {
	out := NewVariableSet(s.names...)
	if other != nil {
		for _, name := range other.names {
			out.Add(name)
		}
	}
	return out
}

// ExtractVariables returns the variables of a URL template, parsed the way
// the runtime expands it. It never fails: an empty template or one without
// braces yields an empty set.
func ExtractVariables(template string) *VariableSet {
	return NewVariableSet(rest.NewTemplate(template).Variables()...)
}

// AppendQuery extends a template with name={name} pairs for each query
// variable the template does not already reference
func AppendQuery(template string, names []string) string {
	present := ExtractVariables(template)
	missing := names[:0:0]
	for _, name := range names {
		if !present.Contains(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return template
	}
	names = missing
	var b strings.Builder
	b.WriteString(template)
	sep := "?"
	switch {
	case strings.HasSuffix(template, "?"), strings.HasSuffix(template, "&"):
		sep = ""
	case strings.Contains(template, "?"):
		sep = "&"
	}
	for _, name := range names {
		b.WriteString(sep)
		b.WriteString(name)
		b.WriteString("={")
		b.WriteString(name)
		b.WriteString("}")
		sep = "&"
	}
	return b.String()
}
