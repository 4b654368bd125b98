package rest

import (
	"fmt"
	"net/url"
	"strings"
)

// TemplatePartType represents the type of template part
type TemplatePartType int

const (
	StaticPart TemplatePartType = iota
	VariablePart
)

// TemplatePart represents a single part of a URL template
type TemplatePart struct {
	Type  TemplatePartType
	Value string // For static parts: the literal text, for variables: the variable name
	Query bool   // the part follows the '?' of the template
}

// Template is a URL template with {name} placeholders
type Template string

// Raw returns the template text
func (t Template) Raw() string {
	return string(t)
}

// Parts parses the template into static text and variables
func (t Template) Parts() []TemplatePart {
	tmpl := string(t)
	var parts []TemplatePart
	query := false

	i := 0
	for i < len(tmpl) {
		if tmpl[i] == '{' {
			// Find the closing brace; a variable never spans a path separator
			j := i + 1
			for j < len(tmpl) && tmpl[j] != '}' && tmpl[j] != '/' {
				j++
			}
			if j < len(tmpl) && tmpl[j] == '}' && j > i+1 {
				parts = append(parts, TemplatePart{
					Type:  VariablePart,
					Value: tmpl[i+1 : j],
					Query: query,
				})
				i = j + 1
			} else {
				// Malformed, treat as static
				parts = append(parts, TemplatePart{
					Type:  StaticPart,
					Value: string(tmpl[i]),
					Query: query,
				})
				i++
			}
		} else {
			// Static part - collect consecutive static characters
			start := i
			for i < len(tmpl) && tmpl[i] != '{' {
				if tmpl[i] == '?' {
					query = true
				}
				i++
			}
			parts = append(parts, TemplatePart{
				Type:  StaticPart,
				Value: tmpl[start:i],
				Query: query,
			})
		}
	}

	return parts
}

// Variables returns the variable names in order of appearance
func (t Template) Variables() []string {
	var names []string
	for _, part := range t.Parts() {
		if part.Type == VariablePart {
			names = append(names, part.Value)
		}
	}
	return names
}

// Expand substitutes every variable with its escaped value. Variables in the
// path are escaped as path segments, variables after '?' as query values.
func (t Template) Expand(vars URLVariables) (string, error) {
	var b strings.Builder
	for _, part := range t.Parts() {
		if part.Type == StaticPart {
			b.WriteString(part.Value)
			continue
		}
		value, ok := vars[part.Value]
		if !ok {
			return "", fmt.Errorf("no value for url variable {%s}", part.Value)
		}
		s := formatValue(value)
		if part.Query {
			b.WriteString(url.QueryEscape(s))
		} else {
			b.WriteString(url.PathEscape(s))
		}
	}
	return b.String(), nil
}

// NewTemplate creates a new Template from a string
func NewTemplate(tmpl string) Template {
	return Template(tmpl)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// joinURL joins the client root URL and a method template
func joinURL(root, path string) string {
	switch {
	case root == "":
		return path
	case path == "":
		return root
	case strings.HasPrefix(path, "?"):
		return root + path
	case strings.HasSuffix(root, "/") && strings.HasPrefix(path, "/"):
		return root + path[1:]
	case !strings.HasSuffix(root, "/") && !strings.HasPrefix(path, "/"):
		return root + "/" + path
	default:
		return root + path
	}
}
