package annotations

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// Common validation functions shared by the built-in schemas

// ValidateURLTemplate validates a verb annotation's URL template: balanced,
// non-empty braces and no whitespace. Absolute URLs are accepted.
func ValidateURLTemplate(template string) error {
	if template == "" {
		return fmt.Errorf("URL template cannot be empty")
	}
	if strings.IndexFunc(template, unicode.IsSpace) >= 0 {
		return fmt.Errorf("URL template cannot contain whitespace, got '%s'", template)
	}

	open := -1
	for i, r := range template {
		switch r {
		case '{':
			if open >= 0 {
				return fmt.Errorf("nested '{' at offset %d in '%s'", i, template)
			}
			open = i
		case '}':
			if open < 0 {
				return fmt.Errorf("unbalanced '}' at offset %d in '%s'", i, template)
			}
			if i == open+1 {
				return fmt.Errorf("empty variable at offset %d in '%s'", open, template)
			}
			open = -1
		}
	}
	if open >= 0 {
		return fmt.Errorf("unclosed '{' at offset %d in '%s'", open, template)
	}
	return nil
}

// ValidateRootURL validates the client root URL
func ValidateRootURL(v interface{}) error {
	raw := v.(string)
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid root URL '%s': %v", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("root URL must be absolute, got '%s'", raw)
	}
	return nil
}

// ValidateMediaType accepts type/subtype media types, parameters allowed
func ValidateMediaType(v interface{}) error {
	media := v.(string)
	base, _, _ := strings.Cut(media, ";")
	typ, sub, ok := strings.Cut(strings.TrimSpace(base), "/")
	if !ok || typ == "" || sub == "" || strings.Contains(sub, "/") {
		return fmt.Errorf("must be a media type like 'application/json', got '%s'", media)
	}
	return nil
}

// ValidateIdentifier validates Go identifiers naming method parameters
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return fmt.Errorf("'%s' is not a valid Go identifier", name)
	}
	return nil
}

// ValidateHeaderName validates HTTP header field names (RFC 7230 tokens)
func ValidateHeaderName(name string) error {
	if name == "" {
		return fmt.Errorf("header name cannot be empty")
	}
	for _, r := range name {
		if !isTokenChar(r) {
			return fmt.Errorf("invalid character %q in header name '%s'", r, name)
		}
	}
	return nil
}

// ValidateCookieName validates cookie names, which are tokens as well
func ValidateCookieName(name string) error {
	if name == "" {
		return fmt.Errorf("cookie name cannot be empty")
	}
	for _, r := range name {
		if !isTokenChar(r) {
			return fmt.Errorf("invalid character %q in cookie name '%s'", r, name)
		}
	}
	return nil
}

func isTokenChar(r rune) bool {
	if r > unicode.MaxASCII || r <= ' ' || r == 0x7f {
		return false
	}
	return !strings.ContainsRune(`()<>@,;:\"/[]?={}`, r)
}
