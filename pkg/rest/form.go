package rest

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

// MultiValueMap is an ordered multi-valued name to value container used for
// form and multipart bodies
type MultiValueMap struct {
	keys      []string
	values    map[string][]any
	multipart bool
}

// NewMultiValueMap creates a container sent as application/x-www-form-urlencoded
func NewMultiValueMap() *MultiValueMap {
	return &MultiValueMap{values: make(map[string][]any)}
}

// NewMultipartForm creates a container sent as multipart/form-data
func NewMultipartForm() *MultiValueMap {
	m := NewMultiValueMap()
	m.multipart = true
	return m
}

// Add appends a value to a name
func (m *MultiValueMap) Add(name string, value any) {
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = append(m.values[name], value)
}

// Get returns the first value of a name
func (m *MultiValueMap) Get(name string) any {
	if vs := m.values[name]; len(vs) > 0 {
		return vs[0]
	}
	return nil
}

// Values returns every value of a name
func (m *MultiValueMap) Values(name string) []any {
	return m.values[name]
}

// Keys returns the names in insertion order
func (m *MultiValueMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// IsMultipart reports whether the container is sent as multipart/form-data
func (m *MultiValueMap) IsMultipart() bool {
	return m.multipart
}

// Encode renders the body and returns it with its content type
func (m *MultiValueMap) Encode() ([]byte, string, error) {
	if m.multipart {
		return m.encodeMultipart()
	}

	form := url.Values{}
	for _, key := range m.keys {
		for _, v := range m.values[key] {
			form.Add(key, formatValue(v))
		}
	}
	return []byte(form.Encode()), "application/x-www-form-urlencoded", nil
}

func (m *MultiValueMap) encodeMultipart() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, key := range m.keys {
		for _, v := range m.values[key] {
			if err := writePart(w, key, v); err != nil {
				return nil, "", fmt.Errorf("failed to write part %q: %w", key, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writePart(w *multipart.Writer, name string, value any) error {
	switch v := value.(type) {
	case []byte:
		part, err := w.CreateFormFile(name, name)
		if err != nil {
			return err
		}
		_, err = part.Write(v)
		return err
	case io.Reader:
		part, err := w.CreateFormFile(name, name)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, v)
		return err
	default:
		return w.WriteField(name, formatValue(v))
	}
}
