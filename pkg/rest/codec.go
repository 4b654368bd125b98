package rest

import (
	"strings"

	"github.com/goccy/go-json"
)

// Codec encodes request entities and decodes response bodies
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// JSONCodec is the default codec
type JSONCodec struct{}

// Marshal implements Codec
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Codec
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType implements Codec
func (JSONCodec) ContentType() string {
	return "application/json"
}

func isTextual(contentType string) bool {
	return strings.HasPrefix(contentType, "text/")
}
