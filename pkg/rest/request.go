package rest

import "net/http"

// HTTP methods used by generated clients
const (
	MethodGet     = http.MethodGet
	MethodPost    = http.MethodPost
	MethodPut     = http.MethodPut
	MethodPatch   = http.MethodPatch
	MethodDelete  = http.MethodDelete
	MethodHead    = http.MethodHead
	MethodOptions = http.MethodOptions
)

// URLVariables maps URL template variables to their values
type URLVariables map[string]any

// Request describes one call issued by a generated method
type Request struct {
	Method string

	// URL is the method template, relative to the client root URL unless absolute
	URL       string
	Variables URLVariables

	// Entity is the body and headers to send. A nil entity sends no body.
	Entity *Entity

	// CaptureCookies names response cookies stored in the client cookie store
	CaptureCookies []string
}

// Entity pairs a request body with its headers
type Entity struct {
	Body    any
	Headers *Headers
}

// NewEntity creates a request entity. Either argument may be nil.
func NewEntity(body any, headers *Headers) *Entity {
	return &Entity{Body: body, Headers: headers}
}

// Metadata describes a received response
type Metadata struct {
	StatusCode int
	Header     http.Header
	RequestID  string
}

// Cookie returns the value of a cookie set by the response
func (m *Metadata) Cookie(name string) string {
	resp := http.Response{Header: m.Header}
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// ResponseEntity is a decoded body together with the response metadata
type ResponseEntity[T any] struct {
	Metadata
	Body T
}
