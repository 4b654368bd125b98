package rest

import (
	"fmt"
	"net/http"
	"strings"
)

// Headers is the header container of a request entity
type Headers struct {
	header  http.Header
	cookies strings.Builder
}

// NewHeaders creates an empty header container
func NewHeaders() *Headers {
	return &Headers{header: make(http.Header)}
}

// SetAccept sets the accepted media type
func (h *Headers) SetAccept(mediaType string) {
	h.header.Set("Accept", mediaType)
}

// Set sets a named header. Empty values are skipped.
func (h *Headers) Set(name, value string) {
	if value == "" {
		return
	}
	h.header.Set(name, value)
}

// SetAuthorization sets the Authorization header from auth. A nil
// authentication leaves the header unset.
func (h *Headers) SetAuthorization(auth Authentication) {
	if auth == nil {
		return
	}
	if value := auth.Authorization(); value != "" {
		h.header.Set("Authorization", value)
	}
}

// AddCookie appends name=value; to the Cookie header
func (h *Headers) AddCookie(name, value string) {
	fmt.Fprintf(&h.cookies, "%s=%s;", name, value)
	h.header.Set("Cookie", h.cookies.String())
}

// Get returns the first value of a header
func (h *Headers) Get(name string) string {
	return h.header.Get(name)
}

// Header returns a copy of the headers
func (h *Headers) Header() http.Header {
	return h.header.Clone()
}
