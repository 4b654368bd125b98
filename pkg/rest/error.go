package rest

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is returned for responses with a status code of 400 or above
type HTTPError struct {
	StatusCode int
	Message    string
	Body       []byte
	Metadata   *Metadata
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and body
func NewHTTPError(meta *Metadata, body []byte) *HTTPError {
	return &HTTPError{
		StatusCode: meta.StatusCode,
		Message:    http.StatusText(meta.StatusCode),
		Body:       body,
		Metadata:   meta,
	}
}

// ErrorHandler turns an error response into the error returned to the caller.
// Returning nil makes the call succeed and the body is decoded as usual.
type ErrorHandler func(meta *Metadata, body []byte) error

// DefaultErrorHandler returns an *HTTPError for every error response
func DefaultErrorHandler(meta *Metadata, body []byte) error {
	return NewHTTPError(meta, body)
}

// IsStatus reports whether err is an *HTTPError with the given status code
func IsStatus(err error, statusCode int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == statusCode
}
