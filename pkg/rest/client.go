// Package rest is the runtime generated REST clients call into. It expands URL
// templates, encodes entities and forms, applies headers, cookies and
// authentication, and decodes responses.
package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Client issues requests for generated client implementations. It is safe for
// concurrent use.
type Client struct {
	mu      sync.RWMutex
	rootURL string
	headers map[string]string
	cookies map[string]string
	auth    Authentication

	transport       Transport
	codec           Codec
	errorHandler    ErrorHandler
	requestIDHeader string
	newRequestID    func() string
}

// NewClient creates a client for the given root URL
func NewClient(rootURL string, opts ...Option) *Client {
	c := &Client{
		rootURL:      rootURL,
		headers:      make(map[string]string),
		cookies:      make(map[string]string),
		transport:    NewHTTPTransport(nil),
		codec:        JSONCodec{},
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RootURL returns the URL method templates are relative to
func (c *Client) RootURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rootURL
}

// SetRootURL changes the URL method templates are relative to
func (c *Client) SetRootURL(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rootURL = root
}

// Header returns a stored header value
func (c *Client) Header(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headers[name]
}

// SetHeader stores a header value for methods that require it
func (c *Client) SetHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[name] = value
}

// Cookie returns a stored cookie value
func (c *Client) Cookie(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cookies[name]
}

// SetCookie stores a cookie value for methods that require it
func (c *Client) SetCookie(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookies[name] = value
}

// Authentication returns the authentication used by methods that require it
func (c *Client) Authentication() Authentication {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth
}

// SetAuthentication sets the authentication used by methods that require it
func (c *Client) SetAuthentication(auth Authentication) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = auth
}

// SetBasicAuth uses HTTP basic authentication
func (c *Client) SetBasicAuth(username, password string) {
	c.SetAuthentication(BasicAuth{Username: username, Password: password})
}

// SetBearerAuth uses bearer token authentication
func (c *Client) SetBearerAuth(token string) {
	c.SetAuthentication(BearerAuth{Token: token})
}

// Exchange sends the request and decodes the response body into out. A nil
// out discards the body. Error responses are passed to the error handler.
func (c *Client) Exchange(ctx context.Context, req *Request, out any) (*Metadata, error) {
	treq, err := c.encode(req)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{}
	if c.newRequestID != nil {
		meta.RequestID = c.newRequestID()
		treq.Header.Set(c.requestIDHeader, meta.RequestID)
	}

	tresp, err := c.transport.Do(ctx, treq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", treq.Method, treq.URL, err)
	}
	meta.StatusCode = tresp.StatusCode
	meta.Header = tresp.Header

	c.captureCookies(meta, req.CaptureCookies)

	if tresp.StatusCode >= http.StatusBadRequest {
		if err := c.errorHandler(meta, tresp.Body); err != nil {
			return meta, err
		}
	}

	if err := c.decode(meta, tresp.Body, out); err != nil {
		return meta, err
	}
	return meta, nil
}

func (c *Client) encode(req *Request) (*TransportRequest, error) {
	target, err := Template(joinURL(c.RootURL(), req.URL)).Expand(req.Variables)
	if err != nil {
		return nil, err
	}

	treq := &TransportRequest{
		Method: req.Method,
		URL:    target,
		Header: make(http.Header),
	}
	if req.Entity == nil {
		return treq, nil
	}

	if req.Entity.Headers != nil {
		for name, values := range req.Entity.Headers.header {
			treq.Header[name] = append([]string(nil), values...)
		}
	}

	switch body := req.Entity.Body.(type) {
	case nil:
	case *MultiValueMap:
		data, contentType, err := body.Encode()
		if err != nil {
			return nil, err
		}
		treq.Body = data
		treq.Header.Set("Content-Type", contentType)
	case []byte:
		treq.Body = body
		treq.Header.Set("Content-Type", "application/octet-stream")
	case io.Reader:
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("failed to read entity: %w", err)
		}
		treq.Body = data
		treq.Header.Set("Content-Type", "application/octet-stream")
	default:
		data, err := c.codec.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode entity: %w", err)
		}
		treq.Body = data
		treq.Header.Set("Content-Type", c.codec.ContentType())
	}
	return treq, nil
}

func (c *Client) decode(meta *Metadata, body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok && isTextual(meta.Header.Get("Content-Type")) {
		*s = string(body)
		return nil
	}
	if err := c.codec.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) captureCookies(meta *Metadata, names []string) {
	if len(names) == 0 {
		return
	}
	resp := http.Response{Header: meta.Header}
	received := resp.Cookies()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		for _, cookie := range received {
			if cookie.Name == name {
				c.cookies[name] = cookie.Value
			}
		}
	}
}
