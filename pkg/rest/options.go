package rest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// Option configures a Client
type Option func(*Client)

// WithTransport sets the transport requests are sent with
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithHTTPClient sends requests through a net/http client
func WithHTTPClient(client *http.Client) Option {
	return WithTransport(NewHTTPTransport(client))
}

// WithFastHTTP sends requests through a fasthttp client
func WithFastHTTP(client *fasthttp.Client) Option {
	return WithTransport(NewFastHTTPTransport(client))
}

// WithCodec sets the codec used for entities and responses
func WithCodec(codec Codec) Option {
	return func(c *Client) {
		c.codec = codec
	}
}

// WithErrorHandler sets the handler for responses with a status of 400 or above
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Client) {
		c.errorHandler = h
	}
}

// WithAuthentication sets the authentication used by methods that require it
func WithAuthentication(auth Authentication) Option {
	return func(c *Client) {
		c.auth = auth
	}
}

// WithHeader stores a header value for methods that require the header
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.headers[name] = value
	}
}

// WithCookie stores a cookie value for methods that require the cookie
func WithCookie(name, value string) Option {
	return func(c *Client) {
		c.cookies[name] = value
	}
}

// WithRequestID sends a fresh UUID in the named header with every request
func WithRequestID(header string) Option {
	return func(c *Client) {
		c.requestIDHeader = header
		c.newRequestID = uuid.NewString
	}
}

// WithRootURL overrides the root URL the client was generated with
func WithRootURL(root string) Option {
	return func(c *Client) {
		c.rootURL = root
	}
}
