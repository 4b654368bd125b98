package rest

import "encoding/base64"

// Authentication produces the Authorization header of authenticated requests
type Authentication interface {
	Authorization() string
}

// BasicAuth is HTTP basic authentication
type BasicAuth struct {
	Username string
	Password string
}

// Authorization implements Authentication
func (a BasicAuth) Authorization() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(a.Username+":"+a.Password))
}

// BearerAuth is bearer token authentication
type BearerAuth struct {
	Token string
}

// Authorization implements Authentication
func (a BearerAuth) Authorization() string {
	return "Bearer " + a.Token
}

// AuthorizationFunc adapts a function to Authentication
type AuthorizationFunc func() string

// Authorization implements Authentication
func (f AuthorizationFunc) Authorization() string {
	return f()
}
