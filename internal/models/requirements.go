package models

// Requirements are the headers, cookies and authentication a request needs.
// They are declared on the client and overridden per method.
type Requirements struct {
	Accept       string
	Headers      []string
	Cookies      []string
	URLCookies   []string
	RequiresAuth bool
	SetsCookies  []string
}

// IsZero reports whether nothing is required
func (r Requirements) IsZero() bool {
	return r.Accept == "" &&
		len(r.Headers) == 0 &&
		len(r.Cookies) == 0 &&
		len(r.URLCookies) == 0 &&
		!r.RequiresAuth &&
		len(r.SetsCookies) == 0
}

// NeedsHeaders reports whether a header container has to be built
func (r Requirements) NeedsHeaders() bool {
	return r.Accept != "" || len(r.Headers) > 0 || len(r.Cookies) > 0 || r.RequiresAuth
}

// Override layers method requirements over client ones. A kind declared on the
// method replaces the client's declaration of that kind; authentication is
// required when either level asks for it.
func (r Requirements) Override(method Requirements) Requirements {
	out := r
	if method.Accept != "" {
		out.Accept = method.Accept
	}
	if method.Headers != nil {
		out.Headers = method.Headers
	}
	if method.Cookies != nil {
		out.Cookies = method.Cookies
	}
	if method.URLCookies != nil {
		out.URLCookies = method.URLCookies
	}
	if method.SetsCookies != nil {
		out.SetsCookies = method.SetsCookies
	}
	out.RequiresAuth = r.RequiresAuth || method.RequiresAuth
	return out
}

// Effective returns the requirements that apply to a method of the client
func Effective(client *ClientDeclaration, method *MethodDeclaration) Requirements {
	if client == nil {
		return method.Requirements
	}
	return client.Requirements.Override(method.Requirements)
}
