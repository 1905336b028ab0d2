package sywclient

import "net/http"

// Doer sends a single platform request.  It is implemented by *http.Client,
// which is what the Client uses by default.  Doers can be layered with
// Middleware to form a client-side stack.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to implement Doer
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do implements the Doer interface
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Apply implements Option.  A DoerFunc can be passed straight to New(),
// replacing the default HTTP client.
func (f DoerFunc) Apply(c *Client) error {
	c.doer = f
	return nil
}

var _ Doer = (*http.Client)(nil)
