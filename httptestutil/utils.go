// Package httptestutil contains utilities for use in HTTP tests, particular when using
// httptest.Server to stand in for the platform.
//
// Inspect() can be used to intercept and inspect the traffic to and from an httptest.Server.
package httptestutil

import (
	"net/http/httptest"

	"github.com/ThalesGroup/sywclient"
)

// Client creates a sywclient.Client which is pre-configured to send requests to
// the test server.  The Client is configured with the server's base URL, and
// the server's TLS certs (if using a TLS server).  Further options are applied
// after those.
func Client(ts *httptest.Server, opts ...sywclient.Option) *sywclient.Client {
	base := []sywclient.Option{sywclient.BaseURL(ts.URL)}
	if ts.TLS != nil {
		base = append(base, sywclient.WithDoer(ts.Client()))
	}
	return sywclient.MustNew(append(base, opts...)...)
}

// Inspect installs and returns an Inspector.  The Inspector captures exchanges with the
// test server.  It's useful in tests to inspect the incoming requests and request bodies
// and the outgoing responses and response bodies.
//
// Inspect wraps and replaces the server's Handler.  It should be called after the real
// Handler has been installed.
func Inspect(ts *httptest.Server) *Inspector {
	i := NewInspector(0)
	ts.Config.Handler = i.Wrap(ts.Config.Handler)
	return i
}
