// Package clientserver is a utility for writing HTTP tests against a fake
// platform.
//
// A ClientServer embeds an httptest.Server and builds sywclient.Clients
// which are preconfigured to talk to the server.
package clientserver

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/ThalesGroup/sywclient"
	"github.com/ThalesGroup/sywclient/httptestutil"
)

// NewServer creates and starts a ClientServer.  handler may be nil, and set
// later with HandlerFunc, Respond, or Mux.  options are applied to every
// Client the ClientServer builds.
func NewServer(handler http.Handler, options ...sywclient.Option) *ClientServer {
	cs := NewUnstartedServer(handler, options...)
	cs.Start()
	return cs
}

// NewTLSServer is like NewServer, but starts the server with TLS.  Clients
// trust the server's certificate.
func NewTLSServer(handler http.Handler, options ...sywclient.Option) *ClientServer {
	cs := NewUnstartedServer(handler, options...)
	cs.StartTLS()
	return cs
}

// NewUnstartedServer creates a ClientServer, but doesn't start it.  Call
// Start or StartTLS before building Clients.
func NewUnstartedServer(handler http.Handler, options ...sywclient.Option) *ClientServer {
	cs := &ClientServer{
		Handler: handler,
		options: options,
	}
	cs.Server = httptest.NewUnstartedServer(cs)
	return cs
}

// A ClientServer is an http server and a factory of platform clients.  The
// clients are preconfigured to talk to the server.
//
// Should be closed at the end of the test.
type ClientServer struct {
	*httptest.Server
	Handler http.Handler

	options []sywclient.Option

	mu sync.Mutex

	// These arguments are populated automatically during each
	// request.  Use Clear() to clear them between tests.

	// The last request handled by the server.
	LastSrvReq *http.Request

	// The last request sent by the client.
	LastClientReq *http.Request

	// The last response received by the client.
	LastClientResp *http.Response

	srvInspector    *httptestutil.Inspector
	clientInspector *sywclient.Inspector
}

// Client builds a sywclient.Client which talks to the server.  The
// ClientServer's options are applied first, then options.
func (t *ClientServer) Client(options ...sywclient.Option) *sywclient.Client {
	opts := []sywclient.Option{sywclient.Use(t.captureClientReqResp)}
	t.mu.Lock()
	if t.clientInspector != nil {
		opts = append(opts, t.clientInspector)
	}
	t.mu.Unlock()
	opts = append(opts, t.options...)
	opts = append(opts, options...)
	return httptestutil.Client(t.Server, opts...)
}

// InspectServer returns an Inspector which captures the exchanges handled by
// the server from now on.  Repeated calls return the same Inspector.
func (t *ClientServer) InspectServer() *httptestutil.Inspector {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.srvInspector == nil {
		t.srvInspector = httptestutil.NewInspector(0)
	}
	return t.srvInspector
}

// InspectClient returns an Inspector which is installed in Clients built
// from now on.  Repeated calls return the same Inspector.
func (t *ClientServer) InspectClient() *sywclient.Inspector {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.clientInspector == nil {
		t.clientInspector = &sywclient.Inspector{}
	}
	return t.clientInspector
}

// Clear clears the attributes captured by the last request, and the
// inspectors.
func (t *ClientServer) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.LastClientReq = nil
	t.LastClientResp = nil
	t.LastSrvReq = nil
	t.srvInspector.Clear()
	if t.clientInspector != nil {
		t.clientInspector.Clear()
	}
}

// ServeHTTP implements http.Handler.  ClientServer installs itself as the
// server's Handler so it can capture the request.  It then delegates to
// the Handler attribute.
func (t *ClientServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	t.mu.Lock()
	t.LastSrvReq = req
	h, is := t.Handler, t.srvInspector
	t.mu.Unlock()

	if h == nil {
		h = http.NotFoundHandler()
	}
	if is != nil {
		h = is.Wrap(h)
	}
	h.ServeHTTP(w, req)
}

func (t *ClientServer) captureClientReqResp(next sywclient.Doer) sywclient.Doer {
	return sywclient.DoerFunc(func(req *http.Request) (*http.Response, error) {
		t.mu.Lock()
		t.LastClientReq = req
		t.mu.Unlock()
		resp, err := next.Do(req)
		t.mu.Lock()
		t.LastClientResp = resp
		t.mu.Unlock()
		return resp, err
	})
}

// Mux returns a ServeMux.  If the current Handler is a ServeMux, that
// is returned.  Otherwise, a new ServerMux is created and installed as
// the handler.
func (t *ClientServer) Mux() *http.ServeMux {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.Handler.(*http.ServeMux); ok {
		return m
	}
	m := http.NewServeMux()
	t.Handler = m
	return m
}

// HandlerFunc is a convenience method for installing a HandlerFunc as the
// handler.
func (t *ClientServer) HandlerFunc(hf http.HandlerFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Handler = hf
}

// Respond installs a handler which answers every request with the status
// code and body, like the platform would.
func (t *ClientServer) Respond(statusCode int, body string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Handler = sywclient.MockHandler(statusCode, body)
}
