// Package httpclient builds the *http.Client a sywclient.Client sends its
// platform calls with, when no Doer is supplied.
//
// The client starts from a transport tuned for a single API host.  Options
// then adjust the transport in place (ProxyURL, SkipVerify) or wrap it with
// OAuth1 signing and OpenTelemetry tracing:
//
//     c, err := httpclient.New(
//         httpclient.Timeout(10 * time.Second),
//         httpclient.OAuth1("ck", "cs", "at", "ats"),
//     )
//
// Options run in order, and the wrapping ones must come last: ProxyURL and
// SkipVerify fail once the transport is no longer a *http.Transport.
package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/ansel1/merry"
)

// New returns a fresh *http.Client with opts applied.  Without options the
// client has no Transport of its own and sends through
// http.DefaultTransport.
func New(opts ...Option) (*http.Client, error) {
	c := &http.Client{}
	return c, Apply(c, opts...)
}

// Apply runs opts against c, stopping at the first error.
func Apply(c *http.Client, opts ...Option) error {
	for _, opt := range opts {
		if err := opt.Apply(c); err != nil {
			return err
		}
	}
	return nil
}

// Option adjusts the *http.Client behind a platform Client.
type Option interface {
	Apply(*http.Client) error
}

// OptionFunc adapts a function to Option.
type OptionFunc func(*http.Client) error

// Apply implements Option.
func (f OptionFunc) Apply(c *http.Client) error {
	return f(c)
}

// TransportOption edits the client's *http.Transport, installing
// a platform transport first when the client has none.  It fails when an
// earlier option already wrapped the transport.
type TransportOption func(*http.Transport) error

// Apply implements Option.
func (f TransportOption) Apply(c *http.Client) error {
	switch t := c.Transport.(type) {
	case nil:
		pt := newPlatformTransport()
		c.Transport = pt
		return f(pt)
	case *http.Transport:
		return f(t)
	default:
		return merry.Errorf("client.Transport is not a *http.Transport.  It's a %T", c.Transport)
	}
}

// baseTransport is what OAuth1 and Tracing wrap.
func baseTransport(c *http.Client) http.RoundTripper {
	if c.Transport == nil {
		return newPlatformTransport()
	}
	return c.Transport
}

// newPlatformTransport keeps a small pool of connections to the one API host.
// Proxies still come from the environment.
func newPlatformTransport() *http.Transport {
	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}
}
