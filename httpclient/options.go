package httpclient

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/ansel1/merry"
	"github.com/dghubble/oauth1"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NoRedirects configures the client to no perform any redirects.
func NoRedirects() Option {
	return OptionFunc(func(client *http.Client) error {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
		return nil
	})
}

// MaxRedirects configures the max number of redirects the client will perform before
// giving up.
func MaxRedirects(max int) Option {
	return OptionFunc(func(client *http.Client) error {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= max {
				return merry.Errorf("stopped after max %d requests", len(via))
			}
			return nil
		}
		return nil
	})
}

// ProxyURL will proxy all calls through a single proxy URL.
func ProxyURL(proxyURL string) Option {
	return TransportOption(func(t *http.Transport) error {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return merry.Prepend(err, "parsing proxy url")
		}
		t.Proxy = http.ProxyURL(u)
		return nil
	})
}

// Timeout configures the client's Timeout property.  Zero means no timeout.
func Timeout(d time.Duration) Option {
	return OptionFunc(func(client *http.Client) error {
		client.Timeout = d
		return nil
	})
}

// SkipVerify turns off certificate verification, for test servers and
// staging hosts with self-signed certificates.
func SkipVerify(skip bool) Option {
	return TransportOption(func(t *http.Transport) error {
		if t.TLSClientConfig == nil {
			t.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		t.TLSClientConfig.InsecureSkipVerify = skip
		return nil
	})
}

// OAuth1 wraps the client's transport so every request is signed with
// OAuth1 (HMAC-SHA1) using the consumer and access token credentials.
// Signing covers the query and form parameters, so it must run after
// anything which adds parameters to the request.
func OAuth1(consumerKey, consumerSecret, token, tokenSecret string) Option {
	return OptionFunc(func(client *http.Client) error {
		if consumerKey == "" {
			return merry.New("oauth1 consumer key is required")
		}
		base := &http.Client{Transport: baseTransport(client)}
		ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
		signed := oauth1.NewConfig(consumerKey, consumerSecret).Client(ctx, oauth1.NewToken(token, tokenSecret))
		client.Transport = signed.Transport
		return nil
	})
}

// Tracing wraps the client's transport with OpenTelemetry instrumentation.
// Each request gets a client span, and the trace context is propagated in
// the request headers.
func Tracing(opts ...otelhttp.Option) Option {
	return OptionFunc(func(client *http.Client) error {
		client.Transport = otelhttp.NewTransport(baseTransport(client), opts...)
		return nil
	})
}
