package sywclient

import (
	"strings"
	"time"

	"github.com/ThalesGroup/sywclient/httpclient"
	"github.com/ansel1/merry"
	"go.uber.org/zap"
)

// HTTP constants.
const (
	HeaderAccept      = "Accept"
	HeaderConnection  = "Connection"
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-Id"

	MediaTypeJSON      = "application/json"
	MediaTypeForm      = "application/x-www-form-urlencoded"
	MediaTypeMultipart = "multipart/form-data"
	MediaTypeOctet     = "application/octet-stream"
)

// Option configures a Client.  Options are passed to New() and applied
// in order, so later options win.
type Option interface {

	// Apply modifies the Client argument.  The pointer will never be nil.
	// Returning an error stops construction, and the error floats up to
	// the caller of New().
	Apply(*Client) error
}

// OptionFunc adapts a function to the Option interface.
type OptionFunc func(*Client) error

// Apply implements Option.
func (f OptionFunc) Apply(c *Client) error {
	return f(c)
}

// Token configures per-request token authentication.  The hash sent
// alongside the token is computed from token and appSecret for every call.
func Token(token, appSecret string) Option {
	return OptionFunc(func(c *Client) error {
		c.config.Token = token
		c.config.AppSecret = appSecret
		return nil
	})
}

// OfflineToken configures a pre-issued token and hash, both sent verbatim.
// It is only used when no Token is configured.
func OfflineToken(token, hash string) Option {
	return OptionFunc(func(c *Client) error {
		c.config.OfflineToken = token
		c.config.OfflineHash = hash
		return nil
	})
}

// BaseURL sets the root that relative paths are resolved against.  A
// trailing slash is dropped so joined endpoints keep a single separator.
func BaseURL(u string) Option {
	return OptionFunc(func(c *Client) error {
		if u == "" {
			return merry.New("base url must not be empty")
		}
		c.config.BaseURL = strings.TrimRight(u, "/")
		return nil
	})
}

// OAuth1 configures request signing.  Signing is only installed in the
// default HTTP client; it has no effect when WithDoer() replaces it.
func OAuth1(consumerKey, consumerSecret, accessTokenKey, accessTokenSecret string) Option {
	return OptionFunc(func(c *Client) error {
		c.config.ConsumerKey = consumerKey
		c.config.ConsumerSecret = consumerSecret
		c.config.AccessTokenKey = accessTokenKey
		c.config.AccessTokenSecret = accessTokenSecret
		return nil
	})
}

// Header sets a default request header, replacing any earlier value.
func Header(key, value string) Option {
	return WithConfig(Config{
		RequestOptions: RequestOptions{Header: map[string][]string{key: {value}}},
	})
}

// DeleteHeader removes a default request header.
func DeleteHeader(key string) Option {
	return OptionFunc(func(c *Client) error {
		c.config.RequestOptions.Header.Del(key)
		return nil
	})
}

// Timeout sets the per-call timeout of the default HTTP client.
func Timeout(d time.Duration) Option {
	return OptionFunc(func(c *Client) error {
		c.config.RequestOptions.Timeout = d
		return nil
	})
}

// WithConfig merges cfg over the current configuration.  See Config.Merge.
func WithConfig(cfg Config) Option {
	return OptionFunc(func(c *Client) error {
		c.config = c.config.Merge(cfg)
		return nil
	})
}

// WithDoer replaces the default HTTP client.  If nil, the Client
// reverts to building its own.
func WithDoer(d Doer) Option {
	return OptionFunc(func(c *Client) error {
		c.doer = d
		return nil
	})
}

// HTTPClient passes extra options to the default HTTP client, e.g.
// httpclient.Tracing() or httpclient.SkipVerify(true).  They are applied
// before request signing is installed.
func HTTPClient(opts ...httpclient.Option) Option {
	return OptionFunc(func(c *Client) error {
		c.clientOpts = append(c.clientOpts, opts...)
		return nil
	})
}

// Use appends middleware to the Client.  Middleware is invoked in the order
// added.
func Use(m ...Middleware) Option {
	return OptionFunc(func(c *Client) error {
		c.middleware = append(c.middleware, m...)
		return nil
	})
}

// Logger sets the logger used by the Client.  Defaults to a no-op logger.
func Logger(l *zap.Logger) Option {
	return OptionFunc(func(c *Client) error {
		c.logger = l
		return nil
	})
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) Option {
	return OptionFunc(func(c *Client) error {
		c.metrics = m
		return nil
	})
}

// WithUnmarshaler replaces the decoder used for response bodies.
func WithUnmarshaler(u Unmarshaler) Option {
	return OptionFunc(func(c *Client) error {
		c.unmarshaler = u
		return nil
	})
}
