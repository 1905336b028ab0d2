package sywclient

import (
	"net/http"
	"time"
)

// DefaultBaseURL is the platform API root used when no BaseURL is configured.
const DefaultBaseURL = "https://platform.shopyourway.com"

// RequestOptions are the transport defaults applied to every outgoing request.
type RequestOptions struct {
	// Header is copied onto each request.  Defaults to
	// Accept: */* and Connection: close.
	Header http.Header

	// Timeout bounds each call, including reading the response body.
	// Zero means no timeout.
	Timeout time.Duration
}

// Config holds the credentials and defaults of a Client.
//
// Two credential strategies are supported, and at most one is used per call:
//
//   - Token and AppSecret: the hash sent with each request is computed
//     as the hex SHA-256 of Token followed by AppSecret.
//   - OfflineToken and OfflineHash: both are sent verbatim.
//
// Token wins when both are set.  Independently, the four OAuth1 fields
// configure request signing in the transport.
type Config struct {
	Token     string
	AppSecret string

	OfflineToken string
	OfflineHash  string

	BaseURL        string
	RequestOptions RequestOptions

	ConsumerKey       string
	ConsumerSecret    string
	AccessTokenKey    string
	AccessTokenSecret string
}

// OAuthConfig is the OAuth1 signing block derived from a Config.
type OAuthConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
}

// Enabled reports whether requests should be signed.
func (o OAuthConfig) Enabled() bool {
	return o.ConsumerKey != ""
}

// DefaultConfig returns the defaults table every Client starts from.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		RequestOptions: RequestOptions{
			Header: http.Header{
				HeaderAccept:     []string{"*/*"},
				HeaderConnection: []string{"close"},
			},
		},
	}
}

// Merge returns a copy of c with every non-zero field of override applied
// on top.  Headers are merged key by key, override winning per key.  Neither
// receiver nor argument is modified.
func (c Config) Merge(override Config) Config {
	m := c.clone()

	setString(&m.Token, override.Token)
	setString(&m.AppSecret, override.AppSecret)
	setString(&m.OfflineToken, override.OfflineToken)
	setString(&m.OfflineHash, override.OfflineHash)
	setString(&m.BaseURL, override.BaseURL)
	setString(&m.ConsumerKey, override.ConsumerKey)
	setString(&m.ConsumerSecret, override.ConsumerSecret)
	setString(&m.AccessTokenKey, override.AccessTokenKey)
	setString(&m.AccessTokenSecret, override.AccessTokenSecret)

	if override.RequestOptions.Timeout != 0 {
		m.RequestOptions.Timeout = override.RequestOptions.Timeout
	}
	for key, values := range override.RequestOptions.Header {
		if m.RequestOptions.Header == nil {
			m.RequestOptions.Header = http.Header{}
		}
		m.RequestOptions.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	return m
}

// OAuth derives the signing block from the credential fields.
func (c Config) OAuth() OAuthConfig {
	return OAuthConfig{
		ConsumerKey:    c.ConsumerKey,
		ConsumerSecret: c.ConsumerSecret,
		Token:          c.AccessTokenKey,
		TokenSecret:    c.AccessTokenSecret,
	}
}

func (c Config) clone() Config {
	c2 := c
	c2.RequestOptions.Header = cloneHeader(c.RequestOptions.Header)
	return c2
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return nil
	}
	h2 := make(http.Header, len(h))
	for key, value := range h {
		h2[key] = append([]string(nil), value...)
	}
	return h2
}
