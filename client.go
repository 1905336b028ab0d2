package sywclient

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/ThalesGroup/sywclient/httpclient"
	"github.com/ansel1/merry"
	"go.uber.org/zap"
)

// Client is a credentialed client for the platform API.
//
// A Client is built once with New() and is immutable afterwards, so it is
// safe for concurrent use.  Every call maps to exactly one request:
//
//     c, err := sywclient.New(
//         sywclient.Token("tok", "secret"),
//         sywclient.OAuth1("ck", "cs", "at", "ats"),
//     )
//
//     data, resp, err := c.Get(ctx, "/products/get", sywclient.Params{"ids": "1,2"})
//
// The same call can complete through a callback:
//
//     c.GetFunc(ctx, "/products/get", nil, func(err error, data interface{}, resp *http.Response) {
//         ...
//     })
//
// ...or through a Promise, which runs the call on its own goroutine:
//
//     p := c.PostAsync(ctx, "/users/follow", sywclient.Params{"userId": 42})
//     data, err := p.Await(ctx)
//
type Client struct {
	config Config

	doer        Doer
	clientOpts  []httpclient.Option
	middleware  []Middleware
	unmarshaler Unmarshaler
	logger      *zap.Logger
	metrics     *Metrics
}

// New returns a new Client, applying all options over DefaultConfig().
//
// Missing credentials are not an error: the platform rejects such calls,
// and that rejection is reported by the call itself.
func New(options ...Option) (*Client, error) {
	c := &Client{config: DefaultConfig()}
	for _, o := range options {
		if err := o.Apply(c); err != nil {
			return nil, merry.Prepend(err, "applying options")
		}
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.unmarshaler == nil {
		c.unmarshaler = DefaultUnmarshaler
	}
	if c.doer == nil {
		hc, err := c.newHTTPClient()
		if err != nil {
			return nil, merry.Prepend(err, "building http client")
		}
		c.doer = hc
	}
	c.doer = Wrap(c.doer, c.middleware...)

	return c, nil
}

// MustNew creates a new Client, applying all options.  If
// an error occurs applying options, this will panic.
func MustNew(options ...Option) *Client {
	c, err := New(options...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Client) newHTTPClient() (*http.Client, error) {
	opts := []httpclient.Option{httpclient.Timeout(c.config.RequestOptions.Timeout)}
	opts = append(opts, c.clientOpts...)
	if oa := c.config.OAuth(); oa.Enabled() {
		opts = append(opts, httpclient.OAuth1(oa.ConsumerKey, oa.ConsumerSecret, oa.Token, oa.TokenSecret))
	}
	return httpclient.New(opts...)
}

// Config returns a copy of the Client's configuration.
func (c *Client) Config() Config {
	return c.config.clone()
}

// Do sends one request and reduces the outcome to a Result.  It never
// returns nil, and it never returns a Result without a Kind: failures of
// every kind are reported through Result.Err.
//
// method must be GET or POST (either case).  params may be nil.  The caller's
// params are never modified.
func (c *Client) Do(ctx context.Context, method, path string, params Params) *Result {
	start := time.Now()
	res := c.do(ctx, method, path, params)
	if c.metrics != nil {
		c.metrics.observe(method, res.Kind, time.Since(start))
	}
	return res
}

func (c *Client) do(ctx context.Context, method, path string, params Params) *Result {
	req, err := c.newRequest(ctx, method, path, params)
	if err != nil {
		c.logger.Warn("invalid platform request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return &Result{Kind: KindRequest, Err: withKind(err, KindRequest)}
	}

	c.logger.Debug("dispatching platform request",
		zap.String("method", req.Method),
		zap.String("endpoint", redactedURL(req)))

	resp, err := c.doer.Do(req)

	// middleware may return both a response and an error, so the body
	// is read either way.
	body, readErr := readBody(resp)
	if err == nil && readErr != nil {
		err = readErr
	}

	res := c.reduce(resp, body, err)
	if res.Err != nil {
		c.logger.Warn("platform request failed",
			zap.String("method", req.Method),
			zap.String("endpoint", redactedURL(req)),
			zap.Stringer("kind", res.Kind),
			zap.Int("status", statusCode(resp)),
			zap.Error(res.Err))
	} else {
		c.logger.Debug("platform request succeeded",
			zap.String("method", req.Method),
			zap.String("endpoint", redactedURL(req)),
			zap.Int("status", statusCode(resp)))
	}
	return res
}

// Get sends a GET request with params in the query string.
func (c *Client) Get(ctx context.Context, path string, params Params) (interface{}, *http.Response, error) {
	return c.Do(ctx, MethodGet, path, params).values()
}

// Post sends a POST request with params in the body.  If params holds a
// "media" entry, the body is multipart, otherwise it is form-urlencoded.
func (c *Client) Post(ctx context.Context, path string, params Params) (interface{}, *http.Response, error) {
	return c.Do(ctx, MethodPost, path, params).values()
}

// GetFunc does the same as Get, but completes by invoking cb exactly once
// on the calling goroutine.
func (c *Client) GetFunc(ctx context.Context, path string, params Params, cb Callback) {
	mustCallback(cb)
	c.Do(ctx, MethodGet, path, params).deliver(cb)
}

// PostFunc does the same as Post, but completes by invoking cb exactly once
// on the calling goroutine.
func (c *Client) PostFunc(ctx context.Context, path string, params Params, cb Callback) {
	mustCallback(cb)
	c.Do(ctx, MethodPost, path, params).deliver(cb)
}

// GetAsync does the same as Get on a new goroutine, and returns a Promise
// for the result.
func (c *Client) GetAsync(ctx context.Context, path string, params Params) *Promise {
	return newPromise(func() *Result {
		return c.Do(ctx, MethodGet, path, params)
	})
}

// PostAsync does the same as Post on a new goroutine, and returns a Promise
// for the result.
func (c *Client) PostAsync(ctx context.Context, path string, params Params) *Promise {
	return newPromise(func() *Result {
		return c.Do(ctx, MethodPost, path, params)
	})
}

func mustCallback(cb Callback) {
	if cb == nil {
		panic("sywclient: nil callback; use Get/Post or the Async variants instead")
	}
}

// readBody reads and closes the response body, then replaces it with an
// in-memory copy so callers can still read resp.Body.
func readBody(resp *http.Response) ([]byte, error) {

	if resp == nil || resp.Body == nil {
		return nil, nil
	}

	defer resp.Body.Close()

	var buf bytes.Buffer
	if cl, _ := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 0); cl > 0 {
		buf.Grow(int(cl))
	}
	_, err := buf.ReadFrom(resp.Body)
	resp.Body = ioutil.NopCloser(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return buf.Bytes(), merry.Prepend(err, "reading response body")
	}
	return buf.Bytes(), nil
}

// redactedURL drops the query, which carries the token and hash.
func redactedURL(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
