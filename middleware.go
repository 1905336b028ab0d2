package sywclient

import (
	"io"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware can be used to wrap Doers with additional functionality:
//
//     loggingMiddleware := func(next Doer) Doer {
//         return sywclient.DoerFunc(func(req *http.Request) (*http.Response, error) {
//             logRequest(req)
//             return next.Do(req)
//         })
//     }
//
// Middleware is installed with the Use() option:
//
//     c, err := sywclient.New(sywclient.Use(loggingMiddleware))
//
// Middleware itself is an Option, so it can also be passed directly:
//
//     c, err := sywclient.New(sywclient.Middleware(loggingMiddleware))
//
// Middleware sees the request after the token and hash have been injected,
// and before OAuth1 signing, which happens in the HTTP client.
type Middleware func(Doer) Doer

// Apply implements Option
func (m Middleware) Apply(c *Client) error {
	c.middleware = append(c.middleware, m)
	return nil
}

// Wrap applies a set of middleware to a Doer.  The returned Doer will invoke
// the middleware in the order of the arguments.
func Wrap(d Doer, m ...Middleware) Doer {
	for i := len(m) - 1; i > -1; i-- {
		d = m[i](d)
	}
	return d
}

// Dump dumps requests and responses to a writer.  Just intended for debugging:
// dumped requests include the token and hash.
func Dump(w io.Writer) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			dump, dumperr := httputil.DumpRequestOut(req, true)
			// Write the entire request and response out as a single Write() call
			// So if this is being redirected to a logger, it's all sent in a single
			// package
			if dumperr != nil {
				_, _ = io.WriteString(w, "Error dumping request: "+dumperr.Error()+"\n")
			} else {
				_, _ = io.WriteString(w, string(dump)+"\n")
			}
			resp, err := next.Do(req)
			if resp != nil {
				dump, dumperr = httputil.DumpResponse(resp, true)
				if dumperr != nil {
					_, _ = io.WriteString(w, "Error dumping response: "+dumperr.Error()+"\n")
				} else {
					_, _ = io.WriteString(w, string(dump)+"\n")
				}
			}
			return resp, err
		})
	}
}

type logFunc func(a ...interface{})

func (f logFunc) Write(p []byte) (n int, err error) {
	f(string(p))
	return len(p), nil
}

// DumpToLog dumps the request and response to a logging function.
// logf is compatible with fmt.Print(), testing.T.Log, or log.XXX()
// functions.
//
// Request and response will be logged separately.  Though logf
// takes a variadic arg, it will only be called with one string
// arg at a time.
func DumpToLog(logf func(a ...interface{})) Middleware {
	return Dump(logFunc(logf))
}

// Log logs one line per exchange at debug level, or at warn level when the
// transport fails.  The query string, which carries the token and hash, is
// left out.
func Log(logger *zap.Logger) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.Do(req)
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("endpoint", redactedURL(req)),
				zap.Duration("elapsed", time.Since(start)),
			}
			if id := req.Header.Get(HeaderRequestID); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}
			if err != nil {
				logger.Warn("platform exchange failed", append(fields, zap.Error(err))...)
				return resp, err
			}
			logger.Debug("platform exchange", append(fields, zap.Int("status", statusCode(resp)))...)
			return resp, err
		})
	}
}

// RequestID sets a random X-Request-Id header on requests which don't
// already carry one, so calls can be correlated with platform logs.
func RequestID() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(HeaderRequestID) == "" {
				req.Header.Set(HeaderRequestID, uuid.NewString())
			}
			return next.Do(req)
		})
	}
}
