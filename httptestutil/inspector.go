package httptestutil

import (
	"bytes"
	"io"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/ansel1/merry"
	"github.com/felixge/httpsnoop"
)

// Exchange is a snapshot of one request/response exchange with
// the server.
type Exchange struct {
	Request     *http.Request
	RequestBody *bytes.Buffer

	StatusCode   int
	Header       http.Header
	ResponseBody *bytes.Buffer
}

// Params decodes the parameters the client sent, from the query string and,
// for form and multipart requests, from the body.  File parts are returned
// as their content.
func (e *Exchange) Params() (url.Values, error) {
	values := e.Request.URL.Query()
	if e.RequestBody == nil {
		return values, nil
	}

	mediaType, typeParams, err := mime.ParseMediaType(e.Request.Header.Get("Content-Type"))
	if err != nil {
		return values, nil
	}

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(e.RequestBody.String())
		if err != nil {
			return nil, merry.Prepend(err, "parsing form body")
		}
		for k, vs := range form {
			values[k] = append(values[k], vs...)
		}
	case strings.HasPrefix(mediaType, "multipart/"):
		mr := multipart.NewReader(bytes.NewReader(e.RequestBody.Bytes()), typeParams["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, merry.Prepend(err, "parsing multipart body")
			}
			content, err := ioutil.ReadAll(part)
			if err != nil {
				return nil, merry.Prepend(err, "reading multipart part")
			}
			values.Add(part.FormName(), string(content))
		}
	}
	return values, nil
}

// Inspector is server-side middleware which captures server exchanges in a buffer.
// Exchanges are captured in a buffered channel.  If the channel buffer fills,
// subsequent server exchanges are not captured.
//
// Exchanges can be received directly from the channel, or you can use the NextExchange()
// and LastExchange() convenience methods.
type Inspector struct {
	Exchanges chan Exchange
}

// NewInspector creates a new Inspector with the requested channel buffer size.  If 0,
// the buffer size defaults to 50.
func NewInspector(size int) *Inspector {
	if size == 0 {
		size = 50
	}
	return &Inspector{
		Exchanges: make(chan Exchange, size),
	}
}

// NextExchange receives the next exchange from the channel, or returns nil if no
// exchange is ready.  It is non-blocking.
func (b *Inspector) NextExchange() *Exchange {
	select {
	case e := <-b.Exchanges:
		return &e
	default:
		return nil
	}
}

// LastExchange receives the most recent exchange from channel.  This also has
// the side effect of draining the channel completely.  If no exchange
// is ready, nil is returned.  It is non-blocking.
func (b *Inspector) LastExchange() *Exchange {
	var e *Exchange

	for {
		select {
		case ex := <-b.Exchanges:
			e = &ex
		default:
			return e
		}
	}
}

// Drain reads all buffered exchanges from the channel, oldest first.
func (b *Inspector) Drain() []*Exchange {
	var out []*Exchange
	for {
		ex := b.NextExchange()
		if ex == nil {
			return out
		}
		out = append(out, ex)
	}
}

// Clear drains the channel.
func (b *Inspector) Clear() {
	if b == nil {
		return
	}
	b.LastExchange()
}

// Wrap installs the inspector in an HTTP server by wrapping
// the server's Handler.  A nil handler is replaced with
// http.DefaultServeMux, as http.Server does.
func (b *Inspector) Wrap(next http.Handler) http.Handler {
	if next == nil {
		next = http.DefaultServeMux
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ex := Exchange{Request: r}
		if r.Body != nil && r.Body != http.NoBody {
			ex.RequestBody = &bytes.Buffer{}
			if _, err := ex.RequestBody.ReadFrom(r.Body); err != nil {
				panic(err)
			}
			if err := r.Body.Close(); err != nil {
				panic(err)
			}

			r.Body = ioutil.NopCloser(bytes.NewReader(ex.RequestBody.Bytes()))
		}

		ex.ResponseBody = &bytes.Buffer{}

		next.ServeHTTP(httpsnoop.Wrap(w, hooks(&ex, w)), r)

		if ex.StatusCode == 0 {
			ex.StatusCode = http.StatusOK
			ex.Header = w.Header().Clone()
		}

		select {
		case b.Exchanges <- ex:
		default:
			// don't block if channel is full, just drop
		}
	})
}

// hooks records the status, headers, and body written to w into ex.
func hooks(ex *Exchange, w http.ResponseWriter) httpsnoop.Hooks {
	return httpsnoop.Hooks{
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				ex.ResponseBody.Write(b)
				return next(b)
			}
		},
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				if ex.StatusCode == 0 {
					ex.StatusCode = code
					ex.Header = w.Header().Clone()
				}
				next(code)
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				start := ex.ResponseBody.Len()
				if _, err := ex.ResponseBody.ReadFrom(src); err != nil {
					return 0, err
				}
				return next(bytes.NewReader(ex.ResponseBody.Bytes()[start:]))
			}
		},
	}
}
