package sywclient

import (
	"bytes"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ansel1/merry"
)

// Inspector is a Client Option which captures requests and responses.
// It's useful for inspecting the contents of exchanges in tests.
//
// It not an efficient way to capture bodies, and keeps requests
// and responses around longer than their intended lifespan, so it
// should not be used in production code or benchmarks.
type Inspector struct {
	mu sync.Mutex

	// The last request sent by the client.
	Request *http.Request

	// The last response received by the client.
	Response *http.Response

	// The last client request body
	RequestBody *bytes.Buffer

	// The last client response body
	ResponseBody *bytes.Buffer
}

// Clear clears the inspector's fields.
func (i *Inspector) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.RequestBody = nil
	i.ResponseBody = nil
	i.Request = nil
	i.Response = nil
}

// Apply implements Option
func (i *Inspector) Apply(c *Client) error {
	return Middleware(i.MiddlewareFunc).Apply(c)
}

// MiddlewareFunc implements Middleware
func (i *Inspector) MiddlewareFunc(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		var reqBuf *bytes.Buffer
		// capture the body
		if req.Body != nil {
			reqBody, _ := ioutil.ReadAll(req.Body)
			req.Body.Close()
			req.Body = ioutil.NopCloser(bytes.NewReader(reqBody))
			reqBuf = bytes.NewBuffer(reqBody)
		}
		resp, err := next.Do(req)
		var respBuf *bytes.Buffer
		if resp != nil && resp.Body != nil {
			respBody, _ := ioutil.ReadAll(resp.Body)
			resp.Body.Close()
			resp.Body = ioutil.NopCloser(bytes.NewReader(respBody))
			respBuf = bytes.NewBuffer(respBody)
		}

		i.mu.Lock()
		i.Request, i.RequestBody = req, reqBuf
		i.Response, i.ResponseBody = resp, respBuf
		i.mu.Unlock()

		return resp, err
	})
}

// Params decodes the parameters of the last request, wherever they were
// placed: the query string for GET, the form or multipart body for POST.
// File parts are returned as their content.
func (i *Inspector) Params() (url.Values, error) {
	i.mu.Lock()
	req, body := i.Request, i.RequestBody
	i.mu.Unlock()

	if req == nil {
		return nil, merry.New("no request captured")
	}
	values := req.URL.Query()
	if body == nil {
		return values, nil
	}

	mediaType, typeParams, err := mime.ParseMediaType(req.Header.Get(HeaderContentType))
	if err != nil {
		return values, nil
	}
	switch {
	case mediaType == MediaTypeForm:
		form, err := url.ParseQuery(body.String())
		if err != nil {
			return nil, merry.Prepend(err, "parsing form body")
		}
		for key, vs := range form {
			values[key] = append(values[key], vs...)
		}
	case strings.HasPrefix(mediaType, "multipart/"):
		form, err := multipart.NewReader(bytes.NewReader(body.Bytes()), typeParams["boundary"]).ReadForm(32 << 20)
		if err != nil {
			return nil, merry.Prepend(err, "parsing multipart body")
		}
		defer form.RemoveAll()
		for key, vs := range form.Value {
			values[key] = append(values[key], vs...)
		}
		for key, files := range form.File {
			for _, fh := range files {
				f, err := fh.Open()
				if err != nil {
					return nil, merry.Wrap(err)
				}
				content, err := ioutil.ReadAll(f)
				f.Close()
				if err != nil {
					return nil, merry.Wrap(err)
				}
				values[key] = append(values[key], string(content))
			}
		}
	}
	return values, nil
}
