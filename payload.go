package sywclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ansel1/merry"
)

// Supported methods.
const (
	MethodGet  = http.MethodGet
	MethodPost = http.MethodPost
)

// PayloadKind says where a call's params travel.
type PayloadKind int

// Payload kinds.
const (
	QueryPayload PayloadKind = iota
	FormPayload
	MultipartPayload
)

func (k PayloadKind) String() string {
	switch k {
	case QueryPayload:
		return "query"
	case FormPayload:
		return "form"
	case MultipartPayload:
		return "multipart"
	}
	return "unknown"
}

// Payload is the placement of a call's params on the wire.
type Payload struct {
	Method string
	Kind   PayloadKind
	Params Params
}

// NewPayload decides where params go for method, which must be GET or
// POST in any case.  GET params go in the query string.  POST params go in a
// form-urlencoded body, or a multipart body if the media parameter is
// present.
//
// Any other method returns an error matching ErrUnsupportedMethod.
func NewPayload(method string, params Params) (Payload, error) {
	p := Payload{Method: strings.ToUpper(method), Params: params}
	switch p.Method {
	case MethodGet:
		p.Kind = QueryPayload
	case MethodPost:
		p.Kind = FormPayload
		if params.HasMedia() {
			p.Kind = MultipartPayload
		}
	default:
		return Payload{}, merry.Appendf(ErrUnsupportedMethod, "%q", method)
	}
	return p, nil
}

// Query returns the query parameters of a QueryPayload.  It is empty for
// other kinds.
func (p Payload) Query() (url.Values, error) {
	if p.Kind != QueryPayload {
		return url.Values{}, nil
	}
	return p.Params.Values()
}

// Body marshals the request body and returns it with its content type.  A
// QueryPayload has no body, and returns a nil reader.
func (p Payload) Body() (io.Reader, string, error) {
	var m Marshaler
	switch p.Kind {
	case FormPayload:
		m = &FormMarshaler{}
	case MultipartPayload:
		m = &MultipartMarshaler{}
	default:
		return nil, "", nil
	}
	b, ct, err := m.Marshal(p.Params)
	if err != nil {
		return nil, "", merry.Prependf(err, "encoding %s body", p.Kind)
	}
	return bytes.NewReader(b), ct, nil
}

// Request builds the *http.Request a call sends, without sending it.  The
// configured token and hash are injected into a copy of params.
func (c *Client) Request(ctx context.Context, method, path string, params Params) (*http.Request, error) {
	return c.newRequest(ctx, method, path, params)
}

func (c *Client) newRequest(ctx context.Context, method, path string, params Params) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	payload, err := NewPayload(method, injectAuth(c.config, params))
	if err != nil {
		return nil, err
	}

	body, contentType, err := payload.Body()
	if err != nil {
		return nil, err
	}

	endpoint := ResolveEndpoint(path, c.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, payload.Method, endpoint, body)
	if err != nil {
		return nil, merry.Prepend(err, "invalid endpoint")
	}

	// copy Headers pairs into new Header map
	for k, v := range c.config.RequestOptions.Header {
		req.Header[k] = append([]string(nil), v...)
	}

	// the marshaled content type always wins: it carries the multipart boundary
	if contentType != "" {
		req.Header.Set(HeaderContentType, contentType)
	}

	query, err := payload.Query()
	if err != nil {
		return nil, merry.Prepend(err, "encoding query")
	}
	if len(query) > 0 {
		if req.URL.RawQuery != "" {
			existingValues := req.URL.Query()
			for key, value := range query {
				for _, v := range value {
					existingValues.Add(key, v)
				}
			}
			req.URL.RawQuery = existingValues.Encode()
		} else {
			req.URL.RawQuery = query.Encode()
		}
	}

	return req, nil
}
