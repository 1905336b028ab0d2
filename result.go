package sywclient

import (
	"net/http"

	"github.com/ansel1/merry"
)

// Callback receives the outcome of a call: err is nil on success.  data is
// the decoded body, and resp is the raw response (nil if none was received).
type Callback func(err error, data interface{}, resp *http.Response)

// Result is the normalized outcome of one call.
type Result struct {
	// Kind is KindNone on success.
	Kind Kind

	// Data is the decoded JSON body, or an empty map for an empty body.
	// When the body could not be decoded, it is the raw body as a string.
	Data interface{}

	// Body is the raw response body.
	Body []byte

	// Response is the raw response.  Its body has already been read, but
	// can be read again.
	Response *http.Response

	Err error

	unmarshaler Unmarshaler
}

// OK reports whether the call succeeded.
func (r *Result) OK() bool {
	return r.Err == nil
}

// Decode unmarshals the raw body into v.  An empty body leaves v untouched.
func (r *Result) Decode(v interface{}) error {
	if len(r.Body) == 0 {
		return nil
	}
	u := r.unmarshaler
	if u == nil {
		u = DefaultUnmarshaler
	}
	return u.Unmarshal(r.Body, contentType(r.Response), v)
}

func (r *Result) values() (interface{}, *http.Response, error) {
	return r.Data, r.Response, r.Err
}

func (r *Result) deliver(cb Callback) {
	cb(r.Err, r.Data, r.Response)
}

// reduce turns the raw outcome of a call into a Result.  Checks run in a
// fixed order, and the first failure wins: transport error, undecodable
// body, "errors" field, then status code.
func (c *Client) reduce(resp *http.Response, body []byte, err error) *Result {
	r := &Result{Body: body, Response: resp, unmarshaler: c.unmarshaler}

	if err != nil {
		r.Kind = KindTransport
		r.Err = withKind(err, KindTransport)
		if body != nil {
			r.Data = string(body)
		}
		return r
	}

	// an empty body is a valid, empty result
	var data interface{}
	if len(body) == 0 {
		data = map[string]interface{}{}
	} else if uerr := c.unmarshaler.Unmarshal(body, contentType(resp), &data); uerr != nil {
		r.Kind = KindParse
		r.Data = string(body)
		perr := merry.Errorf("JSON parseError with HTTP Status: %s", statusLine(resp))
		perr = merry.WithHTTPCode(perr, statusCode(resp))
		r.Err = withKind(perr, KindParse)
		return r
	}
	r.Data = data

	if obj, ok := data.(map[string]interface{}); ok {
		if errs, found := obj["errors"]; found {
			r.Kind = KindAPI
			r.Err = &APIError{Errors: errs, StatusCode: statusCode(resp)}
			return r
		}
	}

	if code := statusCode(resp); code < 200 || code > 299 {
		r.Kind = KindHTTPStatus
		serr := merry.Errorf("HTTP Error: %s", statusLine(resp))
		serr = merry.WithHTTPCode(serr, code)
		r.Err = withKind(serr, KindHTTPStatus)
		return r
	}

	return r
}

func contentType(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	return resp.Header.Get(HeaderContentType)
}
