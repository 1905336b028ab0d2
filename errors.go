package sywclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ansel1/merry"
)

// Kind classifies the outcome of a call.  Failure kinds are listed in the
// order the response reduction detects them.
type Kind int

// Outcome kinds.
const (
	// KindNone is a successful call.
	KindNone Kind = iota
	// KindRequest means the request could not be built, so nothing was sent.
	KindRequest
	// KindTransport is a network or connection failure reported by the Doer.
	KindTransport
	// KindParse means the response body was not valid JSON.
	KindParse
	// KindAPI means the decoded body carried an "errors" field.
	KindAPI
	// KindHTTPStatus means the status code was outside 200-299.
	KindHTTPStatus
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRequest:
		return "request"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindAPI:
		return "api"
	case KindHTTPStatus:
		return "http_status"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ErrUnsupportedMethod is returned for methods other than GET and POST.
// nolint:gochecknoglobals
var ErrUnsupportedMethod = merry.New("unsupported method")

type kindKey struct{}

func withKind(err error, k Kind) error {
	return merry.WithValue(err, kindKey{}, k)
}

// KindOf returns the kind of an error returned by a Client.  It returns
// KindNone for nil, and KindTransport for errors it has no record of.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return KindAPI
	}
	if k, ok := merry.Value(err, kindKey{}).(Kind); ok {
		return k
	}
	return KindTransport
}

// IsTransport reports whether err is a network or connection failure.
// merry.Unwrap(err) returns the error reported by the transport.
func IsTransport(err error) bool { return err != nil && KindOf(err) == KindTransport }

// IsParse reports whether err is an invalid JSON response body.
func IsParse(err error) bool { return KindOf(err) == KindParse }

// IsAPI reports whether err is an error payload returned by the platform.
func IsAPI(err error) bool { return KindOf(err) == KindAPI }

// IsHTTPStatus reports whether err is an unsuccessful HTTP status.
func IsHTTPStatus(err error) bool { return KindOf(err) == KindHTTPStatus }

// HTTPCode returns the status code attached to err, or 500 if none is.
func HTTPCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return apiErr.StatusCode
	}
	return merry.HTTPCode(err)
}

// APIError is returned when the platform answers with an "errors" field,
// whatever the HTTP status.  Errors holds that field exactly as decoded,
// typically a []interface{} of messages.
type APIError struct {
	Errors     interface{}
	StatusCode int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if msgs := e.Messages(); len(msgs) > 0 {
		return "api error: " + strings.Join(msgs, "; ")
	}
	b, err := json.Marshal(e.Errors)
	if err != nil {
		return fmt.Sprintf("api error: %v", e.Errors)
	}
	return "api error: " + string(b)
}

// Messages returns the error strings of the payload, when the payload is a
// string or a list of strings.  Other shapes return nil; use Errors.
func (e *APIError) Messages() []string {
	switch t := e.Errors.(type) {
	case string:
		return []string{t}
	case []interface{}:
		msgs := make([]string, 0, len(t))
		for _, m := range t {
			s, ok := m.(string)
			if !ok {
				return nil
			}
			msgs = append(msgs, s)
		}
		return msgs
	}
	return nil
}

// statusLine renders "<code> <reason>", e.g. "404 Not Found".
func statusLine(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
