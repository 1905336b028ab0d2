package sywclient

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"
)

// These are tools for writing tests.

// MockResponse creates an *http.Response with the status code and body, as
// the platform would send it.  Non-empty bodies get a JSON Content-Type.
func MockResponse(statusCode int, body string) *http.Response {
	h := http.Header{}
	if body != "" {
		h.Set(HeaderContentType, MediaTypeJSON)
	}
	h.Set("Content-Length", strconv.Itoa(len(body)))
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		StatusCode:    statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          ioutil.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// MockDoer creates a Doer which returns a mocked response, for writing tests.
// Each call gets a fresh response built with MockResponse.
func MockDoer(statusCode int, body string) DoerFunc {
	return func(req *http.Request) (*http.Response, error) {
		resp := MockResponse(statusCode, body)
		resp.Request = req
		return resp, nil
	}
}

// ErrorDoer creates a Doer which fails every request with err, the way a
// transport does on network failures.
func ErrorDoer(err error) DoerFunc {
	return func(req *http.Request) (*http.Response, error) {
		return nil, err
	}
}

// ChannelDoer returns a DoerFunc and a channel.  The DoerFunc will return the responses
// send on the channel.
func ChannelDoer() (chan<- *http.Response, DoerFunc) {
	input := make(chan *http.Response, 1)

	return input, func(req *http.Request) (*http.Response, error) {
		resp := <-input
		resp.Request = req
		return resp, nil
	}
}

// MockHandler returns an http.Handler which always responds with the status
// code and body.
func MockHandler(statusCode int, body string) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		if body != "" {
			writer.Header().Set(HeaderContentType, MediaTypeJSON)
		}
		writer.WriteHeader(statusCode)
		_, _ = io.WriteString(writer, body)
	})
}
