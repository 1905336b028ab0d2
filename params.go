package sywclient

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"

	"github.com/ansel1/merry"
	goquery "github.com/google/go-querystring/query"
)

// MediaKey is the reserved parameter that switches POST bodies to
// multipart/form-data.  Its presence alone decides the encoding, so it must
// not be used for anything but uploads.
const MediaKey = "media"

// Params is the parameter bag of a call.  Values may be strings, numbers,
// bools, fmt.Stringers, []string or []interface{} (sent as repeated keys).
// nil values are skipped.  In multipart bodies, File, *os.File, io.Reader
// and []byte values are sent as file parts.
type Params map[string]interface{}

// File is an upload with an explicit file name and content type.
type File struct {
	// Name is the file name sent in the part header.  Defaults to the
	// parameter name.
	Name string

	// ContentType defaults to application/octet-stream.
	ContentType string

	Content io.Reader
}

// ParamsFrom builds Params from url.Values, map[string]string,
// map[string][]string, map[string]interface{}, or a struct.
//
// Structs are encoded with the github.com/google/go-querystring/query
// package, so their members should carry "url" tags:
//
//     type ProductQuery struct {
//         IDs []string `url:"ids,comma"`
//     }
//
func ParamsFrom(v interface{}) (Params, error) {
	switch t := v.(type) {
	case nil:
		return Params{}, nil
	case Params:
		return t.clone(), nil
	case map[string]interface{}:
		return Params(t).clone(), nil
	case map[string]string:
		p := make(Params, len(t))
		for key, value := range t {
			p[key] = value
		}
		return p, nil
	case url.Values:
		return paramsFromValues(t), nil
	case map[string][]string:
		return paramsFromValues(url.Values(t)), nil
	default:
		values, err := goquery.Values(v)
		if err != nil {
			return nil, merry.Prepend(err, "invalid params struct")
		}
		return paramsFromValues(values), nil
	}
}

func paramsFromValues(values url.Values) Params {
	p := make(Params, len(values))
	for key, vs := range values {
		if len(vs) == 1 {
			p[key] = vs[0]
			continue
		}
		p[key] = append([]string(nil), vs...)
	}
	return p
}

// HasMedia reports whether p holds the media entry.
func (p Params) HasMedia() bool {
	_, ok := p[MediaKey]
	return ok
}

func (p Params) clone() Params {
	p2 := make(Params, len(p)+2)
	for key, value := range p {
		p2[key] = value
	}
	return p2
}

// keys returns the keys in sorted order, so encoded bodies are stable.
func (p Params) keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Values flattens p into url.Values.  File-like values are rejected: they
// can only be sent in a multipart body.
func (p Params) Values() (url.Values, error) {
	values := make(url.Values, len(p))
	for key, value := range p {
		if err := appendValue(values, key, value); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func appendValue(values url.Values, key string, v interface{}) error {
	switch t := v.(type) {
	case nil:
	case string:
		values.Add(key, t)
	case []string:
		for _, s := range t {
			values.Add(key, s)
		}
	case []interface{}:
		for _, e := range t {
			if err := appendValue(values, key, e); err != nil {
				return err
			}
		}
	case []byte:
		values.Add(key, string(t))
	case File, *File, *os.File, io.Reader:
		return merry.Errorf("parameter %q holds file content, which requires a multipart body (add a %q parameter)", key, MediaKey)
	case fmt.Stringer:
		values.Add(key, t.String())
	default:
		values.Add(key, fmt.Sprint(t))
	}
	return nil
}
