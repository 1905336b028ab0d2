package sywclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ansel1/merry"
)

// Request bodies are produced by Marshalers and response bodies decoded by
// an Unmarshaler.  The Client picks the Marshaler from the Payload kind:
// FormMarshaler for plain POSTs, MultipartMarshaler when the media
// parameter is present.  Response bodies are always decoded as JSON,
// whatever their Content-Type.

// DefaultUnmarshaler is used by the Client unless WithUnmarshaler is applied.
// nolint:gochecknoglobals
var DefaultUnmarshaler Unmarshaler = &JSONUnmarshaler{}

// Marshaler marshals values into a []byte.
//
// The content type returned is used as the request's Content-Type header.
type Marshaler interface {
	Marshal(v interface{}) (data []byte, contentType string, err error)
}

// Unmarshaler unmarshals a []byte response body into a value.  It is provided
// the value of the Content-Type header from the response.
type Unmarshaler interface {
	Unmarshal(data []byte, contentType string, v interface{}) error
}

// UnmarshalFunc adapts a function to the Unmarshaler interface.
type UnmarshalFunc func(data []byte, contentType string, v interface{}) error

// Apply implements Option.  UnmarshalFunc can be passed to New(), which
// installs it as the response Unmarshaler.
func (f UnmarshalFunc) Apply(c *Client) error {
	c.unmarshaler = f
	return nil
}

// Unmarshal implements the Unmarshaler interface.
func (f UnmarshalFunc) Unmarshal(data []byte, contentType string, v interface{}) error {
	return f(data, contentType, v)
}

// JSONUnmarshaler implements Unmarshaler.  If UseNumber is true, numbers
// are decoded as json.Number rather than float64.
type JSONUnmarshaler struct {
	UseNumber bool
}

// Unmarshal implements Unmarshaler.
func (m *JSONUnmarshaler) Unmarshal(data []byte, _ string, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if m.UseNumber {
		dec.UseNumber()
	}
	if err := dec.Decode(v); err != nil {
		return merry.Wrap(err)
	}
	// reject trailing garbage, as json.Unmarshal does
	if _, err := dec.Token(); err != io.EOF {
		return merry.New("invalid character after top-level value")
	}
	return nil
}

// Apply implements Option.
func (m *JSONUnmarshaler) Apply(c *Client) error {
	c.unmarshaler = m
	return nil
}

// FormMarshaler implements Marshaler.  It marshals values into URL-Encoded form data.
//
// The value can be Params, url.Values, map[string][]string, map[string]string,
// or a struct with `url` tags.
//
// The content type is the bare media type, without a charset: OAuth1 signing
// only covers the fields of bodies typed exactly application/x-www-form-urlencoded.
type FormMarshaler struct{}

// Marshal implements Marshaler.
func (*FormMarshaler) Marshal(v interface{}) (data []byte, contentType string, err error) {
	params, err := asParams(v)
	if err != nil {
		return nil, "", err
	}
	values, err := params.Values()
	if err != nil {
		return nil, "", err
	}
	return []byte(values.Encode()), MediaTypeForm, nil
}

// MultipartMarshaler implements Marshaler.  It marshals values into a
// multipart/form-data body.  File, *os.File, io.Reader and []byte values
// become file parts.  Everything else becomes a plain field.
type MultipartMarshaler struct {
	// Boundary, if set, replaces the random part boundary.
	Boundary string
}

// Marshal implements Marshaler.
func (m *MultipartMarshaler) Marshal(v interface{}) (data []byte, contentType string, err error) {
	params, err := asParams(v)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if m.Boundary != "" {
		if err := w.SetBoundary(m.Boundary); err != nil {
			return nil, "", merry.Prepend(err, "invalid multipart boundary")
		}
	}

	for _, key := range params.keys() {
		if err := writePart(w, key, params[key]); err != nil {
			return nil, "", merry.Prependf(err, "writing part %q", key)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", merry.Wrap(err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func asParams(v interface{}) (Params, error) {
	if p, ok := v.(Params); ok {
		return p, nil
	}
	return ParamsFrom(v)
}

func writePart(w *multipart.Writer, key string, v interface{}) error {
	switch t := v.(type) {
	case nil:
		return nil
	case File:
		return writeFile(w, key, t)
	case *File:
		if t == nil {
			return nil
		}
		return writeFile(w, key, *t)
	case *os.File:
		return writeFile(w, key, File{Name: filepath.Base(t.Name()), Content: t})
	case io.Reader:
		return writeFile(w, key, File{Content: t})
	case []byte:
		return writeFile(w, key, File{Content: bytes.NewReader(t)})
	}

	values := url.Values{}
	if err := appendValue(values, key, v); err != nil {
		return err
	}
	for _, value := range values[key] {
		if err := w.WriteField(key, value); err != nil {
			return merry.Wrap(err)
		}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(w *multipart.Writer, key string, f File) error {
	if f.Content == nil {
		return merry.New("file has no content")
	}
	name := f.Name
	if name == "" {
		name = key
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = MediaTypeOctet
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(key), quoteEscaper.Replace(name)))
	h.Set(HeaderContentType, contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return merry.Wrap(err)
	}
	if _, err := io.Copy(part, f.Content); err != nil {
		return merry.Prepend(err, "copying file content")
	}
	return nil
}
