package httptestutil

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/ansel1/merry"
)

// ParseOAuth1Header decodes the parameters of an OAuth1 Authorization
// header, as the platform receives it.
func ParseOAuth1Header(h string) (map[string]string, error) {
	if !strings.HasPrefix(h, "OAuth ") {
		return nil, merry.Errorf("not an OAuth1 authorization header: %q", h)
	}
	params := map[string]string{}
	for _, field := range strings.Split(strings.TrimPrefix(h, "OAuth "), ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return nil, merry.Errorf("malformed oauth field %q", field)
		}
		v, err := url.PathUnescape(strings.Trim(kv[1], `"`))
		if err != nil {
			return nil, merry.Prependf(err, "decoding %s", kv[0])
		}
		params[kv[0]] = v
	}
	return params, nil
}

// OAuth1Signature recomputes the HMAC-SHA1 signature of a request received
// by a test server, the way the platform verifies it.  The base string covers
// the oauth_* header parameters, the query, and the fields of a form body.
// body is the raw request body, or nil.
func OAuth1Signature(r *http.Request, body []byte, consumerSecret, tokenSecret string) (string, error) {
	oauth, err := ParseOAuth1Header(r.Header.Get("Authorization"))
	if err != nil {
		return "", err
	}

	var pairs [][2]string
	add := func(k, v string) {
		pairs = append(pairs, [2]string{percentEncode(k), percentEncode(v)})
	}
	for k, v := range oauth {
		if k != "oauth_signature" && k != "realm" {
			add(k, v)
		}
	}
	for k, vs := range r.URL.Query() {
		for _, v := range vs {
			add(k, v)
		}
	}
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/x-www-form-urlencoded" {
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return "", merry.Prepend(err, "parsing form body")
		}
		for k, vs := range form {
			for _, v := range vs {
				add(k, v)
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	normalized := make([]string, len(pairs))
	for i, p := range pairs {
		normalized[i] = p[0] + "=" + p[1]
	}

	base := strings.Join([]string{
		strings.ToUpper(r.Method),
		percentEncode(baseURI(r)),
		percentEncode(strings.Join(normalized, "&")),
	}, "&")

	mac := hmac.New(sha1.New, []byte(percentEncode(consumerSecret)+"&"+percentEncode(tokenSecret)))
	_, _ = mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// baseURI is the scheme, host and path the client signed, rebuilt from the
// server side of the request.  Default ports are dropped.
func baseURI(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := strings.ToLower(r.Host)
	if h, port, ok := strings.Cut(host, ":"); ok && (port == "80" || port == "443") {
		host = h
	}
	path := r.URL.EscapedPath()
	return scheme + "://" + host + path
}

func percentEncode(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
