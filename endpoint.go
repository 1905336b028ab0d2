package sywclient

import (
	"net/url"
	"strings"
)

// ResolveEndpoint returns the URL a call to path is sent to.
//
// An absolute path (one with a URL scheme) is used as is, and baseURL is
// ignored.  Otherwise path is appended to baseURL, with a "/" inserted
// if path does not start with one.  Trailing slashes are dropped from the
// result:
//
//     ResolveEndpoint("users/get", "https://platform.shopyourway.com")   // https://platform.shopyourway.com/users/get
//     ResolveEndpoint("/users/get/", "https://platform.shopyourway.com") // https://platform.shopyourway.com/users/get
//     ResolveEndpoint("https://other.io/x/", "https://platform.shopyourway.com") // https://other.io/x
//
func ResolveEndpoint(path, baseURL string) string {
	var endpoint string
	switch {
	case isAbsoluteURL(path):
		endpoint = path
	case strings.HasPrefix(path, "/"):
		endpoint = baseURL + path
	default:
		endpoint = baseURL + "/" + path
	}
	return strings.TrimRight(endpoint, "/")
}

func isAbsoluteURL(p string) bool {
	u, err := url.Parse(p)
	return err == nil && u.Scheme != ""
}
