package sywclient

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Parameter names used for platform authentication.
const (
	ParamToken = "token"
	ParamHash  = "hash"
)

// GenerateHash returns the hash the platform expects alongside token: the
// hex SHA-256 digest of token followed by appSecret, fed to one hash in
// that order.
func GenerateHash(token, appSecret string) string {
	h := sha256.New()
	_, _ = io.WriteString(h, token)
	_, _ = io.WriteString(h, appSecret)
	return hex.EncodeToString(h.Sum(nil))
}

// credentials picks the authentication strategy for one call.  ok is false
// when neither a token nor an offline token is configured.
func (c Config) credentials() (token, hash string, ok bool) {
	switch {
	case c.Token != "":
		return c.Token, GenerateHash(c.Token, c.AppSecret), true
	case c.OfflineToken != "":
		return c.OfflineToken, c.OfflineHash, true
	}
	return "", "", false
}

// injectAuth returns a copy of params carrying the token and hash, if any.
// params itself is never modified.
func injectAuth(cfg Config, params Params) Params {
	p := params.clone()
	if token, hash, ok := cfg.credentials(); ok {
		p[ParamToken] = token
		p[ParamHash] = hash
	}
	return p
}
