// Package config loads a sywclient.Config from a YAML file, a .env file, and
// SYW_ prefixed environment variables.
//
// Sources are applied in that order, later ones winning:
//
//     token: my-token
//     app_secret: my-secret
//     base_url: https://platform.shopyourway.com
//     timeout: 10s
//     headers:
//       Accept: application/json
//
// is equivalent to
//
//     SYW_TOKEN=my-token
//     SYW_APP_SECRET=my-secret
//     SYW_BASE_URL=https://platform.shopyourway.com
//     SYW_TIMEOUT=10s
//     SYW_HEADERS__ACCEPT=application/json
//
// The result is applied to a Client with sywclient.WithConfig.
package config

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/ThalesGroup/sywclient"
	"github.com/ansel1/merry"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of the environment variables Load reads.
const EnvPrefix = "SYW_"

// DefaultEnvFile is read by Load when no env files are named.  It is
// optional.
const DefaultEnvFile = ".env"

type fileConfig struct {
	Token             string            `koanf:"token"`
	AppSecret         string            `koanf:"app_secret"`
	OfflineToken      string            `koanf:"offline_token"`
	OfflineHash       string            `koanf:"offline_hash"`
	BaseURL           string            `koanf:"base_url"`
	ConsumerKey       string            `koanf:"consumer_key"`
	ConsumerSecret    string            `koanf:"consumer_secret"`
	AccessTokenKey    string            `koanf:"access_token_key"`
	AccessTokenSecret string            `koanf:"access_token_secret"`
	Timeout           time.Duration     `koanf:"timeout"`
	Headers           map[string]string `koanf:"headers"`
}

// Load reads the configuration.  path names an optional YAML file; an empty
// path or a missing file is skipped.  envFiles are read with godotenv; if
// none are given, DefaultEnvFile is read if it exists.  Variables already
// set in the environment win over those in env files.
//
// The loaded values are merged over sywclient.DefaultConfig().
func Load(path string, envFiles ...string) (sywclient.Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return sywclient.Config{}, merry.Prependf(err, "loading %s", path)
		}
	}

	dotenv, err := readEnvFiles(envFiles)
	if err != nil {
		return sywclient.Config{}, err
	}
	for name, value := range dotenv {
		if strings.HasPrefix(name, EnvPrefix) {
			if err := k.Set(envKey(name), value); err != nil {
				return sywclient.Config{}, merry.Prependf(err, "setting %s", name)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return sywclient.Config{}, merry.Prepend(err, "loading environment")
	}

	var fc fileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return sywclient.Config{}, merry.Prepend(err, "decoding configuration")
	}

	return sywclient.DefaultConfig().Merge(fc.config()), nil
}

func readEnvFiles(names []string) (map[string]string, error) {
	optional := len(names) == 0
	if optional {
		names = []string{DefaultEnvFile}
	}
	vars, err := godotenv.Read(names...)
	switch {
	case err == nil:
		return vars, nil
	case optional && errors.Is(err, fs.ErrNotExist):
		return nil, nil
	}
	return nil, merry.Prependf(err, "reading %s", strings.Join(names, ", "))
}

// envKey maps SYW_APP_SECRET to app_secret, and SYW_HEADERS__X_TRACE to
// headers.x-trace.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	parts := strings.SplitN(key, "__", 2)
	if len(parts) == 2 && parts[0] == "headers" {
		return "headers." + strings.ReplaceAll(parts[1], "_", "-")
	}
	return strings.ReplaceAll(key, "__", ".")
}

func (fc fileConfig) config() sywclient.Config {
	cfg := sywclient.Config{
		Token:             fc.Token,
		AppSecret:         fc.AppSecret,
		OfflineToken:      fc.OfflineToken,
		OfflineHash:       fc.OfflineHash,
		BaseURL:           strings.TrimRight(fc.BaseURL, "/"),
		ConsumerKey:       fc.ConsumerKey,
		ConsumerSecret:    fc.ConsumerSecret,
		AccessTokenKey:    fc.AccessTokenKey,
		AccessTokenSecret: fc.AccessTokenSecret,
	}
	cfg.RequestOptions.Timeout = fc.Timeout
	if len(fc.Headers) > 0 {
		cfg.RequestOptions.Header = make(http.Header, len(fc.Headers))
		for name, value := range fc.Headers {
			cfg.RequestOptions.Header.Set(name, value)
		}
	}
	return cfg
}
