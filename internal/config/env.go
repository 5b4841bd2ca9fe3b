package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Env looks up environment variables. Compose reads through an Env rather
// than the process environment so callers control what it sees.
type Env interface {
	Lookup(key string) (string, bool)
}

// EnvFunc adapts a lookup function to Env.
type EnvFunc func(key string) (string, bool)

// Lookup implements Env.
func (f EnvFunc) Lookup(key string) (string, bool) { return f(key) }

// OSEnv reads the process environment.
var OSEnv Env = EnvFunc(os.LookupEnv)

// MapEnv is a fixed set of variables.
type MapEnv map[string]string

// Lookup implements Env.
func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// LayeredEnv consults each Env in order; the first hit wins.
type LayeredEnv []Env

// Lookup implements Env.
func (l LayeredEnv) Lookup(key string) (string, bool) {
	for _, env := range l {
		if env == nil {
			continue
		}
		if v, ok := env.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// LoadEnvFile reads KEY=VALUE pairs from a dotenv file without touching the
// process environment.
func LoadEnvFile(path string) (MapEnv, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return MapEnv(vals), nil
}

// String returns the value of key, or def when it is unset.
func String(env Env, key, def string) string {
	if env == nil {
		return def
	}
	if v, ok := env.Lookup(key); ok {
		return v
	}
	return def
}

var lower = cases.Lower(language.Und)

// Bool reports whether key is set to "true" or "1", compared case-insensitively.
// Unset and any other value are false.
func Bool(env Env, key string) bool {
	switch lower.String(String(env, key, "")) {
	case "true", "1":
		return true
	default:
		return false
	}
}
