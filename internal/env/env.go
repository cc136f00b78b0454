// Package env abstracts environment-variable lookups so credential checks
// can run against a fake environment in tests.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// Provider looks up environment values.
type Provider interface {
	Lookup(key string) (string, bool)
}

// OS reads the process environment.
type OS struct{}

// Lookup implements Provider.
func (OS) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// Map is a fixed environment, used for dotenv files and tests.
type Map map[string]string

// Lookup implements Provider.
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Chain consults each provider in order and returns the first hit.
type Chain []Provider

// Lookup implements Provider.
func (c Chain) Lookup(key string) (string, bool) {
	for _, p := range c {
		if v, ok := p.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// NonEmpty reports whether key is set to a non-empty value.
func NonEmpty(p Provider, key string) bool {
	v, ok := p.Lookup(key)
	return ok && v != ""
}

// ReadFile parses a dotenv file without touching the process environment.
// A missing file yields an empty Map when optional is true.
func ReadFile(path string, optional bool) (Map, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Map{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return Map(vals), nil
}

// Environ returns the process environment plus the entries of file whose
// keys the process does not define, in "KEY=value" form for exec.Cmd.Env.
func Environ(file Map) []string {
	out := os.Environ()
	keys := make([]string, 0, len(file))
	for k := range file {
		if _, ok := os.LookupEnv(k); !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+file[k])
	}
	return out
}
