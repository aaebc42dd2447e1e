// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package rdapenv reads the RDAP_*/RDAP_SRV_* environment variable table
// (spec.md §6), both from the process environment and from an rdap.env
// dotenv-syntax file in the persisted config directory.
package rdapenv

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// Env is a resolved KEY=value environment: file-sourced values loaded
// first, then overridden by anything already set in the process
// environment (os.Getenv wins, matching how every other RDAP_* consumer in
// this codebase already treats the real environment as authoritative).
type Env struct {
	values map[string]string
}

// Load reads path (dotenv syntax: "KEY=value" lines, '#' comments, blank
// lines ignored) and layers the process environment on top. A missing
// file is not an error — it's the common case when no rdap.env exists.
func Load(path string) (*Env, error) {
	e := &Env{values: map[string]string{}}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else {
			defer f.Close()
			if err := e.parse(f); err != nil {
				return nil, err
			}
		}
	}

	return e, nil
}

func (e *Env) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)

		e.values[key] = value
	}
	return scanner.Err()
}

// Get returns key's value, preferring the real process environment over
// the loaded file, falling back to def if neither has it.
func (e *Env) Get(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	if v, ok := e.values[key]; ok {
		return v
	}
	return def
}

// GetBool parses key as a bool ("1"/"true"/"yes"/"on", case-insensitive, are
// true; "0"/"false"/"no"/"off" are false), defaulting to def if unset or
// any other value.
func (e *Env) GetBool(key string, def bool) bool {
	v := e.Get(key, "")
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// GetInt parses key as an int, defaulting to def if unset or unparseable.
func (e *Env) GetInt(key string, def int) int {
	v := e.Get(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetDuration parses key as a count of seconds, defaulting to def if unset
// or unparseable (every RDAP_*_SECS variable in §6 is a plain integer
// second count, not a Go duration string).
func (e *Env) GetDuration(key string, def int) int {
	return e.GetInt(key, def)
}
