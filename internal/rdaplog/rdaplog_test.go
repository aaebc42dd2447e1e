// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdaplog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Warn)

	l.Debugf("debug message")
	l.Infof("info message")
	l.Warnf("warn message")
	l.Errorf("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected debug/info to be suppressed at Warn level, got: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn/error to be logged, got: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":  Debug,
		"INFO":   Info,
		"warn":   Warn,
		"error":  Error,
		"silent": Silent,
		"bogus":  Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestVerboseFunc(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Debug)

	l.VerboseFunc()("client: fetching https://rdap.example/domain/foo")

	if !strings.Contains(buf.String(), "client: fetching") {
		t.Errorf("expected message to be logged, got: %s", buf.String())
	}
}
