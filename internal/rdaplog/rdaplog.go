// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package rdaplog is a minimal leveled wrapper over the standard library's
// log.Logger, for RDAP_LOG/RDAP_SRV_LOG. It deliberately doesn't reach for
// a structured-logging library: the client's own verbose output is a plain
// func(string) callback (see Client.Verbose), and the server's log volume
// and audience (an operator's terminal/syslog, not a log aggregator) don't
// warrant more.
package rdaplog

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Level is a log verbosity threshold, lowest-to-highest severity.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
	// Silent suppresses all output.
	Silent
)

// ParseLevel parses the RDAP_LOG/RDAP_SRV_LOG values ("debug", "info",
// "warn", "error", "silent"), defaulting to Info for anything else.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return Debug
	case "info":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	case "silent", "none", "off":
		return Silent
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Silent:
		return "SILENT"
	}
	return "UNKNOWN"
}

// Logger is a level-gated *log.Logger wrapper.
type Logger struct {
	level Level
	out   *log.Logger
}

// New creates a Logger writing to w, with threshold level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		level: level,
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.out.Printf("%s %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(Error, format, args...) }

// VerboseFunc adapts l to the func(string) shape Client.Verbose expects,
// logging at Debug level.
func (l *Logger) VerboseFunc() func(string) {
	return func(text string) {
		l.log(Debug, "%s", text)
	}
}
