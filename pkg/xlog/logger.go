// Package xlog is the leveled logger used across logcabin's client and
// storage packages: one Logger per package, level filtering, and a
// CRITICAL path that panics with the message it just logged. Nothing
// else in this module needs more than that, so no external logging
// library is pulled in for it.
package xlog

import (
	"fmt"
	"os"
	"sync"
)

// Level is the set of all log levels, ordered from most to least severe.
type Level int8

const (
	// CRITICAL logs and then panics. The client-leader RPC engine uses
	// this for the fatal statuses in client.Status (protocol version
	// mismatch, malformed request, unparseable response, unknown
	// status byte).
	CRITICAL Level = iota - 1

	// ERROR indicates a problem that does not halt the caller.
	ERROR

	// WARN flags a condition worth a human's attention but not
	// necessarily a bug, e.g. a retry loop running longer than usual.
	WARN

	// INFO is routine operational logging.
	INFO

	// DEBUG is verbose logging, hidden unless explicitly enabled.
	DEBUG
)

// String returns a single-character label for the level.
func (l Level) String() string {
	switch l {
	case CRITICAL:
		return "C"
	case ERROR:
		return "E"
	case WARN:
		return "W"
	case INFO:
		return "I"
	case DEBUG:
		return "D"
	default:
		panic("xlog: unknown level")
	}
}

// Logger writes leveled log lines tagged with a package name.
type Logger struct {
	pkg    string
	maxLvl Level
}

// NewLogger returns a Logger tagged with pkg and registers it globally
// so SetGlobalMaxLevel and GetLogger can find it later.
func NewLogger(pkg string, maxLvl Level) *Logger {
	lg := &Logger{pkg: pkg, maxLvl: maxLvl}

	registry.mu.Lock()
	registry.loggers[pkg] = lg
	registry.mu.Unlock()

	return lg
}

// GetLogger returns the Logger registered under name, if any.
func GetLogger(name string) (*Logger, bool) {
	registry.mu.Lock()
	lg, ok := registry.loggers[name]
	registry.mu.Unlock()
	return lg, ok
}

// SetMaxLevel changes the level at or below which l emits lines.
func (l *Logger) SetMaxLevel(lvl Level) {
	registry.mu.Lock()
	l.maxLvl = lvl
	registry.mu.Unlock()
}

// SetGlobalMaxLevel applies lvl to every registered Logger.
func SetGlobalMaxLevel(lvl Level) {
	registry.mu.Lock()
	for _, lg := range registry.loggers {
		lg.maxLvl = lvl
	}
	registry.mu.Unlock()
}

func (l *Logger) log(lvl Level, txt string) {
	if lvl < CRITICAL || lvl > DEBUG {
		return
	}

	registry.mu.Lock()
	if l.maxLvl < lvl {
		registry.mu.Unlock()
		return
	}
	registry.formatter.WriteFlush(l.pkg, lvl, txt)
	registry.mu.Unlock()
}

// Panic logs at CRITICAL and panics with the same text.
func (l *Logger) Panic(args ...interface{}) {
	txt := fmt.Sprint(args...)
	l.log(CRITICAL, txt)
	panic(txt)
}

// Panicf is Panic with fmt.Sprintf formatting.
func (l *Logger) Panicf(format string, args ...interface{}) {
	txt := fmt.Sprintf(format, args...)
	l.log(CRITICAL, txt)
	panic(txt)
}

// Fatal logs at CRITICAL and exits the process. Prefer Panic in library
// code so tests can recover(); Fatal is for cmd/ entry points.
func (l *Logger) Fatal(args ...interface{}) {
	txt := fmt.Sprint(args...)
	l.log(CRITICAL, txt)
	os.Exit(1)
}

func (l *Logger) Fatalf(format string, args ...interface{}) {
	txt := fmt.Sprintf(format, args...)
	l.log(CRITICAL, txt)
	os.Exit(1)
}

func (l *Logger) Error(args ...interface{})               { l.log(ERROR, fmt.Sprint(args...)) }
func (l *Logger) Errorf(format string, a ...interface{})  { l.log(ERROR, fmt.Sprintf(format, a...)) }
func (l *Logger) Warning(args ...interface{})              { l.log(WARN, fmt.Sprint(args...)) }
func (l *Logger) Warningf(format string, a ...interface{}) { l.log(WARN, fmt.Sprintf(format, a...)) }
func (l *Logger) Info(args ...interface{})                 { l.log(INFO, fmt.Sprint(args...)) }
func (l *Logger) Infof(format string, a ...interface{})    { l.log(INFO, fmt.Sprintf(format, a...)) }
func (l *Logger) Println(args ...interface{})              { l.log(INFO, fmt.Sprintln(args...)) }
func (l *Logger) Debug(args ...interface{})                { l.log(DEBUG, fmt.Sprint(args...)) }
func (l *Logger) Debugf(format string, a ...interface{})   { l.log(DEBUG, fmt.Sprintf(format, a...)) }
func (l *Logger) Debugln(args ...interface{})              { l.log(DEBUG, fmt.Sprintln(args...)) }

type loggerRegistry struct {
	mu        sync.Mutex
	loggers   map[string]*Logger
	formatter Formatter
}

var registry = &loggerRegistry{
	loggers:   make(map[string]*Logger),
	formatter: NewDefaultFormatter(os.Stderr),
}

// SetFormatter changes how every Logger renders its lines.
func SetFormatter(f Formatter) {
	registry.mu.Lock()
	registry.formatter = f
	registry.mu.Unlock()
}
