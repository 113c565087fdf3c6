package wadc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Sink is the diagnostics channel handed to us by the host. The core only
// ever appends complete lines to it.
type Sink interface {
	Append(line string)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(line string)

func (f SinkFunc) Append(line string) { f(line) }

// LineBuffer is a Sink that keeps every line in memory
type LineBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *LineBuffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
}

// Lines returns a copy of the collected lines
func (b *LineBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// Reset drops all collected lines
func (b *LineBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// String joins the collected lines with newlines
func (b *LineBuffer) String() string {
	return strings.Join(b.Lines(), "\n")
}

// LogLevel represents the severity of a log message (higher value = higher severity)
type LogLevel int

const (
	LevelTrace  LogLevel = iota // Detailed tracing (requires enabled + category)
	LevelInfo                   // Informational messages (requires enabled + category)
	LevelDebug                  // Development debugging (requires enabled + category)
	LevelNotice                 // Notable events (always shown)
	LevelWarn                   // Warnings (always shown)
	LevelError                  // Runtime errors (always shown)
	LevelFatal                  // Parse/eval errors that abort a run (always shown)
)

// LogCategory represents the subsystem generating the message
type LogCategory string

const (
	CatNone     LogCategory = ""
	CatLex      LogCategory = "lex"
	CatParse    LogCategory = "parse"
	CatInclude  LogCategory = "include"
	CatEval     LogCategory = "eval"
	CatGeometry LogCategory = "geometry"
	CatWad      LogCategory = "wad"
	CatIO       LogCategory = "io"
	CatTool     LogCategory = "tool"
	CatApp      LogCategory = "app"
)

var allCategories = []LogCategory{CatLex, CatParse, CatInclude, CatEval, CatGeometry, CatWad, CatIO, CatTool, CatApp}

// ANSI color codes for terminal output
const (
	colorYellow = "\x1b[93m"
	colorReset  = "\x1b[0m"
)

// Logger handles logging for WadC
type Logger struct {
	mu                sync.Mutex
	enabled           bool
	enabledCategories map[LogCategory]bool
	out               io.Writer
	errOut            io.Writer
	sink              Sink
	colorEnabled      bool
}

// stderrSupportsColor checks if stderr is a terminal that supports color output
func stderrSupportsColor() bool {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return false
	}

	// Respect NO_COLOR environment variable (https://no-color.org/)
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	if t := os.Getenv("TERM"); t == "dumb" {
		return false
	}

	return true
}

// NewLogger creates a new logger writing to stdout/stderr
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled:           enabled,
		enabledCategories: make(map[LogCategory]bool),
		out:               os.Stdout,
		errOut:            os.Stderr,
		colorEnabled:      stderrSupportsColor(),
	}
}

// NewSinkLogger creates a logger that only reports to sink. Hosts that own
// their own message area (the editor) use this.
func NewSinkLogger(enabled bool, sink Sink) *Logger {
	return &Logger{
		enabled:           enabled,
		enabledCategories: make(map[LogCategory]bool),
		out:               io.Discard,
		errOut:            io.Discard,
		sink:              sink,
	}
}

// SetOutput redirects the direct writers. Color is disabled for anything
// that is not the process stderr.
func (l *Logger) SetOutput(out, errOut io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
	l.errOut = errOut
	l.colorEnabled = errOut == os.Stderr && stderrSupportsColor()
}

// SetSink attaches the diagnostics channel
func (l *Logger) SetSink(sink Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
}

// SetEnabled enables or disables debug logging
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// EnableCategory enables debug logging for a specific category
func (l *Logger) EnableCategory(cat LogCategory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabledCategories[cat] = true
}

// EnableAllCategories enables all categories for debug logging
func (l *Logger) EnableAllCategories() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, cat := range allCategories {
		l.enabledCategories[cat] = true
	}
}

func (l *Logger) shouldLog(level LogLevel, cat LogCategory) bool {
	switch level {
	case LevelFatal, LevelError, LevelWarn, LevelNotice:
		return true
	case LevelDebug, LevelInfo, LevelTrace:
		return l.enabled && (cat == CatNone || l.enabledCategories[cat])
	default:
		return false
	}
}

// Log is the unified logging method
func (l *Logger) Log(level LogLevel, cat LogCategory, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.shouldLog(level, cat) {
		return
	}

	catSuffix := ""
	if cat != CatNone {
		catSuffix = ":" + string(cat)
	}

	var prefix string
	switch level {
	case LevelTrace:
		prefix = fmt.Sprintf("[TRACE%s] ", catSuffix)
	case LevelInfo:
		prefix = fmt.Sprintf("[INFO%s] ", catSuffix)
	case LevelDebug:
		prefix = fmt.Sprintf("[DEBUG%s] ", catSuffix)
	case LevelWarn:
		prefix = "warning: "
	}

	output := prefix + message
	if l.sink != nil {
		l.sink.Append(output)
	}

	// Trace, Info, Debug and Notice go to stdout; Warn, Error, Fatal go to stderr
	if level <= LevelNotice {
		_, _ = fmt.Fprintln(l.out, output)
		return
	}
	if l.colorEnabled {
		_, _ = fmt.Fprintf(l.errOut, "%s%s%s\n", colorYellow, output, colorReset)
	} else {
		_, _ = fmt.Fprintln(l.errOut, output)
	}
}

// ErrorCat logs a categorized error message
func (l *Logger) ErrorCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelError, cat, fmt.Sprintf(format, args...))
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.Log(LevelWarn, CatNone, fmt.Sprintf(format, args...))
}

// WarnCat logs a categorized warning message
func (l *Logger) WarnCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelWarn, cat, fmt.Sprintf(format, args...))
}

// NoticeCat logs a categorized notice message
func (l *Logger) NoticeCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelNotice, cat, fmt.Sprintf(format, args...))
}

// DebugCat logs a categorized debug message
func (l *Logger) DebugCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelDebug, cat, fmt.Sprintf(format, args...))
}

// TraceCat logs a categorized trace message
func (l *Logger) TraceCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelTrace, cat, fmt.Sprintf(format, args...))
}

// LangError reports a fatal pipeline error. Anything that is not an *Error
// is reported as a plain error line.
func (l *Logger) LangError(err error) {
	var werr *Error
	if errors.As(err, &werr) {
		cat := CatEval
		switch werr.Kind.Class() {
		case ClassLex:
			cat = CatLex
		case ClassSyntax:
			cat = CatParse
		}
		l.Log(LevelFatal, cat, werr.Error())
		return
	}
	l.Log(LevelError, CatNone, err.Error())
}
