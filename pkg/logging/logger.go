package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is a log verbosity level. Messages below the configured level are
// dropped.
type Level int

const (
	LevelVerbose Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "VERBOSE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel parses a level name, case insensitive. Unknown names map to
// LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "verbose", "trace":
		return LevelVerbose
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Logger writes leveled messages. INFO and below go to the info writer,
// WARN and ERROR to the error writer.
type Logger struct {
	mu      sync.RWMutex
	level   Level
	verbose bool
	info    *log.Logger
	err     *log.Logger
}

// New creates a logger writing to info and errOut.
func New(info, errOut io.Writer, level Level, verbose bool) *Logger {
	l := &Logger{level: level, verbose: verbose}
	l.info = log.New(info, "", flags(verbose))
	l.err = log.New(errOut, "", flags(verbose))
	return l
}

func flags(verbose bool) int {
	if verbose {
		return log.Ldate | log.Ltime | log.Lshortfile
	}
	return log.Ldate | log.Ltime
}

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	std              = New(stdout, stderr, LevelInfo, false)
)

// InitLogging initializes logging
func InitLogging(level Level, verbose bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
	std.verbose = verbose
	std.info.SetFlags(flags(verbose))
	std.err.SetFlags(flags(verbose))
}

// Default returns the process logger.
func Default() *Logger { return std }

// SetLevel changes the minimum level that is written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level returns the minimum level that is written.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level()
}

// SetOutput redirects both writers, mostly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.info.SetOutput(w)
	l.err.SetOutput(w)
}

func (l *Logger) logf(depth int, level Level, format string, v ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	out := l.info
	if level >= LevelWarn {
		out = l.err
	}
	out.Output(depth+1, level.String()+": "+fmt.Sprintf(format, v...))
}

func (l *Logger) Verbosef(format string, v ...interface{}) { l.logf(2, LevelVerbose, format, v...) }
func (l *Logger) Debugf(format string, v ...interface{})   { l.logf(2, LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...interface{})    { l.logf(2, LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})    { l.logf(2, LevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...interface{})   { l.logf(2, LevelError, format, v...) }

// Verbosef logs verbose level messages
func Verbosef(format string, v ...interface{}) { std.logf(2, LevelVerbose, format, v...) }

// Debugf logs debug level messages
func Debugf(format string, v ...interface{}) { std.logf(2, LevelDebug, format, v...) }

// Infof logs info level messages
func Infof(format string, v ...interface{}) { std.logf(2, LevelInfo, format, v...) }

// Warnf logs warning level messages
func Warnf(format string, v ...interface{}) { std.logf(2, LevelWarn, format, v...) }

// Errorf logs error level messages
func Errorf(format string, v ...interface{}) { std.logf(2, LevelError, format, v...) }
