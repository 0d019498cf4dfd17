// Package logger provides named, leveled loggers backed by go-logging. Every engine package
// creates its own module logger via New so output can be filtered per module.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

// Level is a logging verbosity threshold.
type Level int

// The levels accepted by SetLevel, from most to least verbose.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level:.4s}]%{color:reset} %{message}`,
)

var (
	mu             sync.Mutex
	leveledBackend logging.LeveledBackend
)

// Logger is the leveled logging interface used throughout the engine.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)

	Info(args ...any)
	Infof(format string, args ...any)

	Notice(args ...any)
	Noticef(format string, args ...any)

	Warning(args ...any)
	Warningf(format string, args ...any)

	Error(args ...any)
	Errorf(format string, args ...any)
}

func init() {
	SetSink(os.Stderr)
}

// New creates a logger for the named module.
//
// Parameters:
//   - module: the module name printed with every record (e.g. "render")
//
// Returns:
//   - Logger: the module logger
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink redirects all engine log output to the given writer. The current level is kept.
//
// Parameters:
//   - sink: the destination for formatted log records
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	level := logging.INFO
	if leveledBackend != nil {
		level = leveledBackend.GetLevel("")
	}
	backend := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	leveledBackend = logging.AddModuleLevel(backend)
	leveledBackend.SetLevel(level, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the verbosity for every module.
//
// Parameters:
//   - level: the minimum level that will be emitted
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()

	leveledBackend.SetLevel(toLogging(level), "")
}

// ParseLevel converts a level name ("debug", "info", "notice", "warning", "error") to a Level.
// Unknown names resolve to Info.
//
// Parameters:
//   - name: the case-insensitive level name
//
// Returns:
//   - Level: the parsed level
//   - bool: false if the name was not recognized
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return Debug, true
	case "info":
		return Info, true
	case "notice":
		return Notice, true
	case "warn", "warning":
		return Warning, true
	case "error":
		return Error, true
	}
	return Info, false
}

func toLogging(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Notice:
		return logging.NOTICE
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.INFO
	}
}
