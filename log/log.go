// Package log holds the process wide zerolog logger used by kzgtool and
// handed to bindings instances.
package log

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"github.com/rs/zerolog"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"
)

var (
	log   zerolog.Logger
	logMu sync.RWMutex
)

func init() {
	// LOG_LEVEL applies to tests as well, which never call Init themselves.
	if err := Init(cmp.Or(os.Getenv("LOG_LEVEL"), LevelError), "stderr"); err != nil {
		panic(err)
	}
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return log
}

func setLogger(l zerolog.Logger) {
	logMu.Lock()
	log = l
	logMu.Unlock()
}

// ParseLevel maps one of the Level constants to a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel, nil
	case LevelInfo:
		return zerolog.InfoLevel, nil
	case LevelWarn:
		return zerolog.WarnLevel, nil
	case LevelError:
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("invalid log level: %q", level)
}

// Init replaces the global logger. output is "stdout", "stderr" or a file
// path that is appended to.
func Init(level, output string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("cannot create log output: %w", err)
		}
		out = f
	}
	InitWriter(lvl, zerolog.ConsoleWriter{Out: out, TimeFormat: RFC3339Milli})
	return nil
}

// InitWriter replaces the global logger with one writing to w.
func InitWriter(level zerolog.Level, w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return fmt.Sprintf("%s/%s:%d", path.Base(path.Dir(file)), path.Base(file), line)
	}
	setLogger(zerolog.New(w).With().Timestamp().Logger().Level(level))
}

// Level returns the name of the current log level.
func Level() string {
	switch Logger().GetLevel() {
	case zerolog.DebugLevel:
		return LevelDebug
	case zerolog.InfoLevel:
		return LevelInfo
	case zerolog.WarnLevel:
		return LevelWarn
	}
	return LevelError
}

// Debugw sends a debug level log message with key-value pairs.
func Debugw(msg string, keyvalues ...any) {
	l := Logger()
	l.Debug().Fields(keyvalues).Msg(msg)
}

// Infow sends an info level log message with key-value pairs.
func Infow(msg string, keyvalues ...any) {
	l := Logger()
	l.Info().Fields(keyvalues).Msg(msg)
}

// Warnw sends a warning level log message with key-value pairs.
func Warnw(msg string, keyvalues ...any) {
	l := Logger()
	l.Warn().Fields(keyvalues).Msg(msg)
}

// Errorw sends an error level log message for err.
func Errorw(err error, msg string) {
	l := Logger()
	l.Error().Err(err).Msg(msg)
}
