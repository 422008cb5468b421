// Package `logger` implements the leveled logging used across pairq.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"sync"
	"time"
)

type LogLevel int

const (
	LevelTrace LogLevel = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

var levelString = map[LogLevel]string{
	LevelTrace:   "  TRACE     ",
	LevelDebug:   "  DEBUG     ",
	LevelInfo:    "  INFO      ",
	LevelWarning: "  WARNING   ",
	LevelError:   "  ERROR  !  ",
	LevelFatal:   "  FATAL !!! ",
}

// A FormatFunc turns a message into a full log line (adding the level,
// a timestamp, etc.).
type FormatFunc func(msg string, lvl LogLevel) string

// DefaultFmt formats messages into the form:
// `LEVEL    Mon Jan 2 15:04:05 -0700 2006: message`
// with a newline at the end, without duplicating one the message already has.
func DefaultFmt(msg string, lvl LogLevel) string {
	logTime := time.Now().Format(time.RubyDate)
	for len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	return fmt.Sprintf("%v%v: %v\n", levelString[lvl], logTime, msg)
}

// A Logger writes formatted messages to its outputs, skipping any message
// below its configured level.
type Logger struct {
	level   LogLevel
	fmt     FormatFunc
	outputs []io.Writer
	mu      sync.Mutex
}

// DefaultLogger logs to stdout at LevelInfo with [DefaultFmt].
var (
	DefaultLogger = &Logger{
		level:   LevelInfo,
		fmt:     DefaultFmt,
		outputs: []io.Writer{os.Stdout},
	}
	currentLogger = DefaultLogger
)

// SetLogger sets the logger used by the package-level logging functions.
// Preferably set once, at the top level.
func SetLogger(logger *Logger) {
	currentLogger = logger
}

// NewLogger creates a logger that logs at the passed level to the passed
// writers. A nil `fmt` means [DefaultFmt].
func NewLogger(fmt FormatFunc, lvl LogLevel, writers ...io.Writer) *Logger {
	if fmt == nil {
		fmt = DefaultFmt
	}
	return &Logger{
		level:   lvl,
		fmt:     fmt,
		outputs: writers,
	}
}

// NewLoggerOutputs creates a logger from output names: "stdout", or a file
// path (relative paths resolve next to the executable). Invalid outputs are
// skipped with a complaint on the current logger, so the returned logger may
// end up writing nowhere.
func NewLoggerOutputs(level LogLevel, fmt FormatFunc, outputs ...string) *Logger {
	var outs []io.Writer
	execPath, execErr := os.Executable()
	execDir := path.Dir(execPath)
	for _, out := range outputs {
		if out == "stdout" {
			outs = append(outs, os.Stdout)
			continue
		}

		logPath := out
		if !path.IsAbs(out) {
			if execErr != nil {
				Errorf("logger: Cannot locate %v, don't know executable path. Will not log to this file.", out)
				continue
			}
			logPath = path.Join(execDir, out)
		}

		// If this fails, opening the file will fail and complain anyway.
		os.MkdirAll(path.Dir(logPath), os.ModePerm)

		logFile, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0660)
		if err != nil {
			Errorf("logger: Couldn't open/create log file at %v (%v). Will not log to this file.", out, err)
			continue
		}
		outs = append(outs, logFile)
	}
	return NewLogger(fmt, level, outs...)
}

// Log formats a message and writes it to the logger's outputs if the level
// is appropriate.
func (logger *Logger) Log(level LogLevel, msg string) {
	if logger.level > level {
		return
	}
	// Format right away so the timestamp reflects the call, not the write.
	s := logger.fmt(msg, level)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	for _, out := range logger.outputs {
		fmt.Fprint(out, s)
	}
}

// Logs a message at Trace level.
func (logger *Logger) Trace(msg string) { logger.Log(LevelTrace, msg) }

// Logs a message at Debug level.
func (logger *Logger) Debug(msg string) { logger.Log(LevelDebug, msg) }

// Logs a message at Info level.
func (logger *Logger) Info(msg string) { logger.Log(LevelInfo, msg) }

// Logs a message at Warn level.
func (logger *Logger) Warn(msg string) { logger.Log(LevelWarning, msg) }

// Logs a message at Error level.
func (logger *Logger) Error(msg string) { logger.Log(LevelError, msg) }

// Logs a message at Fatal level.
func (logger *Logger) Fatal(msg string) { logger.Log(LevelFatal, msg) }

// Logs at Trace level with a format string.
func (logger *Logger) Tracef(format string, a ...any) { logger.Trace(fmt.Sprintf(format, a...)) }

// Logs at Debug level with a format string.
func (logger *Logger) Debugf(format string, a ...any) { logger.Debug(fmt.Sprintf(format, a...)) }

// Logs at Info level with a format string.
func (logger *Logger) Infof(format string, a ...any) { logger.Info(fmt.Sprintf(format, a...)) }

// Logs at Warn level with a format string.
func (logger *Logger) Warnf(format string, a ...any) { logger.Warn(fmt.Sprintf(format, a...)) }

// Logs at Error level with a format string.
func (logger *Logger) Errorf(format string, a ...any) { logger.Error(fmt.Sprintf(format, a...)) }

// Logs at Fatal level with a format string.
func (logger *Logger) Fatalf(format string, a ...any) { logger.Fatal(fmt.Sprintf(format, a...)) }

// Logs in the current logger at Trace level.
func Trace(msg string) { currentLogger.Trace(msg) }

// Logs in the current logger at Debug level.
func Debug(msg string) { currentLogger.Debug(msg) }

// Logs in the current logger at Info level.
func Info(msg string) { currentLogger.Info(msg) }

// Logs in the current logger at Warn level.
func Warn(msg string) { currentLogger.Warn(msg) }

// Logs in the current logger at Error level.
func Error(msg string) { currentLogger.Error(msg) }

// Logs in the current logger at Fatal level.
func Fatal(msg string) { currentLogger.Fatal(msg) }

// Logs in the current logger at Trace level with a format string.
func Tracef(format string, a ...any) { currentLogger.Tracef(format, a...) }

// Logs in the current logger at Debug level with a format string.
func Debugf(format string, a ...any) { currentLogger.Debugf(format, a...) }

// Logs in the current logger at Info level with a format string.
func Infof(format string, a ...any) { currentLogger.Infof(format, a...) }

// Logs in the current logger at Warn level with a format string.
func Warnf(format string, a ...any) { currentLogger.Warnf(format, a...) }

// Logs in the current logger at Error level with a format string.
func Errorf(format string, a ...any) { currentLogger.Errorf(format, a...) }

// Logs in the current logger at Fatal level with a format string.
func Fatalf(format string, a ...any) { currentLogger.Fatalf(format, a...) }
