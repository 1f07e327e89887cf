package logging

import (
	"io"
	"log"
	"os"
)

// Level represents the logging level
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var (
	level  = LevelInfo
	logger = log.New(os.Stderr, "", log.LstdFlags)
)

// SetLevel sets the global log level
func SetLevel(l Level) {
	level = l
}

// SetVerbose enables debug logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelInfo)
	}
}

// SetOutput redirects all log output, e.g. to a file while the TUI owns the terminal
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func logf(l Level, prefix, format string, args ...interface{}) {
	if level >= l {
		logger.Printf(prefix+format, args...)
	}
}

// Errorf logs an error message
func Errorf(format string, args ...interface{}) {
	logf(LevelError, "[ERROR] ", format, args...)
}

// Warnf logs a warning message
func Warnf(format string, args ...interface{}) {
	logf(LevelWarn, "[WARN] ", format, args...)
}

// Infof logs an info message
func Infof(format string, args ...interface{}) {
	logf(LevelInfo, "[INFO] ", format, args...)
}

// Debugf logs a debug message
func Debugf(format string, args ...interface{}) {
	logf(LevelDebug, "[DEBUG] ", format, args...)
}
