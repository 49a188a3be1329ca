// Package logger wraps op/go-logging with console and optional file backends.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/op/go-logging"
)

const timeFormat = "2006/01/02 15:04:05"

var (
	logger  *logging.Logger
	logFile *os.File
)

// Init configures the logger. Console output uses the given level; when
// filePath is non-empty a file backend is added at DEBUG level.
func Init(level logging.Level, filePath string) {
	newLogger := logging.MustGetLogger("identity-api")
	backends := make([]logging.Backend, 0, 2)

	consoleBackend := logging.NewBackendFormatter(
		logging.NewLogBackend(os.Stderr, "", 0),
		logging.MustStringFormatter(`%{time:`+timeFormat+`} %{level} - %{message}`),
	)
	leveled := logging.AddModuleLevel(consoleBackend)
	leveled.SetLevel(level, "identity-api")
	backends = append(backends, leveled)

	if filePath != "" {
		if fileBackend := initFileBackend(filePath); fileBackend != nil {
			leveledFile := logging.AddModuleLevel(fileBackend)
			leveledFile.SetLevel(logging.DEBUG, "identity-api")
			backends = append(backends, leveledFile)
		}
	}

	newLogger.SetBackend(logging.MultiLogger(backends...))
	logger = newLogger
}

func initFileBackend(filePath string) logging.Backend {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder for %s: %v\n", filePath, err)
		return nil
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", filePath, err)
		return nil
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file

	return logging.NewBackendFormatter(
		logging.NewLogBackend(file, "", 0),
		logging.MustStringFormatter(`%{time:`+timeFormat+`} %{level} - %{message}`),
	)
}

// Close releases the file backend. Call on shutdown.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func ensure() *logging.Logger {
	if logger == nil {
		Init(logging.INFO, "")
	}
	return logger
}

func Debug(args ...any)                 { ensure().Debug(args...) }
func Debugf(format string, args ...any) { ensure().Debugf(format, args...) }
func Info(args ...any)                  { ensure().Info(args...) }
func Infof(format string, args ...any)  { ensure().Infof(format, args...) }
func Warning(args ...any)               { ensure().Warning(args...) }
func Warningf(format string, args ...any) {
	ensure().Warningf(format, args...)
}
func Error(args ...any)                 { ensure().Error(args...) }
func Errorf(format string, args ...any) { ensure().Errorf(format, args...) }
