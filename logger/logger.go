// Package logger provides the server's structured logging: one line per event
// to standard error. Log output must never touch stdout, which carries the
// protocol stream.
package logger

import (
	"os"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

const prefix = "[hlasm-lsp] "

var log core.Logger = newLogger(core.InformationLevel)

func newLogger(level core.LogEventLevel) core.Logger {
	return mtlog.New(
		mtlog.WithSink(sinks.NewConsoleSinkWithWriter(os.Stderr)),
		mtlog.WithMinimumLevel(level),
	)
}

// Init sets the minimum level; verbose enables debug events
func Init(verbose bool) {
	level := core.InformationLevel
	if verbose {
		level = core.DebugLevel
	}
	log = newLogger(level)
}

// Debug writes a debug-level event
func Debug(template string, args ...any) {
	log.Debug(prefix+template, args...)
}

// Info writes an information-level event
func Info(template string, args ...any) {
	log.Information(prefix+template, args...)
}

// Warn writes a warning-level event
func Warn(template string, args ...any) {
	log.Warning(prefix+template, args...)
}

// Error writes an error-level event
func Error(template string, args ...any) {
	log.Error(prefix+template, args...)
}
