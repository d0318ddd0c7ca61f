// Package observability provides the shared CLI logger.
//
// CLILogger writes human-oriented console output to stderr so that the
// report itself (stdout) stays machine-consumable. Call InitCLILogger
// before using it; Execute does this once during root command setup.
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the process-wide logger for command output and diagnostics.
var CLILogger = zap.NewNop()

// InitCLILogger configures CLILogger for console use. With verbose set,
// debug-level pipeline tracing is enabled.
func InitCLILogger(verbose bool) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		// Console config is static; a build failure is a programming error.
		panic(err)
	}
	CLILogger = logger
}

// Sync flushes buffered log entries. Safe to call on a nop logger.
func Sync() {
	_ = CLILogger.Sync()
}
