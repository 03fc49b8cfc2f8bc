// Package logger holds the process-wide zap logger. Library packages take a
// logr.Logger; Logr adapts the global logger for them.
package logger

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/pkg/env"
)

var globalLogger *zap.Logger

// newConfig derives the zap configuration from SIGNUP_LOG_LEVEL and
// SIGNUP_ENV. verbose forces the debug level.
func newConfig(verbose bool) zap.Config {
	cfg := zap.NewProductionConfig()
	if env.SignupEnv.Get() == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zapcore.InfoLevel
	if raw, ok := env.SignupLogLevel.Lookup(); ok {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = zapcore.InfoLevel
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// Init builds the global logger. It panics if zap rejects the configuration.
func Init(verbose bool) {
	l, err := newConfig(verbose).Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	globalLogger = l
}

// InitFile replaces the global logger with one that appends to path, for
// when stderr belongs to a full-screen program.
func InitFile(path string, verbose bool) error {
	cfg := newConfig(verbose)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if cfg.Development {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	Sync()
	globalLogger = l
	return nil
}

// Get returns the global logger, building a default one on first use.
func Get() *zap.Logger {
	if globalLogger == nil {
		Init(false)
	}
	return globalLogger
}

// Logr returns the global logger as a logr.Logger. logr verbosity V(n) maps
// to zap level -n, so V(1) is debug.
func Logr() logr.Logger {
	return zapr.NewLogger(Get())
}

func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}
