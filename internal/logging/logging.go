package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a sugared zap logger for structured key/value logging
type Logger struct {
	*zap.SugaredLogger
}

// creates a console logger; verbose enables debug output
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		// falls back to a no-op logger rather than failing startup
		return NewNop()
	}
	return &Logger{l.Sugar()}
}

// returns a logger that discards everything; used as a default in tests
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}
