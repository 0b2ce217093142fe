package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnvironmentVariable enables debug level logging when it parses as true.
const DebugEnvironmentVariable = "DIRTREE_DEBUG"

// NewApplicationLogger constructs a zap logger configured for human-readable console output
// on stderr. Debug entries are emitted only when debugEnabled is true.
func NewApplicationLogger(debugEnabled bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	if debugEnabled {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}
