package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. format is "console" or "json"; level
// is any zap level name.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	loggerConfig := zap.NewDevelopmentConfig()
	switch format {
	case "", "console":
	case "json":
		loggerConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	loggerConfig.Level = zap.NewAtomicLevelAt(lvl)
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	loggerConfig.OutputPaths = []string{"stderr"}

	return loggerConfig.Build()
}
