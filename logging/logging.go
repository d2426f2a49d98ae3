// Package logging builds the zap loggers used across the service.
package logging

import (
	"go.uber.org/zap"
)

// Config holds logging configuration
type Config struct {
	Level       string            `json:"level"`
	Format      string            `json:"format"` // "json" or "console"
	OutputPath  string            `json:"output_path"`
	Fields      map[string]string `json:"fields"`
	Development bool              `json:"development"`
}

// NewLogger creates a structured logger from config.
func NewLogger(config Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if config.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	if config.OutputPath != "" {
		zapConfig.OutputPaths = []string{config.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	fields := make([]zap.Field, 0, len(config.Fields))
	for k, v := range config.Fields {
		fields = append(fields, zap.String(k, v))
	}
	return logger.With(fields...), nil
}

// NewDefaultLogger creates a logger with sensible defaults
func NewDefaultLogger() *zap.Logger {
	logger, err := NewLogger(Config{
		Level:  "info",
		Format: "json",
		Fields: map[string]string{"service": "takeoff"},
	})
	if err != nil {
		// Fallback to basic logger
		zapLogger, _ := zap.NewProduction()
		return zapLogger.With(zap.String("service", "takeoff"))
	}
	return logger
}

// Or returns l, or a no-op logger when l is nil.
func Or(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
