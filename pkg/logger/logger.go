// Package logger provides logging utilities
package logger

import (
	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// defaultLogger is the process-wide logger used when no explicit logger
// is configured
var defaultLogger types.Logger = NewStdLogger()

// SetDefaultLogger sets the default logger implementation
func SetDefaultLogger(logger types.Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// GetDefaultLogger returns the default logger
func GetDefaultLogger() types.Logger {
	return defaultLogger
}

// New creates a new logger carrying the given component field
func New(component string) types.Logger {
	return defaultLogger.With(types.LogField{Key: "component", Value: component})
}
