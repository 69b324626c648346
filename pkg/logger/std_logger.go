package logger

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// StdLogger is an implementation of the types.Logger interface using the
// standard log package
type StdLogger struct {
	logger *log.Logger
	fields []types.LogField
}

// NewStdLogger creates a new StdLogger writing to stderr
func NewStdLogger() *StdLogger {
	return &StdLogger{
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *StdLogger) print(level, msg string, fields []types.LogField) {
	all := append(l.fields, fields...)
	if len(all) == 0 {
		l.logger.Printf("%s: %s", level, msg)
		return
	}
	parts := make([]string, 0, len(all))
	for _, f := range all {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	l.logger.Printf("%s: %s {%s}", level, msg, strings.Join(parts, " "))
}

// Debug implements types.Logger.Debug
func (l *StdLogger) Debug(msg string, fields ...types.LogField) {
	l.print("DEBUG", msg, fields)
}

// Info implements types.Logger.Info
func (l *StdLogger) Info(msg string, fields ...types.LogField) {
	l.print("INFO", msg, fields)
}

// Warn implements types.Logger.Warn
func (l *StdLogger) Warn(msg string, fields ...types.LogField) {
	l.print("WARN", msg, fields)
}

// Error implements types.Logger.Error
func (l *StdLogger) Error(msg string, fields ...types.LogField) {
	l.print("ERROR", msg, fields)
}

// With implements types.Logger.With
func (l *StdLogger) With(fields ...types.LogField) types.Logger {
	merged := make([]types.LogField, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &StdLogger{
		logger: l.logger,
		fields: merged,
	}
}

// Flush implements types.Logger.Flush
func (l *StdLogger) Flush() error {
	return nil // standard logger doesn't buffer
}
