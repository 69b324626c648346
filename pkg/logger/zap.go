package logger

import (
	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/types"
)

// ZapLogger adapts zap.Logger to the types.Logger interface
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger creates a new ZapLogger
func NewZapLogger(logger *zap.Logger) types.Logger {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &ZapLogger{logger: logger}
}

// NewProductionLogger creates a production-configured ZapLogger
func NewProductionLogger() (types.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger), nil
}

// NewDevelopmentLogger creates a development-configured ZapLogger
func NewDevelopmentLogger() (types.Logger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger), nil
}

// convertToZapFields converts our LogFields to zap.Fields
func convertToZapFields(fields []types.LogField) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zapFields := make([]zap.Field, len(fields))
	for i, f := range fields {
		zapFields[i] = zap.Any(f.Key, f.Value)
	}
	return zapFields
}

func (l *ZapLogger) Debug(msg string, fields ...types.LogField) {
	l.logger.Debug(msg, convertToZapFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields ...types.LogField) {
	l.logger.Info(msg, convertToZapFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields ...types.LogField) {
	l.logger.Warn(msg, convertToZapFields(fields)...)
}

func (l *ZapLogger) Error(msg string, fields ...types.LogField) {
	l.logger.Error(msg, convertToZapFields(fields)...)
}

func (l *ZapLogger) With(fields ...types.LogField) types.Logger {
	return &ZapLogger{logger: l.logger.With(convertToZapFields(fields)...)}
}

func (l *ZapLogger) Flush() error {
	return l.logger.Sync()
}

// ToZap extracts the underlying zap.Logger from a ZapLogger.
// Returns nil if the logger is not a ZapLogger.
func ToZap(logger types.Logger) *zap.Logger {
	if zapLogger, ok := logger.(*ZapLogger); ok {
		return zapLogger.logger
	}
	return nil
}
