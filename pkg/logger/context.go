package logger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Ошибки logger.
var (
	ErrLoggerNotFound   = errors.New("logger not found in context")
	ErrInitGlobalLogger = errors.New("failed to initialize global logger")
)

var globalLogger atomic.Pointer[Logger]

// fallbackLogger пишет только предупреждения и ошибки, пока глобальный logger не задан.
var fallbackLogger = sync.OnceValue(func() *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return &Logger{l: zapLogger.With(zap.String("logger", "fallback"))}
})

type loggerKey struct{}

// NewContext возвращает контекст, несущий logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext извлекает logger из контекста.
func FromContext(ctx context.Context) (*Logger, error) {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*Logger); ok {
			return logger, nil
		}
	}
	return nil, ErrLoggerNotFound
}

// InitGlobalLogger инициализирует глобальный logger уровня info.
func InitGlobalLogger(env Environment) error {
	return InitGlobalLoggerWithLevel(env, "")
}

// InitGlobalLoggerWithLevel инициализирует глобальный logger, если он еще не задан.
func InitGlobalLoggerWithLevel(env Environment, level string) error {
	if globalLogger.Load() != nil {
		return nil
	}

	logger, err := NewLogger(env, level)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitGlobalLogger, err)
	}
	globalLogger.CompareAndSwap(nil, logger)
	return nil
}

// SetGlobalLogger заменяет глобальный logger. nil возвращает резервный.
func SetGlobalLogger(logger *Logger) {
	globalLogger.Store(logger)
}

// Log возвращает logger из контекста, иначе глобальный, иначе резервный.
func Log(ctx context.Context) *Logger {
	if logger, err := FromContext(ctx); err == nil {
		return logger
	}
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	return fallbackLogger()
}
