package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger Logger
)

func init() {
	// Initialize with a default logger.
	// This can be replaced by calling InitLogger.
	cfg := zap.NewProductionConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		var zapLevel zapcore.Level
		if err := zapLevel.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(zapLevel)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	globalLogger = &zapLogger{logger.Sugar()}
}

// New builds a standalone logger. format is "json" or "console"; a nil
// output writes to stderr.
func New(level string, format string, output zapcore.WriteSyncer) Logger {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		var zapLevel zapcore.Level
		if err := zapLevel.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(zapLevel)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	if output != nil {
		logger = zap.New(logger.Core(), zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			var encoder zapcore.Encoder
			if format == "json" {
				encoder = zapcore.NewJSONEncoder(cfg.EncoderConfig)
			} else {
				encoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
			}
			return zapcore.NewCore(encoder, output, cfg.Level)
		}))
	}
	return &zapLogger{logger.Sugar()}
}

// InitLogger initializes the global logger with a specific configuration.
func InitLogger(level string, format string, output zapcore.WriteSyncer) {
	l := New(level, format, output)
	mu.Lock()
	globalLogger = l
	mu.Unlock()
}

// GetLogger returns the global logger instance.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &zapLogger{zap.NewNop().Sugar()}
}

// zapLogger is a wrapper around zap.SugaredLogger that implements our Logger interface.
type zapLogger struct {
	*zap.SugaredLogger
}

func (l *zapLogger) Debug(msg string, keysAndValues ...any) {
	l.SugaredLogger.Debugw(msg, keysAndValues...)
}

func (l *zapLogger) Info(msg string, keysAndValues ...any) {
	l.SugaredLogger.Infow(msg, keysAndValues...)
}

func (l *zapLogger) Warn(msg string, keysAndValues ...any) {
	l.SugaredLogger.Warnw(msg, keysAndValues...)
}

func (l *zapLogger) Error(msg string, keysAndValues ...any) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)
}

// With creates a child logger and adds structured context to it.
func (l *zapLogger) With(keysAndValues ...any) Logger {
	return &zapLogger{l.SugaredLogger.With(keysAndValues...)}
}
