// Package logger holds the process-wide structured logger used by the booking API.
package logger

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "booking_api"

var current atomic.Pointer[zap.SugaredLogger]

func init() {
	current.Store(zap.NewNop().Sugar())
}

// Init configures the logger from LOG_LEVEL and APP_ENV.
func Init() {
	InitWithLevel(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
}

func InitWithLevel(logLevel, appEnv string) {
	l, err := New(logLevel, appEnv)
	if err != nil {
		l = zap.NewExample()
		l.Sugar().Warnw("Failed to build logger, using fallback", "error", err)
	}
	current.Store(l.Sugar())
}

// New builds a JSON logger on stdout. Unknown levels fall back to info.
func New(logLevel, appEnv string) (*zap.Logger, error) {
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(logLevel)),
		Development:      appEnv == "development",
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    map[string]interface{}{"service": serviceName, "env": appEnv},
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build()
}

func ParseLevel(logLevel string) zapcore.Level {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Replace swaps the process logger and returns a func that restores the previous one.
func Replace(l *zap.Logger) (restore func()) {
	prev := current.Swap(l.Sugar())
	return func() { current.Store(prev) }
}

func Debug(msg string, keysAndValues ...interface{}) {
	current.Load().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	current.Load().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	current.Load().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	current.Load().Errorw(msg, keysAndValues...)
}

func Fatal(msg string, err error) {
	current.Load().Fatalw(msg, "error", err)
}

func Sync() {
	_ = current.Load().Sync()
}
