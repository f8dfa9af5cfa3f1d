package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

// Options controls how the process logger is built.
type Options struct {
	// Level is a zap level name such as "debug", "info" or "warn". Empty means info.
	Level string
	// Service and Version are attached to every entry when set.
	Service string
	Version string
	// ProjectID enables Cloud Trace correlation fields. Empty falls back to the
	// GOOGLE_CLOUD_PROJECT family of environment variables.
	ProjectID string
}

var (
	mu         sync.RWMutex
	baseLogger *zap.Logger
	projectID  string
	loggerErr  error
)

// Configure builds the process-wide logger from opts and replaces the current one.
func Configure(opts Options) error {
	logger, err := build(opts)
	if err != nil {
		return err
	}
	mu.Lock()
	baseLogger = logger
	projectID = firstNonEmpty(opts.ProjectID, projectIDFromEnv())
	loggerErr = nil
	mu.Unlock()
	return nil
}

// Logger returns the process-wide logger, building a default one on first use.
func Logger() *zap.Logger {
	mu.RLock()
	l := baseLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if baseLogger == nil {
		baseLogger, loggerErr = build(Options{})
		if loggerErr != nil {
			baseLogger = zap.NewNop()
		}
		projectID = projectIDFromEnv()
	}
	return baseLogger
}

// Sync flushes buffered log entries. Call during shutdown.
func Sync() error {
	return Logger().Sync()
}

// Err reports a failure to build the default logger, if any.
func Err() error {
	Logger()
	mu.RLock()
	defer mu.RUnlock()
	return loggerErr
}

func currentProjectID() string {
	Logger()
	mu.RLock()
	defer mu.RUnlock()
	return projectID
}

func build(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = encodeTimeMicros
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.EncodeLevel = encodeSeverity
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.CallerKey = "caller"

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	var fields []zap.Field
	if opts.Service != "" {
		fields = append(fields, zap.String("service", opts.Service))
	}
	if opts.Version != "" {
		fields = append(fields, zap.String("version", opts.Version))
	}
	if len(fields) > 0 {
		logger = logger.With(fields...)
	}
	return logger, nil
}

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(RFC3339Micros))
}

// encodeSeverity maps zap levels to Cloud Logging severity names.
func encodeSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var severity string
	switch level {
	case zapcore.DebugLevel:
		severity = "DEBUG"
	case zapcore.InfoLevel:
		severity = "INFO"
	case zapcore.WarnLevel:
		severity = "WARNING"
	case zapcore.ErrorLevel:
		severity = "ERROR"
	case zapcore.DPanicLevel:
		severity = "CRITICAL"
	case zapcore.PanicLevel:
		severity = "ALERT"
	case zapcore.FatalLevel:
		severity = "EMERGENCY"
	default:
		severity = "DEFAULT"
	}
	enc.AppendString(severity)
}

func projectIDFromEnv() string {
	return firstNonEmpty(
		os.Getenv("GOOGLE_CLOUD_PROJECT"),
		os.Getenv("GCP_PROJECT"),
		os.Getenv("GCLOUD_PROJECT"),
		os.Getenv("PROJECT_ID"),
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
