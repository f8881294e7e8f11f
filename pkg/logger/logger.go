package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Init builds the process-wide JSON logger used by the server and the seeder.
func Init(level string) error {
	var err error
	once.Do(func() {
		globalLogger, err = build(jsonConfig(parseLevel(level)))
	})
	return err
}

// Get returns the process logger, falling back to LOG_LEVEL when Init was never called.
func Get() *zap.Logger {
	if globalLogger == nil {
		_ = Init(os.Getenv("LOG_LEVEL"))
	}
	return globalLogger
}

func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// New builds a console logger for ledger-import. Its output goes to stderr so
// the preview table on stdout stays clean.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	return build(cfg)
}

// ForTenant tags every entry with the tenant a request acts for.
func ForTenant(base *zap.Logger, tenantID string) *zap.Logger {
	return base.With(zap.String("tenant_id", tenantID))
}

// ForImport tags every entry with the staged import it belongs to.
func ForImport(base *zap.Logger, sessionID, tenantID, format string) *zap.Logger {
	return ForTenant(base, tenantID).With(
		zap.String("session_id", sessionID),
		zap.String("format", format),
	)
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil || level == "" {
		return zapcore.InfoLevel
	}
	return l
}

func jsonConfig(level zapcore.Level) zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.MessageKey = "message"
	return cfg
}

func build(cfg zap.Config) (*zap.Logger, error) {
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
