package logger

import (
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level specific loggers. They are usable before Setup is called and write
// through zap once it is.
var (
	Debug   = log.New(io.Discard, "", 0)
	Info    = log.New(os.Stdout, "INFO: ", log.LstdFlags)
	Warning = log.New(os.Stdout, "WARNING: ", log.LstdFlags)
	Error   = log.New(os.Stderr, "ERROR: ", log.LstdFlags)
	HTTP    = log.New(os.Stdout, "HTTP: ", log.LstdFlags)

	base = zap.NewNop()
)

type Config struct {
	// Env is the APP_ENV value, json output is used outside local/development.
	Env string
	// Level is one of debug/info/warn/error, default info.
	Level string
}

// Setup configures the package loggers from APP_ENV and LOG_LEVEL.
func Setup() {
	if err := SetupWithConfig(Config{
		Env:   os.Getenv("APP_ENV"),
		Level: os.Getenv("LOG_LEVEL"),
	}); err != nil {
		Error.Println("logger setup failed, keeping defaults:", err)
	}
}

func SetupWithConfig(cfg Config) error {
	z, err := New(cfg)
	if err != nil {
		return err
	}

	base = z
	Debug, _ = zap.NewStdLogAt(z, zapcore.DebugLevel)
	Info, _ = zap.NewStdLogAt(z, zapcore.InfoLevel)
	Warning, _ = zap.NewStdLogAt(z, zapcore.WarnLevel)
	Error, _ = zap.NewStdLogAt(z, zapcore.ErrorLevel)
	HTTP, _ = zap.NewStdLogAt(z.Named("http"), zapcore.InfoLevel)
	return nil
}

// New builds the zap logger behind the package loggers.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, err
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Env {
	case "", "local", "development":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	return zap.New(core, zap.AddCaller()).With(zap.String("env", cfg.Env)), nil
}

// Zap exposes the structured logger for call sites that want fields.
func Zap() *zap.Logger {
	return base
}

// Sync flushes buffered entries, ignoring the harmless stderr sync error.
func Sync() {
	_ = base.Sync()
}
