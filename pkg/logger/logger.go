// Package logger holds the process-wide zap logger, optionally teeing to a
// rotated log file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// L is the global sugared logger. Usable before Init at info level.
var L *zap.SugaredLogger

var z *zap.Logger

func init() {
	zl, _ := zap.NewProduction()
	z = zl
	L = zl.Sugar()
}

// Config controls log level and optional file output with rotation.
type Config struct {
	Level      string // debug, info, warn, error
	File       string // empty means stderr only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init replaces the global logger according to the configuration.
func Init(cfg Config) error {
	var level zapcore.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zapcore.DebugLevel
	case "info", "":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		return fmt.Errorf("unsupported log level: %s", cfg.Level)
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		MessageKey:     "M",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var output io.Writer = os.Stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 16
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		maxAge := cfg.MaxAgeDays
		if maxAge <= 0 {
			maxAge = 30
		}
		output = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   true,
		})
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(output),
		level,
	)
	z = zap.New(core, zap.AddCallerSkip(1))
	L = z.Sugar()
	return nil
}

// Sync flushes buffered entries; call before process exit.
func Sync() {
	if z != nil {
		_ = z.Sync()
	}
}

// Debugf logs a formatted debug message.
func Debugf(template string, args ...interface{}) { L.Debugf(template, args...) }

// Infof logs a formatted info message.
func Infof(template string, args ...interface{}) { L.Infof(template, args...) }

// Warnf logs a formatted warning.
func Warnf(template string, args ...interface{}) { L.Warnf(template, args...) }

// Errorf logs a formatted error.
func Errorf(template string, args ...interface{}) { L.Errorf(template, args...) }
