// Package logger builds the zap logger used by the domctx CLI:
// console output on stderr plus an optional rotated file.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/edgecomet/domcontext/internal/common/config"
)

// New creates a logger from configuration. At least one output must be
// enabled. Console logs go to stderr so stdout stays clean for the
// serialized markdown.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	globalLevel := parseLevel(cfg.Level)

	var cores []zapcore.Core

	if cfg.Console.Enabled {
		enc := newEncoder(cfg.Console.Format)
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), globalLevel))
	}

	if cfg.File.Enabled {
		if cfg.File.Path == "" {
			return nil, fmt.Errorf("file.path must be specified when file logging is enabled")
		}
		enc := newEncoder(cfg.File.Format)
		writer := newFileWriter(cfg.File.Path, cfg.File.Rotation)
		cores = append(cores, zapcore.NewCore(enc, writer, globalLevel))
	}

	if len(cores) == 0 {
		return nil, fmt.Errorf("at least one log output (console or file) must be enabled")
	}

	if len(cores) == 1 {
		return zap.New(cores[0]), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

// NewDefault creates the startup logger used before configuration is
// loaded: colored console output at info level.
func NewDefault() *zap.Logger {
	enc := newEncoder(config.LogFormatConsole)
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.InfoLevel)
	return zap.New(core)
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case config.LogLevelDebug:
		return zap.DebugLevel
	case config.LogLevelInfo:
		return zap.InfoLevel
	case config.LogLevelWarn:
		return zap.WarnLevel
	case config.LogLevelError:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func newEncoder(format string) zapcore.Encoder {
	if format == config.LogFormatJSON {
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if format == config.LogFormatText {
		// Plain text without color codes, for files.
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func newFileWriter(path string, rotation config.RotationConfig) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotation.MaxSize,
		MaxAge:     rotation.MaxAge,
		MaxBackups: rotation.MaxBackups,
		Compress:   rotation.Compress,
	})
}
