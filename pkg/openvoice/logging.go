package openvoice

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const loggerName = "openvoice"

// newLogger строит логгер клиента. Без уровня и формата используется глобальный логгер процесса.
func newLogger(level, format string) (*zap.Logger, error) {
	if level == "" && format == "" {
		return zap.L().Named(loggerName), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if format != "" {
		if format != "console" && format != "json" {
			return nil, fmt.Errorf("неизвестный формат логов: %s", format)
		}
		cfg.Encoding = format
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("неизвестный уровень логирования %q: %w", level, err)
		}
		cfg.Level = lvl
	} else {
		cfg.Level = zap.NewAtomicLevelAt(inheritedLevel())
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named(loggerName), nil
}

// inheritedLevel возвращает минимальный уровень, включенный у глобального логгера
func inheritedLevel() zapcore.Level {
	core := zap.L().Core()
	for lvl := zapcore.DebugLevel; lvl <= zapcore.FatalLevel; lvl++ {
		if core.Enabled(lvl) {
			return lvl
		}
	}
	return zapcore.InfoLevel
}
