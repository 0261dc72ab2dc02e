package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfig(t *testing.T) {
	// Устанавливаем переменные окружения для теста
	t.Setenv("API_URL", "http://openvoice:5000")
	t.Setenv("OPENVOICE_VOICE", "elon")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_PORT", "9090")

	// Загружаем конфигурацию
	cfg, err := Load()

	// Проверяем, что конфигурация загружена без ошибок
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Проверяем значения
	assert.Equal(t, "http://openvoice:5000", cfg.API.URL)
	assert.Equal(t, "elon", cfg.API.Voice)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 9090, cfg.App.MetricsPort)
	assert.True(t, cfg.App.MetricsEnabled())
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"API_URL", "API_VERSION", "OPENVOICE_MODEL", "OPENVOICE_VOICE",
		"OUTPUT_DIR", "APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "METRICS_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	// Проверяем значения по умолчанию
	assert.Equal(t, "http://localhost:5000", cfg.API.URL)
	assert.Equal(t, "v2", cfg.API.Version)
	assert.Equal(t, "en", cfg.API.Model)
	assert.Equal(t, "raw", cfg.API.Voice)
	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "console", cfg.App.LogFormat)
	assert.Equal(t, 0, cfg.App.MetricsPort)
	assert.False(t, cfg.App.MetricsEnabled())
}

func TestLoadConfig_InvalidMetricsPort(t *testing.T) {
	t.Setenv("METRICS_PORT", "abc")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "METRICS_PORT")
}

func TestAppConfigMethods(t *testing.T) {
	cfg := &AppConfig{
		Env:      "development",
		LogLevel: "debug",
	}

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, zap.DebugLevel, cfg.GetLogLevel().Level())

	cfg.Env = "production"
	cfg.LogLevel = "unknown"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, zap.InfoLevel, cfg.GetLogLevel().Level())
}

func TestAppConfig_NewLogger(t *testing.T) {
	cfg := &AppConfig{Env: "production", LogLevel: "warn", LogFormat: "json"}

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))
}

func TestValidateConfig(t *testing.T) {
	// Тест с пустыми обязательными полями
	cfg := &Config{}
	assert.Error(t, validateConfig(cfg))

	valid := func() *Config {
		return &Config{
			API:    APIConfig{URL: "http://localhost:5000", Version: "v2"},
			Output: OutputConfig{Dir: "outputs"},
			App:    AppConfig{LogFormat: "console"},
		}
	}

	// Тест с корректной конфигурацией
	assert.NoError(t, validateConfig(valid()))

	cfg = valid()
	cfg.API.URL = "localhost"
	assert.Error(t, validateConfig(cfg))

	cfg = valid()
	cfg.App.LogFormat = "xml"
	assert.Error(t, validateConfig(cfg))

	cfg = valid()
	cfg.App.MetricsPort = 70000
	assert.Error(t, validateConfig(cfg))
}
