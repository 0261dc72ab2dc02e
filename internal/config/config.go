package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"openvoice-client/pkg/openvoice"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	API    APIConfig
	Output OutputConfig
	App    AppConfig
}

// APIConfig содержит настройки OpenVoice API
type APIConfig struct {
	URL     string
	Version string
	Model   string
	Voice   string
}

// OutputConfig содержит настройки сохранения сгенерированного аудио
type OutputConfig struct {
	Dir string
}

type AppConfig struct {
	Env         string
	LogLevel    string
	LogFormat   string
	MetricsPort int
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// API
	cfg.API.URL = getEnvDefault("API_URL", openvoice.DefaultBaseURL)
	cfg.API.Version = getEnvDefault("API_VERSION", openvoice.DefaultVersion)
	cfg.API.Model = getEnvDefault("OPENVOICE_MODEL", openvoice.DefaultModel)
	cfg.API.Voice = getEnvDefault("OPENVOICE_VOICE", openvoice.DefaultVoice)

	// Output
	cfg.Output.Dir = getEnvDefault("OUTPUT_DIR", "outputs")

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")
	cfg.App.LogFormat = getEnvDefault("LOG_FORMAT", "console")
	port, err := getEnvIntDefault("METRICS_PORT", 0)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}
	cfg.App.MetricsPort = port

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// getEnvIntDefault не подменяет нечисловое значение значением по умолчанию
func getEnvIntDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s должен быть числом: %q", key, v)
	}
	return i, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.API.URL == "" {
		return fmt.Errorf("API_URL не установлен")
	}
	u, err := url.Parse(config.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_URL некорректен: %q", config.API.URL)
	}
	if config.API.Version == "" {
		return fmt.Errorf("API_VERSION не установлен")
	}
	if config.Output.Dir == "" {
		return fmt.Errorf("OUTPUT_DIR не установлен")
	}
	if config.App.LogFormat != "console" && config.App.LogFormat != "json" {
		return fmt.Errorf("поддерживаются только LOG_FORMAT: console, json")
	}
	if config.App.MetricsPort < 0 || config.App.MetricsPort > 65535 {
		return fmt.Errorf("METRICS_PORT вне диапазона: %d", config.App.MetricsPort)
	}

	return nil
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// MetricsEnabled сообщает, нужно ли поднимать HTTP сервер метрик
func (c *AppConfig) MetricsEnabled() bool {
	return c.MetricsPort > 0
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}

// NewLogger создает логгер приложения по настройкам окружения
func (c *AppConfig) NewLogger() (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if c.IsProduction() {
		config = zap.NewProductionConfig()
	}
	config.Level = c.GetLogLevel()
	config.Encoding = c.LogFormat

	return config.Build()
}
