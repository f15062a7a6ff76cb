// Package config содержит конфигурацию для аутентификационного сервиса.
package config

import (
	"context"
	"fmt"
	"os"

	"sessionauth/pkg/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
)

// Константы ошибок и сообщений для конфигурации.
const (
	LogLoadingConfig    = "Loading authentication service configuration"
	LogConfigLoaded     = "Configuration loaded successfully"
	ErrFailedLoadConfig = "Failed to load configuration"

	// PathEnv указывает на необязательный YAML-файл конфигурации.
	PathEnv = "AUTH_CONFIG_PATH"
)

// Config представляет полную конфигурацию приложения.
type Config struct {
	App      AppConfig      `yaml:"app"`
	HTTP     HTTPConfig     `yaml:"http"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Cookie   CookieConfig   `yaml:"cookie"`
	OAuth    OAuthConfig    `yaml:"oauth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// AppConfig содержит общие настройки приложения.
type AppConfig struct {
	Mode string `yaml:"mode" env:"AUTH_APP_MODE" env-default:"development"`
}

// IsProduction сообщает, запущено ли приложение в продуктовом режиме.
func (a *AppConfig) IsProduction() bool {
	return a.Mode == "production"
}

// Load загружает конфигурацию из переменных окружения.
// Если задан AUTH_CONFIG_PATH, сначала читается YAML-файл, а переменные окружения его переопределяют.
func Load(ctx context.Context) (*Config, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogLoadingConfig)

	var cfg Config
	var err error
	if path := os.Getenv(PathEnv); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		log.Error(ctx, ErrFailedLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("app_mode", cfg.App.Mode),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Duration("access_token_ttl", cfg.JWT.AccessTokenTTL),
		zap.Duration("refresh_token_ttl", cfg.JWT.RefreshTokenTTL),
		zap.Strings("oauth_providers", cfg.OAuth.Enabled()),
		zap.Duration("shutdown_timeout", cfg.Shutdown.GetTimeout()),
		zap.Int("postgres_min_conn", cfg.Postgres.MinConn),
		zap.Int("postgres_max_conn", cfg.Postgres.MaxConn))

	return &cfg, nil
}
