package config

import (
	"strings"

	"sessionauth/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"AUTH_LOG_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"AUTH_LOG_MODE" env-default:"development"`
}

// GetEnvironment переводит режим в logger.Environment. Все, кроме production, считается разработкой.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if strings.EqualFold(strings.TrimSpace(l.Mode), string(logger.Production)) {
		return logger.Production
	}
	return logger.Development
}
