package config

import "time"

// ShutdownConfig задает, сколько ждать завершения HTTP-сервера и закрытия хранилищ при остановке.
type ShutdownConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"AUTH_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// GetTimeout возвращает время ожидания; неположительное значение заменяется на 5 секунд.
func (s *ShutdownConfig) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 5 * time.Second
	}
	return s.Timeout
}
