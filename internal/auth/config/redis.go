package config

import (
	"fmt"
	"time"
)

// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Host         string        `yaml:"host" env:"AUTH_REDIS_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"AUTH_REDIS_PORT" env-default:"6379"`
	Password     string        `yaml:"password" env:"AUTH_REDIS_PASSWORD" env-default:""`
	DB           int           `yaml:"db" env:"AUTH_REDIS_DB" env-default:"0"`
	PoolSize     int           `yaml:"pool_size" env:"AUTH_REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"AUTH_REDIS_MIN_IDLE_CONNS" env-default:"1"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"AUTH_REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"AUTH_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"AUTH_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	StateTTL     time.Duration `yaml:"state_ttl" env:"AUTH_REDIS_STATE_TTL" env-default:"10m"`
}

// GetAddress возвращает адрес Redis в формате host:port.
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
