// Package cache хранит одноразовые значения OAuth state в Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodSave    = "save"
	LogMethodConsume = "consume"

	ErrorFailedToSave    = "failed to save oauth state in redis"
	ErrorFailedToConsume = "failed to consume oauth state from redis"

	keyPrefix = "oauth:state:"
)

// StateStore реализует интерфейс StateStore с использованием Redis.
type StateStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewStateStore создает хранилище state с заданным временем жизни записи.
func NewStateStore(client redis.Cmdable, ttl time.Duration) svc.StateStore {
	return &StateStore{client: client, ttl: ttl}
}

// Save запоминает state и провайдера, для которого он выдан.
func (s *StateStore) Save(ctx context.Context, state string, provider entities.Provider) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSave), zap.String("provider", string(provider)))

	if err := s.client.Set(ctx, keyPrefix+state, string(provider), s.ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSave, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSave, err)
	}

	return nil
}

// Consume атомарно читает и удаляет state. Неизвестный или истекший state дает ErrInvalidState.
func (s *StateStore) Consume(ctx context.Context, state string) (entities.Provider, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodConsume))

	if state == "" {
		return "", services.ErrInvalidState
	}

	value, err := s.client.GetDel(ctx, keyPrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			log.Debug(ctx, "oauth state not found")
			return "", services.ErrInvalidState
		}
		log.Error(ctx, ErrorFailedToConsume, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToConsume, err)
	}

	return entities.Provider(value), nil
}
