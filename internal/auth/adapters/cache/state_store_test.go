package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessionauth/internal/auth/adapters/cache"
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

func setupStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *cache.StateStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, ok := cache.NewStateStore(client, ttl).(*cache.StateStore)
	require.True(t, ok)
	return mr, store
}

func TestStateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("state is single use", func(t *testing.T) {
		mr, store := setupStore(t, time.Minute)

		require.NoError(t, store.Save(ctx, "abc", entities.ProviderGithub))
		assert.True(t, mr.Exists("oauth:state:abc"))

		provider, err := store.Consume(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, entities.ProviderGithub, provider)

		_, err = store.Consume(ctx, "abc")
		assert.ErrorIs(t, err, services.ErrInvalidState)
		assert.ErrorIs(t, err, services.ErrUnauthorized)
	})

	t.Run("state expires", func(t *testing.T) {
		mr, store := setupStore(t, time.Minute)

		require.NoError(t, store.Save(ctx, "abc", entities.ProviderGoogle))
		mr.FastForward(2 * time.Minute)

		_, err := store.Consume(ctx, "abc")
		assert.ErrorIs(t, err, services.ErrInvalidState)
	})

	t.Run("empty state", func(t *testing.T) {
		_, store := setupStore(t, time.Minute)

		_, err := store.Consume(ctx, "")
		assert.ErrorIs(t, err, services.ErrInvalidState)
	})

	t.Run("redis unavailable", func(t *testing.T) {
		mr, store := setupStore(t, time.Minute)
		mr.Close()

		err := store.Save(ctx, "abc", entities.ProviderYandex)
		require.Error(t, err)
		assert.Contains(t, err.Error(), cache.ErrorFailedToSave)

		_, err = store.Consume(ctx, "abc")
		require.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrInvalidState)
	})
}
