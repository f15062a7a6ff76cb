package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbredis "sessionauth/pkg/db/redis"
)

func TestConnect(t *testing.T) {
	t.Run("connects to running server", func(t *testing.T) {
		srv := miniredis.RunT(t)

		client, err := dbredis.Connect(context.Background(), dbredis.Options{Addr: srv.Addr()})
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
		assert.Equal(t, "v", client.Get(context.Background(), "k").Val())
	})

	t.Run("fails when server is unreachable", func(t *testing.T) {
		srv := miniredis.RunT(t)
		addr := srv.Addr()
		srv.Close()

		client, err := dbredis.Connect(context.Background(), dbredis.Options{
			Addr:        addr,
			DialTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "failed to connect to redis")
	})
}
