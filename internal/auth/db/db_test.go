package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessionauth/internal/auth/db"
)

func TestMigrationsSource(t *testing.T) {
	t.Run("relative path becomes absolute", func(t *testing.T) {
		got, err := db.MigrationsSource("file://migrations/auth")
		require.NoError(t, err)

		abs, err := filepath.Abs("migrations/auth")
		require.NoError(t, err)
		assert.Equal(t, "file://"+abs, got)
	})

	t.Run("absolute path is kept", func(t *testing.T) {
		got, err := db.MigrationsSource("/srv/migrations/auth")
		require.NoError(t, err)
		assert.Equal(t, "file:///srv/migrations/auth", got)
	})
}
