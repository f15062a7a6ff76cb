package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // драйвер postgres для migrate
	_ "github.com/golang-migrate/migrate/v4/source/file"       // источник миграций из файлов
	"go.uber.org/zap"

	"sessionauth/pkg/logger"
)

const (
	logMigrationsApplied = "database migrations applied"
	logNoMigrations      = "database schema is up to date"

	errCreateMigration = "failed to create migration instance"
	errApplyMigrations = "failed to apply migrations"
)

// Migrate применяет миграции из sourceURL (например, file:///app/migrations/auth) к базе databaseURL.
func Migrate(ctx context.Context, sourceURL, databaseURL string) error {
	log := logger.Log(ctx).With(zap.String("source", sourceURL))

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("%s: %w", errCreateMigration, err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn(ctx, "failed to close migration instance",
				zap.NamedError("source_error", srcErr), zap.NamedError("database_error", dbErr))
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info(ctx, logNoMigrations)
			return nil
		}
		return fmt.Errorf("%s: %w", errApplyMigrations, err)
	}

	log.Info(ctx, logMigrationsApplied)
	return nil
}
