package repositories

import (
	"context"

	"sessionauth/internal/auth/domain/entities"
)

// StatisticsRepository читает статистику пользователей.
type StatisticsRepository interface {
	FindByUserID(ctx context.Context, userID string) (entities.StatisticsList, error)
}
