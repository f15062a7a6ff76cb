package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/ports/repositories"
	"sessionauth/pkg/logger"
)

// StatisticsRepository реализует интерфейс repositories.StatisticsRepository для работы с Postgres.
type StatisticsRepository struct {
	pool PgxPoolInterface
}

// NewStatisticsRepository создает новый экземпляр репозитория статистики.
func NewStatisticsRepository(pool PgxPoolInterface) repositories.StatisticsRepository {
	return &StatisticsRepository{pool: pool}
}

// FindByUserID возвращает статистику пользователя в порядке создания.
func (r *StatisticsRepository) FindByUserID(ctx context.Context, userID string) (entities.StatisticsList, error) {
	log := logger.Log(ctx).With(zap.String("repository", "statistics"), zap.String("method", "FindByUserID"))

	query := `
        SELECT id, user_id, product_id, level, total_time, score, other, created_at
        FROM statistics
        WHERE user_id = $1
        ORDER BY created_at, id
    `

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		if isMalformedID(err) {
			log.Debug(ctx, "malformed user id", zap.String("userID", userID))
			return nil, nil
		}
		log.Error(ctx, "error querying statistics", zap.Error(err))
		return nil, fmt.Errorf("error querying statistics: %w", err)
	}
	defer rows.Close()

	var list entities.StatisticsList
	for rows.Next() {
		var s entities.Statistics
		if err := rows.Scan(&s.ID, &s.UserID, &s.ProductID, &s.Level, &s.TotalTime, &s.Score, &s.Other, &s.CreatedAt); err != nil {
			log.Error(ctx, "error scanning statistics row", zap.Error(err))
			return nil, fmt.Errorf("error scanning statistics row: %w", err)
		}
		list = append(list, &s)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating statistics rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating statistics rows: %w", err)
	}

	return list, nil
}
