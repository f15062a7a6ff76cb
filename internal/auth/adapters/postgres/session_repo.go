package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/repositories"
	"sessionauth/pkg/logger"
)

// SessionRepository реализует интерфейс repositories.SessionRepository для работы с Postgres.
type SessionRepository struct {
	pool PgxPoolInterface
}

// NewSessionRepository создает новый экземпляр репозитория сессий.
func NewSessionRepository(pool PgxPoolInterface) repositories.SessionRepository {
	return &SessionRepository{pool: pool}
}

// Store сохраняет сессию, замещая предыдущую сессию того же пользователя на том же устройстве.
// Замещение выполняется одним upsert по ключу (user_id, user_agent): старый токен перестает существовать.
func (r *SessionRepository) Store(ctx context.Context, session *services.Session) error {
	log := logger.Log(ctx).With(
		zap.String("repository", "session"),
		zap.String("method", "Store"),
		zap.String("userID", session.UserID),
	)

	query := `
        INSERT INTO refresh_tokens (token, user_id, user_agent, expires_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT ON CONSTRAINT refresh_tokens_user_agent_key DO UPDATE
        SET token = EXCLUDED.token,
            expires_at = EXCLUDED.expires_at,
            created_at = NOW()
    `
	if _, err := r.pool.Exec(ctx, query, session.Token, session.UserID, session.UserAgent, session.ExpiresAt); err != nil {
		log.Error(ctx, "error storing refresh token", zap.Error(err))
		return fmt.Errorf("error storing refresh token: %w", err)
	}

	log.Debug(ctx, "session stored")
	return nil
}

// FindByToken находит сессию по значению refresh-токена.
func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*services.Session, error) {
	log := logger.Log(ctx).With(zap.String("repository", "session"), zap.String("method", "FindByToken"))

	query := `
        SELECT token, user_id, user_agent, expires_at, created_at
        FROM refresh_tokens
        WHERE token = $1
    `

	var session services.Session
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.UserAgent,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "session not found")
			return nil, services.ErrSessionNotFound
		}
		log.Error(ctx, "error finding refresh token", zap.Error(err))
		return nil, fmt.Errorf("error querying refresh token: %w", err)
	}

	return &session, nil
}

// Delete удаляет сессию по значению refresh-токена.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	log := logger.Log(ctx).With(zap.String("repository", "session"), zap.String("method", "Delete"))

	query := `
        DELETE FROM refresh_tokens
        WHERE token = $1
    `

	result, err := r.pool.Exec(ctx, query, token)
	if err != nil {
		log.Error(ctx, "error deleting refresh token", zap.Error(err))
		return fmt.Errorf("error deleting refresh token: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "session not found for deletion")
		return services.ErrSessionNotFound
	}

	return nil
}

// CleanupExpired удаляет сессии с истекшим сроком и возвращает их количество.
func (r *SessionRepository) CleanupExpired(ctx context.Context) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "session"), zap.String("method", "CleanupExpired"))

	query := `
        DELETE FROM refresh_tokens
        WHERE expires_at < NOW()
    `

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		log.Error(ctx, "error cleaning up expired tokens", zap.Error(err))
		return 0, fmt.Errorf("error cleaning up expired tokens: %w", err)
	}

	log.Info(ctx, "expired sessions removed", zap.Int64("count", result.RowsAffected()))
	return result.RowsAffected(), nil
}
