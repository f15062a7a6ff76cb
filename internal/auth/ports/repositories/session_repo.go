package repositories

import (
	"context"

	"sessionauth/internal/auth/domain/services"
)

// SessionRepository хранит refresh-токены. На пару (пользователь, устройство) приходится не больше одной сессии.
type SessionRepository interface {
	Store(ctx context.Context, session *services.Session) error

	FindByToken(ctx context.Context, token string) (*services.Session, error)

	Delete(ctx context.Context, token string) error

	CleanupExpired(ctx context.Context) (int64, error)
}
