package api

import (
	"context"
	"time"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

// TokenUseCase управляет жизненным циклом пары токенов.
type TokenUseCase interface {
	IssueTokenPair(ctx context.Context, user *entities.User, agent string) (*services.TokenPair, error)

	VerifyAccessToken(ctx context.Context, token string) (*services.AccessClaims, error)

	RotateRefreshToken(ctx context.Context, refreshToken, agent string) (*services.TokenPair, error)

	Revoke(ctx context.Context, refreshToken string) error

	ExpiryOf(token string) (time.Time, error)

	// PurgeExpiredSessions удаляет истекшие сессии и возвращает их количество.
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}
