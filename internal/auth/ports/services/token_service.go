package services

import (
	"context"
	"time"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

// TokenService определяет интерфейс для операций с токенами JWT.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID string, roles []entities.Role) (string, time.Time, error)

	GenerateRefreshToken(ctx context.Context, userID string) (string, time.Time, error)

	ValidateAccessToken(ctx context.Context, token string) (*services.AccessClaims, error)

	ValidateRefreshToken(ctx context.Context, token string) (*services.RefreshClaims, error)

	ExpiryOf(token string) (time.Time, error)
}
