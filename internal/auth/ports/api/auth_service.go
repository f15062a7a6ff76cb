package api

import (
	"context"

	"sessionauth/internal/auth/domain/services"
)

// AuthUseCase определяет основной порт для операций аутентификации.
// agent - строка User-Agent, идентифицирующая устройство клиента.
type AuthUseCase interface {
	Register(ctx context.Context, input services.RegisterInput, agent string) (*services.TokenPair, error)

	Login(ctx context.Context, email, password, agent string) (*services.TokenPair, error)

	ProviderAuth(ctx context.Context, identity services.ProviderIdentity, agent string) (*services.TokenPair, error)

	RefreshTokens(ctx context.Context, refreshToken, agent string) (*services.TokenPair, error)

	Logout(ctx context.Context, refreshToken string)
}
