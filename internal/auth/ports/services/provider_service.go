package services

import (
	"context"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

// ProviderGateway скрывает обмен кодом авторизации с внешним провайдером.
type ProviderGateway interface {
	AuthCodeURL(provider entities.Provider, state string) (string, error)

	Identity(ctx context.Context, provider entities.Provider, code string) (services.ProviderIdentity, error)
}

// StateStore хранит одноразовые значения state для защиты callback.
type StateStore interface {
	Save(ctx context.Context, state string, provider entities.Provider) error

	Consume(ctx context.Context, state string) (entities.Provider, error)
}
