package api

import (
	"context"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

// UserUseCase определяет порт для операций с ресурсами пользователей.
type UserUseCase interface {
	GetUser(ctx context.Context, userID string) (*entities.User, error)

	ListUsers(ctx context.Context, limit, offset int) ([]*entities.User, error)

	// UpdateUser применяет изменения к уже загруженному пользователю. Провайдер и роли не меняются.
	UpdateUser(ctx context.Context, user *entities.User, input services.UpdateUserInput) (*entities.User, error)

	DeleteUser(ctx context.Context, userID string) error

	GetUserStatistics(ctx context.Context, userID string) (entities.StatisticsList, error)
}
