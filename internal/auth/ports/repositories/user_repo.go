package repositories

import (
	"context"

	"sessionauth/internal/auth/domain/entities"
)

// UserRepository хранит учетные записи.
// Отсутствующая запись дает services.ErrUserNotFound, занятый email - *services.ConflictError.
type UserRepository interface {
	// Create сохраняет пользователя и возвращает его с присвоенным идентификатором.
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	// FindByEmail ищет по точному совпадению email.
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) (*entities.User, error)
	Delete(ctx context.Context, id string) error
	// List возвращает страницу пользователей в порядке создания.
	List(ctx context.Context, limit, offset int) ([]*entities.User, error)
}
