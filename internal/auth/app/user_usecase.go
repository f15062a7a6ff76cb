package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
	"sessionauth/internal/auth/ports/repositories"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
)

const (
	methodGetUser           = "GetUser"
	methodListUsers         = "ListUsers"
	methodUpdateUser        = "UpdateUser"
	methodDeleteUser        = "DeleteUser"
	methodGetUserStatistics = "GetUserStatistics"

	msgEmptyUserIDProvided = "empty user ID provided"
	msgUserDeleted         = "user deleted"
	msgUserUpdated         = "user updated"
	msgPasswordChanged     = "user password set"
	msgInvalidUpdate       = "invalid user update"

	msgErrFindingUserByID = "failed to find user by ID"
	msgErrListingUsers    = "failed to list users"
	msgErrDeletingUser    = "failed to delete user"
	msgErrUpdatingUser    = "failed to update user"
	msgErrLoadingStats    = "failed to load user statistics"

	errCtxValidatingUserID = "validating user ID"
	errCtxFetchingUser     = "fetching user"
	errCtxListingUsers     = "listing users"
	errCtxDeletingUser     = "deleting user"
	errCtxUpdatingUserData = "updating user data"
	errCtxFetchingStats    = "fetching statistics"

	// DefaultPageSize - размер страницы списка пользователей по умолчанию.
	DefaultPageSize = 20
	// MaxPageSize - наибольший размер страницы списка пользователей.
	MaxPageSize = 100
)

// UserUseCaseImpl реализует интерфейс UserUseCase.
type UserUseCaseImpl struct {
	users      repositories.UserRepository
	statistics repositories.StatisticsRepository
	passwords  svc.PasswordService
}

// NewUserUseCase создает новый экземпляр сервиса пользователей.
func NewUserUseCase(
	users repositories.UserRepository,
	statistics repositories.StatisticsRepository,
	passwords svc.PasswordService,
) api.UserUseCase {
	return &UserUseCaseImpl{
		users:      users,
		statistics: statistics,
		passwords:  passwords,
	}
}

// GetUser получает пользователя по ID.
func (u *UserUseCaseImpl) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetUser), zap.String("userID", userID))

	if userID == "" {
		log.Debug(ctx, msgEmptyUserIDProvided)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUserID, entities.ErrEmptyUserID)
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		log.Debug(ctx, msgErrFindingUserByID, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFetchingUser, err)
	}

	return user, nil
}

// ListUsers возвращает страницу пользователей. Размер страницы приводится к диапазону [1, MaxPageSize].
func (u *UserUseCaseImpl) ListUsers(ctx context.Context, limit, offset int) ([]*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListUsers))

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	users, err := u.users.List(ctx, limit, offset)
	if err != nil {
		log.Error(ctx, msgErrListingUsers, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}

	return users, nil
}

// UpdateUser меняет email, имя, аватар и пароль пользователя.
// Новый пароль хэшируется; так учетная запись провайдера получает вход по паролю.
func (u *UserUseCaseImpl) UpdateUser(ctx context.Context, user *entities.User, input services.UpdateUserInput) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateUser), zap.String("userID", user.ID))

	changed := *user

	if input.Email != "" {
		if err := validateEmail(input.Email); err != nil {
			log.Debug(ctx, msgInvalidUpdate, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
		}
		changed.Email = input.Email
	}
	if input.Name != "" {
		if strings.TrimSpace(input.Name) == "" {
			log.Debug(ctx, msgInvalidUpdate, zap.Error(entities.ErrEmptyName))
			return nil, fmt.Errorf("%s: %w", errCtxValidatingName, entities.ErrEmptyName)
		}
		changed.Name = input.Name
	}
	if input.Image != "" {
		changed.Image = input.Image
	}
	if input.Password != "" {
		if err := validatePassword(input.Password); err != nil {
			log.Debug(ctx, msgInvalidUpdate, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
		}
		hash, err := u.passwords.Hash(ctx, input.Password)
		if err != nil {
			log.Error(ctx, msgErrHashPassword, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
		}
		changed.PasswordHash = hash
	}

	updated, err := u.users.Update(ctx, &changed)
	if err != nil {
		log.Debug(ctx, msgErrUpdatingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUserData, err)
	}

	if input.Password != "" {
		log.Info(ctx, msgPasswordChanged, zap.String("provider", string(updated.Provider)))
	}
	log.Info(ctx, msgUserUpdated)
	return updated, nil
}

// DeleteUser удаляет пользователя.
func (u *UserUseCaseImpl) DeleteUser(ctx context.Context, userID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteUser), zap.String("userID", userID))

	if err := u.users.Delete(ctx, userID); err != nil {
		log.Debug(ctx, msgErrDeletingUser, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingUser, err)
	}

	log.Info(ctx, msgUserDeleted)
	return nil
}

// GetUserStatistics возвращает статистику пользователя.
func (u *UserUseCaseImpl) GetUserStatistics(ctx context.Context, userID string) (entities.StatisticsList, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetUserStatistics), zap.String("userID", userID))

	list, err := u.statistics.FindByUserID(ctx, userID)
	if err != nil {
		log.Error(ctx, msgErrLoadingStats, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFetchingStats, err)
	}

	return list, nil
}
