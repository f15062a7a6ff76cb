package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/ports/repositories"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
)

const (
	methodValidateCredentials = "ValidateCredentials"

	msgUnknownEmail       = "login attempt with non-existent email"
	msgAccountNoPassword  = "login attempt on account without password"
	msgPasswordMismatch   = "invalid password provided"
	msgErrFindingUser     = "error finding user by email"
	msgErrVerifyingPasswd = "error verifying password"

	errCtxVerifyingPassword = "verifying password"
)

// CredentialValidator проверяет пару email и пароль.
type CredentialValidator struct {
	users     repositories.UserRepository
	passwords svc.PasswordService
}

// NewCredentialValidator создает новый валидатор учетных данных.
func NewCredentialValidator(users repositories.UserRepository, passwords svc.PasswordService) *CredentialValidator {
	return &CredentialValidator{users: users, passwords: passwords}
}

// Validate возвращает пользователя при совпадении пароля. Неизвестный email, отсутствие пароля
// у учетной записи и несовпадение пароля дают (nil, nil); ошибки хранилища возвращаются как есть.
func (v *CredentialValidator) Validate(ctx context.Context, email, password string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidateCredentials))

	user, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgUnknownEmail)
			return nil, nil
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	if !user.HasPassword() {
		log.Debug(ctx, msgAccountNoPassword, zap.String("userID", user.ID))
		return nil, nil
	}

	ok, err := v.passwords.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPasswd, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !ok {
		log.Debug(ctx, msgPasswordMismatch, zap.String("userID", user.ID))
		return nil, nil
	}

	return user, nil
}
