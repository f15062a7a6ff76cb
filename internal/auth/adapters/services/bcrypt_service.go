package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sessionauth/internal/auth/domain/services"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
)

const (
	methodVerify = "Verify"

	msgMalformedHash = "stored password hash is malformed"

	errCtxHash     = "hashing password"
	errCtxCompare  = "comparing password with hash"
	errCtxTooShort = "password is too short"
	errCtxTooLong  = "password exceeds bcrypt input limit"
)

// Bcrypt хэширует пароли алгоритмом bcrypt с заданной стоимостью.
type Bcrypt struct {
	cost int
}

// NewBcrypt создает сервис паролей. Стоимость вне допустимого bcrypt диапазона заменяется на DefaultBcryptCost.
func NewBcrypt(cost int) svc.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = services.DefaultBcryptCost
	}
	return &Bcrypt{cost: cost}
}

// Hash проверяет длину пароля и возвращает его bcrypt-хэш.
func (b *Bcrypt) Hash(_ context.Context, password string) (string, error) {
	switch {
	case password == "":
		return "", services.ErrInvalidPassword
	case utf8.RuneCountInString(password) < services.MinPasswordLength:
		return "", fmt.Errorf("%s: %w", errCtxTooShort, services.ErrInvalidPassword)
	case len(password) > services.MaxPasswordBytes:
		return "", fmt.Errorf("%s: %w", errCtxTooLong, services.ErrInvalidPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", errCtxHash, services.ErrHashingFailed, err)
	}
	return string(hash), nil
}

// Verify сравнивает пароль с хэшем.
func (b *Bcrypt) Verify(ctx context.Context, password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		logger.Log(ctx).Error(ctx, msgMalformedHash, zap.String("method", methodVerify), zap.Error(err))
		return false, fmt.Errorf("%s: %w", errCtxCompare, err)
	}
}
