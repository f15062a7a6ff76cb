package services

import (
	"errors"
	"fmt"

	"sessionauth/internal/auth/domain/entities"
)

// Ошибки работы с паролями.
var (
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrInvalidPassword = fmt.Errorf("%w: invalid password", entities.ErrValidation)
)

// MinPasswordLength - минимальная длина пароля в символах.
const MinPasswordLength = 8

// MaxPasswordBytes - наибольшая длина пароля в байтах, которую учитывает bcrypt.
const MaxPasswordBytes = 72

// DefaultBcryptCost - фиксированная стоимость хэширования паролей.
const DefaultBcryptCost = 10
