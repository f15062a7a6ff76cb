package services

import (
	"errors"
	"fmt"

	"sessionauth/internal/auth/domain/entities"
)

// Классы ошибок, по которым транспортный слой выбирает код ответа.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrValidation    = entities.ErrValidation
	ErrTokenIssuance = errors.New("failed to issue token")
	ErrInvalidToken  = errors.New("invalid token")
)

// Частные случаи ErrUnauthorized.
var (
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	ErrInvalidState        = fmt.Errorf("%w: invalid oauth state", ErrUnauthorized)
	ErrMissingBearer       = fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	ErrSessionNotFound     = errors.New("session not found")
)

// NotFoundError сообщает об отсутствии ресурса с человекочитаемым именем.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// Is позволяет сравнивать ошибку с ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError сообщает о нарушении уникальности поля.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " already exists"
}

// Is позволяет сравнивать ошибку с ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
