// Package services содержит доменные типы сервисов аутентификации: пары токенов,
// сессии, claims и нормализованные профили внешних провайдеров.
package services

import (
	"time"

	"sessionauth/internal/auth/domain/entities"
)

// TokenPair представляет пару токенов, выданную одному устройству.
type TokenPair struct {
	UserID           string
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Session - сохраненный refresh-токен, привязанный к пользователю и устройству.
type Session struct {
	Token     string
	UserID    string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RegisterInput содержит данные регистрации по email и паролю.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateUserInput содержит изменяемые поля учетной записи. Пустое поле оставляет текущее значение.
type UpdateUserInput struct {
	Email    string
	Name     string
	Image    string
	Password string
}

// ProviderIdentity - нормализованный профиль пользователя внешнего провайдера.
type ProviderIdentity struct {
	Email    string
	Name     string
	Image    string
	Provider entities.Provider
}
