// Package services предоставляет реализации сервисов паролей и JWT токенов
// и фабрику для их создания.
package services

import (
	"sessionauth/internal/auth/config"
	"sessionauth/internal/auth/ports/services"
)

// ServiceFactory создает все необходимые сервисы для аутентификации.
type ServiceFactory struct {
	passwordService services.PasswordService
	tokenService    services.TokenService
}

// NewServiceFactory создает фабрику сервисов из настроек JWT.
func NewServiceFactory(cfg config.JWTConfig) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(cfg.BCryptCost),
		tokenService:    NewJWT(cfg.SecretKey, cfg.RefreshSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
	}
}

// PasswordService возвращает сервис для работы с паролями.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис для работы с токенами.
func (f *ServiceFactory) TokenService() services.TokenService {
	return f.tokenService
}
