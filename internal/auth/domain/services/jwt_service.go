package services

import (
	"time"

	"sessionauth/internal/auth/domain/entities"
)

// TokenType различает access и refresh токены, подписанные одним ключом.
type TokenType string

// Типы токенов.
const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// JWTConfig содержит настройки подписи токенов.
type JWTConfig struct {
	AccessSecret    []byte
	RefreshSecret   []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AccessClaims - проверенные данные access-токена.
type AccessClaims struct {
	UserID    string
	Roles     []entities.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshClaims - проверенные данные refresh-токена.
type RefreshClaims struct {
	UserID    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
