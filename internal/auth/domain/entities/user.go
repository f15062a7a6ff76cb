// Package entities содержит сущности домена аутентификации.
package entities

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrValidation - общая ошибка некорректных входных данных.
var ErrValidation = errors.New("validation failed")

// Ошибки домена пользователя.
var (
	ErrEmptyUserID      = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyName        = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password must contain at least 8 characters", ErrValidation)
	ErrPasswordTooLong  = fmt.Errorf("%w: password must not exceed 72 bytes", ErrValidation)
	ErrPasswordTooWeak  = fmt.Errorf("%w: password must contain at least one letter and one digit", ErrValidation)
	ErrUnknownProvider  = fmt.Errorf("%w: unknown provider", ErrValidation)
	ErrUserNotFound     = errors.New("user not found")
)

// Provider - способ аутентификации учетной записи.
type Provider string

// Поддерживаемые провайдеры.
const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderYandex Provider = "yandex"
	ProviderGithub Provider = "github"
)

// ExternalProviders перечисляет провайдеры внешней аутентификации.
var ExternalProviders = []Provider{ProviderGoogle, ProviderYandex, ProviderGithub}

// ParseProvider приводит строку к внешнему провайдеру.
func ParseProvider(value string) (Provider, error) {
	p := Provider(value)
	if !slices.Contains(ExternalProviders, p) {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, value)
	}
	return p, nil
}

// Role - роль пользователя.
type Role string

// Роли пользователя.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User представляет учетную запись пользователя.
// Пустой PasswordHash означает, что пароль не задан; пустой Image - что аватара нет.
type User struct {
	ID           string
	Email        string
	Name         string
	Image        string
	PasswordHash string
	Provider     Provider
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword сообщает, задан ли у пользователя пароль.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// OwnerID возвращает владельца записи пользователя - его самого.
func (u *User) OwnerID() string {
	return u.ID
}

// RoleStrings возвращает роли в виде строк.
func (u *User) RoleStrings() []string {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return roles
}

// ParseRoles приводит строки к ролям, пропуская пустые значения.
func ParseRoles(values []string) []Role {
	roles := make([]Role, 0, len(values))
	for _, v := range values {
		if v != "" {
			roles = append(roles, Role(v))
		}
	}
	return roles
}
