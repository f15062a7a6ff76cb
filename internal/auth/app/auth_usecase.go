// Package app содержит сценарии аутентификации: вход, регистрацию, вход через провайдера,
// ротацию и отзыв сессий, а также операции над ресурсами пользователей.
package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
	"sessionauth/internal/auth/ports/repositories"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
)

const (
	methodRegister      = "Register"
	methodLogin         = "Login"
	methodProviderAuth  = "ProviderAuth"
	methodRefreshTokens = "RefreshTokens"
	methodLogout        = "Logout"

	msgStartRegistration  = "starting user registration"
	msgInvalidEmailFormat = "invalid email format"
	msgEmptyName          = "empty name provided"
	msgInvalidPassword    = "invalid password"
	msgEmailExists        = "user with this email already exists"
	msgUserRegistered     = "user registered successfully"
	msgLoginAttempt       = "login attempt"
	msgInvalidCredentials = "invalid credentials"
	msgUserLoggedIn       = "user logged in successfully"
	msgProviderAuth       = "provider authentication"
	msgProviderUserNew    = "user created from provider identity"
	msgProviderUserMerged = "provider identity merged into existing user"
	msgProviderRaceLost   = "concurrent provider sign-up detected, re-reading user"
	msgProviderNoEmail    = "provider identity has no email"
	msgTokensRefreshed    = "tokens refreshed successfully"
	msgUserLoggedOut      = "user logged out"

	msgErrCheckExistingUser = "failed to check existing user"
	msgErrHashPassword      = "failed to hash password"
	msgErrCreateUser        = "failed to create user"
	msgErrUpdateUser        = "failed to update user"
	msgErrRevokingSession   = "failed to revoke session on logout"

	errCtxValidatingEmail    = "validating email"
	errCtxValidatingName     = "validating name"
	errCtxValidatingPassword = "validating password"
	errCtxCheckingUser       = "checking existing user"
	errCtxEmailRegistered    = "email already registered"
	errCtxHashingPassword    = "hashing password"
	errCtxCreatingUser       = "creating user"
	errCtxUpdatingUser       = "updating user"
	errCtxInvalidCredentials = "invalid credentials"
	errCtxLoggingIn          = "logging in"
	errCtxProviderAuth       = "provider authentication"
	errCtxRefreshingTokens   = "refreshing tokens"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`\d`)
)

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	users     repositories.UserRepository
	passwords svc.PasswordService
	validator *CredentialValidator
	tokens    api.TokenUseCase
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	users repositories.UserRepository,
	passwords svc.PasswordService,
	tokens api.TokenUseCase,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		users:     users,
		passwords: passwords,
		validator: NewCredentialValidator(users, passwords),
		tokens:    tokens,
	}
}

// Login аутентифицирует пользователя по email и паролю.
func (a *AuthUseCaseImpl) Login(ctx context.Context, email, password, agent string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.validator.Validate(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxLoggingIn, err)
	}
	if user == nil {
		log.Debug(ctx, msgInvalidCredentials)
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	pair, err := a.tokens.IssueTokenPair(ctx, user, agent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxLoggingIn, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	return pair, nil
}

// Register создает локального пользователя и выпускает для него пару токенов.
func (a *AuthUseCaseImpl) Register(ctx context.Context, input services.RegisterInput, agent string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", input.Email))
	log.Debug(ctx, msgStartRegistration)

	if err := validateEmail(input.Email); err != nil {
		log.Debug(ctx, msgInvalidEmailFormat, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	if strings.TrimSpace(input.Name) == "" {
		log.Debug(ctx, msgEmptyName)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingName, entities.ErrEmptyName)
	}
	if err := validatePassword(input.Password); err != nil {
		log.Debug(ctx, msgInvalidPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}

	existing, err := a.users.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existing != nil {
		log.Debug(ctx, msgEmailExists)
		return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, &services.ConflictError{Field: "Email"})
	}

	hash, err := a.passwords.Hash(ctx, input.Password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	created, err := a.users.Create(ctx, &entities.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Provider:     entities.ProviderLocal,
		Roles:        []entities.Role{entities.RoleUser},
	})
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			log.Debug(ctx, msgEmailExists)
		} else {
			log.Error(ctx, msgErrCreateUser, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", created.ID))

	return a.tokens.IssueTokenPair(ctx, created, agent)
}

// ProviderAuth находит или создает пользователя по email из профиля провайдера и выпускает пару токенов.
// У существующего пользователя обновляются только непустые имя и аватар.
func (a *AuthUseCaseImpl) ProviderAuth(ctx context.Context, identity services.ProviderIdentity, agent string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodProviderAuth),
		zap.String("provider", string(identity.Provider)),
		zap.String("email", identity.Email),
	)
	log.Debug(ctx, msgProviderAuth)

	if identity.Email == "" {
		log.Warn(ctx, msgProviderNoEmail)
	}

	user, err := a.upsertIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxProviderAuth, err)
	}

	return a.tokens.IssueTokenPair(ctx, user, agent)
}

func (a *AuthUseCaseImpl) upsertIdentity(ctx context.Context, identity services.ProviderIdentity) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodProviderAuth))

	existing, err := a.users.FindByEmail(ctx, identity.Email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}

	if existing == nil {
		created, err := a.users.Create(ctx, &entities.User{
			Email:    identity.Email,
			Name:     identity.Name,
			Image:    identity.Image,
			Provider: identity.Provider,
			Roles:    []entities.Role{entities.RoleUser},
		})
		if err == nil {
			log.Info(ctx, msgProviderUserNew, zap.String("userID", created.ID))
			return created, nil
		}
		if !errors.Is(err, services.ErrConflict) {
			log.Error(ctx, msgErrCreateUser, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
		}

		log.Debug(ctx, msgProviderRaceLost)
		existing, err = a.users.FindByEmail(ctx, identity.Email)
		if err != nil {
			log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
		}
	}

	merged, changed := mergeIdentity(existing, identity)
	if !changed {
		return existing, nil
	}

	updated, err := a.users.Update(ctx, merged)
	if err != nil {
		log.Error(ctx, msgErrUpdateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, err)
	}

	log.Info(ctx, msgProviderUserMerged, zap.String("userID", updated.ID))
	return updated, nil
}

// mergeIdentity копирует непустые имя и аватар из профиля. Пароль, роли и основной провайдер не меняются.
func mergeIdentity(user *entities.User, identity services.ProviderIdentity) (*entities.User, bool) {
	merged := *user
	changed := false

	if identity.Name != "" && identity.Name != user.Name {
		merged.Name = identity.Name
		changed = true
	}
	if identity.Image != "" && identity.Image != user.Image {
		merged.Image = identity.Image
		changed = true
	}

	return &merged, changed
}

// RefreshTokens обновляет пару токенов по refresh-токену.
func (a *AuthUseCaseImpl) RefreshTokens(ctx context.Context, refreshToken, agent string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefreshTokens))

	pair, err := a.tokens.RotateRefreshToken(ctx, refreshToken, agent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxRefreshingTokens, err)
	}

	log.Info(ctx, msgTokensRefreshed, zap.String("userID", pair.UserID))
	return pair, nil
}

// Logout отзывает сессию. Ошибки хранилища только логируются.
func (a *AuthUseCaseImpl) Logout(ctx context.Context, refreshToken string) {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))

	if err := a.tokens.Revoke(ctx, refreshToken); err != nil {
		log.Error(ctx, msgErrRevokingSession, zap.Error(err))
		return
	}

	log.Info(ctx, msgUserLoggedOut)
}

func validateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return entities.ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < services.MinPasswordLength {
		return entities.ErrPasswordTooShort
	}
	if len(password) > services.MaxPasswordBytes {
		return entities.ErrPasswordTooLong
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return entities.ErrPasswordTooWeak
	}
	return nil
}
