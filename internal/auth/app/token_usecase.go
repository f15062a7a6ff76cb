package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
	"sessionauth/internal/auth/ports/repositories"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
)

const (
	methodIssueTokenPair     = "IssueTokenPair"
	methodVerifyAccessToken  = "VerifyAccessToken"
	methodRotateRefreshToken = "RotateRefreshToken"
	methodRevoke             = "Revoke"
	methodPurgeExpired       = "PurgeExpiredSessions"

	msgTokenPairIssued       = "token pair issued"
	msgRotatingRefreshToken  = "rotating refresh token"
	msgUnknownRefreshToken   = "refresh token not found in session store"
	msgRejectedRefreshToken  = "refresh token rejected"
	msgRefreshTokenOwnerGone = "refresh token owner no longer exists"
	msgRefreshTokenRotated   = "refresh token rotated"
	msgSessionRevoked        = "session revoked"
	msgSessionAlreadyGone    = "session already revoked"
	msgAccessTokenRejected   = "access token rejected"
	msgExpiredSessionsPurged = "expired sessions purged"

	msgErrGenerateAccessToken  = "failed to generate access token"
	msgErrGenerateRefreshToken = "failed to generate refresh token"
	msgErrStoreSession         = "failed to store session"
	msgErrFindSession          = "failed to find session"
	msgErrDeleteSession        = "failed to delete session"
	msgErrFindTokenOwner       = "failed to load refresh token owner"
	msgErrPurgeSessions        = "failed to purge expired sessions"

	errCtxGeneratingAccessToken  = "generating access token"
	errCtxGeneratingRefreshToken = "generating refresh token"
	errCtxStoringSession         = "storing session"
	errCtxFindingSession         = "finding session"
	errCtxValidatingRefresh      = "validating refresh token"
	errCtxDeletingSession        = "deleting session"
	errCtxFindingUser            = "finding user"
	errCtxVerifyingAccessToken   = "verifying access token"
	errCtxPurgingSessions        = "purging expired sessions"
)

// TokenUseCaseImpl реализует интерфейс TokenUseCase.
type TokenUseCaseImpl struct {
	sessions repositories.SessionRepository
	users    repositories.UserRepository
	tokens   svc.TokenService
	now      func() time.Time
}

// NewTokenUseCase создает новый экземпляр сервиса токенов.
func NewTokenUseCase(
	sessions repositories.SessionRepository,
	users repositories.UserRepository,
	tokens svc.TokenService,
) api.TokenUseCase {
	return &TokenUseCaseImpl{
		sessions: sessions,
		users:    users,
		tokens:   tokens,
		now:      time.Now,
	}
}

// IssueTokenPair выпускает пару токенов и сохраняет refresh-токен для устройства agent,
// замещая прежнюю сессию этого устройства.
func (t *TokenUseCaseImpl) IssueTokenPair(ctx context.Context, user *entities.User, agent string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodIssueTokenPair),
		zap.String("userID", user.ID),
	)

	accessToken, accessExpires, err := t.tokens.GenerateAccessToken(ctx, user.ID, user.Roles)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccessToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingAccessToken, err)
	}

	refreshToken, refreshExpires, err := t.tokens.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingRefreshToken, err)
	}

	if err := t.sessions.Store(ctx, &services.Session{
		Token:     refreshToken,
		UserID:    user.ID,
		UserAgent: agent,
		ExpiresAt: refreshExpires,
		CreatedAt: t.now(),
	}); err != nil {
		log.Error(ctx, msgErrStoreSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringSession, err)
	}

	log.Debug(ctx, msgTokenPairIssued)

	return &services.TokenPair{
		UserID:           user.ID,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpires,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpires,
	}, nil
}

// VerifyAccessToken проверяет access-токен и возвращает его claims.
func (t *TokenUseCaseImpl) VerifyAccessToken(ctx context.Context, token string) (*services.AccessClaims, error) {
	claims, err := t.tokens.ValidateAccessToken(ctx, token)
	if err != nil {
		logger.Log(ctx).Debug(ctx, msgAccessTokenRejected,
			zap.String("method", methodVerifyAccessToken), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingAccessToken, err)
	}
	return claims, nil
}

// RotateRefreshToken удаляет предъявленный refresh-токен и выпускает новую пару.
// Повторное предъявление уже замененного токена отклоняется, так как его записи больше нет.
func (t *TokenUseCaseImpl) RotateRefreshToken(ctx context.Context, refreshToken, agent string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRotateRefreshToken))
	log.Debug(ctx, msgRotatingRefreshToken)

	session, err := t.sessions.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			log.Debug(ctx, msgUnknownRefreshToken)
			return nil, fmt.Errorf("%s: %w", errCtxFindingSession, services.ErrInvalidRefreshToken)
		}
		log.Error(ctx, msgErrFindSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingSession, err)
	}

	log = log.With(zap.String("userID", session.UserID))

	claims, err := t.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err == nil && claims.UserID != session.UserID {
		err = services.ErrInvalidToken
	}
	if err != nil {
		log.Debug(ctx, msgRejectedRefreshToken, zap.Error(err))
		if delErr := t.sessions.Delete(ctx, refreshToken); delErr != nil && !errors.Is(delErr, services.ErrSessionNotFound) {
			log.Warn(ctx, msgErrDeleteSession, zap.Error(delErr))
		}
		return nil, fmt.Errorf("%s: %w", errCtxValidatingRefresh, services.ErrInvalidRefreshToken)
	}

	if err := t.sessions.Delete(ctx, refreshToken); err != nil && !errors.Is(err, services.ErrSessionNotFound) {
		log.Error(ctx, msgErrDeleteSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxDeletingSession, err)
	}

	user, err := t.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgRefreshTokenOwnerGone)
			return nil, fmt.Errorf("%s: %w", errCtxFindingUser, services.ErrInvalidRefreshToken)
		}
		log.Error(ctx, msgErrFindTokenOwner, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	pair, err := t.IssueTokenPair(ctx, user, agent)
	if err != nil {
		return nil, err
	}

	log.Info(ctx, msgRefreshTokenRotated)
	return pair, nil
}

// Revoke удаляет сессию refresh-токена. Отсутствующая сессия не считается ошибкой.
func (t *TokenUseCaseImpl) Revoke(ctx context.Context, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("method", methodRevoke))

	if err := t.sessions.Delete(ctx, refreshToken); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			log.Debug(ctx, msgSessionAlreadyGone)
			return nil
		}
		log.Error(ctx, msgErrDeleteSession, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingSession, err)
	}

	log.Debug(ctx, msgSessionRevoked)
	return nil
}

// ExpiryOf возвращает срок действия токена из его claim exp.
func (t *TokenUseCaseImpl) ExpiryOf(token string) (time.Time, error) {
	return t.tokens.ExpiryOf(token)
}

// PurgeExpiredSessions удаляет из хранилища сессии с истекшим сроком.
func (t *TokenUseCaseImpl) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", methodPurgeExpired))

	removed, err := t.sessions.CleanupExpired(ctx)
	if err != nil {
		log.Error(ctx, msgErrPurgeSessions, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", errCtxPurgingSessions, err)
	}

	log.Info(ctx, msgExpiredSessionsPurged, zap.Int64("count", removed))
	return removed, nil
}
