package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
)

// Константы для работы с JWT.
const (
	methodGenerateAccessToken  = "GenerateAccessToken"
	methodGenerateRefreshToken = "GenerateRefreshToken"
	methodValidateAccessToken  = "ValidateAccessToken"
	methodValidateRefreshToken = "ValidateRefreshToken"
	msgGeneratingAccessToken   = "generating access token"
	msgGeneratingRefreshToken  = "generating refresh token"
	msgValidatingToken         = "validating token"
	msgTokenGenerated          = "token generated successfully"
	msgTokenValidated          = "token validated successfully"
	msgInvalidToken            = "invalid token"
	msgTokenExpired            = "token has expired"
	msgEmptySecret             = "empty secret key provided"
	//nolint:gosec
	errSigningToken       = "error signing token"
	errCtxGeneratingToken = "generating token"
	errCtxParsingToken    = "parsing token"
	errCtxValidatingToken = "validating token"
)

// Ошибки проверки токена.
var (
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrEmptySecret      = errors.New("empty secret key")
)

// Claims используется для адаптации между доменной моделью и библиотекой JWT.
type Claims struct {
	UserID string             `json:"user_id"`
	Roles  []string           `json:"roles,omitempty"`
	Type   services.TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// ServiceJWT реализует интерфейс TokenService поверх HS256.
type ServiceJWT struct {
	config services.JWTConfig
	now    func() time.Time
}

// NewJWT создает новый экземпляр сервиса JWT.
// Пустой refreshSecret означает подпись refresh-токенов тем же ключом.
func NewJWT(secretKey, refreshSecret string, accessTokenTTL, refreshTokenTTL time.Duration) svc.TokenService {
	if refreshSecret == "" {
		refreshSecret = secretKey
	}
	return &ServiceJWT{
		config: services.JWTConfig{
			AccessSecret:    []byte(secretKey),
			RefreshSecret:   []byte(refreshSecret),
			AccessTokenTTL:  accessTokenTTL,
			RefreshTokenTTL: refreshTokenTTL,
		},
		now: time.Now,
	}
}

// GenerateAccessToken генерирует JWT токен доступа с ролями пользователя.
func (s *ServiceJWT) GenerateAccessToken(ctx context.Context, userID string, roles []entities.Role) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateAccessToken),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgGeneratingAccessToken)

	roleStrings := make([]string, 0, len(roles))
	for _, r := range roles {
		roleStrings = append(roleStrings, string(r))
	}

	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		UserID: userID,
		Roles:  roleStrings,
		Type:   services.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := s.sign(ctx, claims, s.config.AccessSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return token, expiresAt, nil
}

// GenerateRefreshToken генерирует refresh токен с уникальным идентификатором.
func (s *ServiceJWT) GenerateRefreshToken(ctx context.Context, userID string) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateRefreshToken),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgGeneratingRefreshToken)

	now := s.now()
	expiresAt := now.Add(s.config.RefreshTokenTTL)

	claims := Claims{
		UserID: userID,
		Type:   services.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := s.sign(ctx, claims, s.config.RefreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return token, expiresAt, nil
}

// ValidateAccessToken проверяет подпись, срок и тип access-токена.
func (s *ServiceJWT) ValidateAccessToken(ctx context.Context, tokenString string) (*services.AccessClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidateAccessToken))
	log.Debug(ctx, msgValidatingToken)

	claims, err := s.parse(ctx, tokenString, s.config.AccessSecret, services.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	log.Debug(ctx, msgTokenValidated, zap.String("userID", claims.UserID))
	return &services.AccessClaims{
		UserID:    claims.UserID,
		Roles:     entities.ParseRoles(claims.Roles),
		IssuedAt:  numericTime(claims.IssuedAt),
		ExpiresAt: numericTime(claims.ExpiresAt),
	}, nil
}

// ValidateRefreshToken проверяет подпись, срок и тип refresh-токена.
func (s *ServiceJWT) ValidateRefreshToken(ctx context.Context, tokenString string) (*services.RefreshClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidateRefreshToken))
	log.Debug(ctx, msgValidatingToken)

	claims, err := s.parse(ctx, tokenString, s.config.RefreshSecret, services.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	log.Debug(ctx, msgTokenValidated, zap.String("userID", claims.UserID))
	return &services.RefreshClaims{
		UserID:    claims.UserID,
		TokenID:   claims.ID,
		IssuedAt:  numericTime(claims.IssuedAt),
		ExpiresAt: numericTime(claims.ExpiresAt),
	}, nil
}

// ExpiryOf читает exp из токена без проверки подписи и срока действия.
func (s *ServiceJWT) ExpiryOf(tokenString string) (time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("%s: %w: %w", errCtxParsingToken, services.ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%s: %w: missing exp", errCtxParsingToken, services.ErrInvalidToken)
	}
	return claims.ExpiresAt.Time, nil
}

func (s *ServiceJWT) sign(ctx context.Context, claims Claims, secret []byte) (string, error) {
	log := logger.Log(ctx)

	if len(secret) == 0 {
		log.Error(ctx, msgEmptySecret)
		return "", fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrTokenIssuance, ErrEmptySecret)
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrTokenIssuance, err)
	}

	return tokenString, nil
}

func (s *ServiceJWT) parse(ctx context.Context, tokenString string, secret []byte, want services.TokenType) (*Claims, error) {
	log := logger.Log(ctx)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
		} else {
			log.Debug(ctx, msgInvalidToken, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w: %w", errCtxParsingToken, services.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		log.Debug(ctx, msgInvalidToken)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrInvalidToken)
	}

	if claims.Type != want {
		log.Debug(ctx, msgInvalidToken, zap.String("type", string(claims.Type)))
		return nil, fmt.Errorf("%s: %w: %w", errCtxValidatingToken, services.ErrInvalidToken, ErrWrongTokenType)
	}

	return claims, nil
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
