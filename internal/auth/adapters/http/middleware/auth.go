package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sessionauth/internal/auth/domain/access"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
	"sessionauth/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorRejectedToken      = "access token rejected"

	bearerPrefix = "Bearer "
)

type callerKey struct{}

// NewAuthMiddleware проверяет access-токен из заголовка Authorization
// и сохраняет личность вызывающего в Locals.
func NewAuthMiddleware(tokens api.TokenUseCase) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := Context(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		header := ctx.Get(fiber.HeaderAuthorization)
		if header == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return fmt.Errorf("%s: %w", ErrorNoAuthHeader, services.ErrMissingBearer)
		}

		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return fmt.Errorf("%s: %w", ErrorInvalidTokenFormat, services.ErrMissingBearer)
		}

		claims, err := tokens.VerifyAccessToken(requestCtx, strings.TrimSpace(token))
		if err != nil {
			log.Debug(requestCtx, ErrorRejectedToken, zap.Error(err))
			return fmt.Errorf("%s: %w", ErrorRejectedToken, err)
		}

		ctx.Locals(callerKey{}, access.Caller{UserID: claims.UserID, Roles: claims.Roles})

		return ctx.Next()
	}
}

// CallerFrom возвращает личность вызывающего, сохраненную NewAuthMiddleware.
func CallerFrom(ctx fiber.Ctx) (access.Caller, bool) {
	caller, ok := ctx.Locals(callerKey{}).(access.Caller)
	return caller, ok
}
