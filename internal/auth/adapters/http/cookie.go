package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sessionauth/internal/auth/adapters/http/middleware"
	"sessionauth/internal/auth/config"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
	"sessionauth/pkg/logger"
)

// RefreshCookieName - имя cookie с refresh-токеном, которое ожидают клиенты.
const RefreshCookieName = "jwt-refresh"

const msgExpiryFallback = "failed to decode refresh token expiry, using issued expiry"

// CookieWriter записывает и удаляет cookie с refresh-токеном.
type CookieWriter struct {
	cfg    config.CookieConfig
	secure bool
	tokens api.TokenUseCase
}

// NewCookieWriter создает CookieWriter. secure включает атрибут Secure.
func NewCookieWriter(cfg config.CookieConfig, secure bool, tokens api.TokenUseCase) *CookieWriter {
	return &CookieWriter{cfg: cfg, secure: secure, tokens: tokens}
}

// Read возвращает refresh-токен из cookie запроса.
func (w *CookieWriter) Read(ctx fiber.Ctx) string {
	return ctx.Cookies(RefreshCookieName)
}

// Set записывает refresh-токен пары; срок жизни cookie равен exp токена.
func (w *CookieWriter) Set(ctx fiber.Ctx, pair *services.TokenPair) {
	expires, err := w.tokens.ExpiryOf(pair.RefreshToken)
	if err != nil {
		requestCtx := middleware.Context(ctx)
		logger.Log(requestCtx).Warn(requestCtx, msgExpiryFallback, zap.Error(err))
		expires = pair.RefreshExpiresAt
	}

	ctx.Cookie(w.cookie(pair.RefreshToken, expires))
}

// Clear удаляет cookie с refresh-токеном.
func (w *CookieWriter) Clear(ctx fiber.Ctx) {
	ctx.Cookie(w.cookie("", time.Unix(0, 0)))
}

func (w *CookieWriter) cookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     w.cfg.Path,
		Domain:   w.cfg.Domain,
		Expires:  expires,
		Secure:   w.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
