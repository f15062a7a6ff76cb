// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"sessionauth/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

type requestContextKey struct{}

// NewRequestIDMiddleware кладет идентификатор запроса в контекст и возвращает его в ответе.
// Идентификатор берется из X-Request-ID, если он пригоден для логов, иначе генерируется.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.Get(HeaderRequestID)
		if !logger.ValidRequestID(requestID) {
			requestID = logger.GenerateRequestID()
		}

		ctx.Locals(requestContextKey{}, logger.NewRequestIDContext(ctx.Context(), requestID))
		ctx.Set(HeaderRequestID, requestID)

		return ctx.Next()
	}
}

// Context возвращает контекст запроса с идентификатором запроса.
func Context(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(requestContextKey{}).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}
