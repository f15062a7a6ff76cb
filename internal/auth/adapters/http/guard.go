package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sessionauth/internal/auth/adapters/http/middleware"
	"sessionauth/internal/auth/domain/access"
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/pkg/logger"
)

const msgAccessDenied = "access check failed"

// guard проверяет доступ вызывающего к загруженному результату.
// Ошибка загрузки "не найдено" превращается в пустой результат, чтобы ответ назвал ресурс.
func guard[T any](ctx fiber.Ctx, resource string, result T, loadErr error) error {
	if loadErr != nil {
		if !errors.Is(loadErr, entities.ErrUserNotFound) && !errors.Is(loadErr, services.ErrNotFound) {
			return loadErr
		}
		var zero T
		result = zero
	}

	caller, ok := middleware.CallerFrom(ctx)
	if !ok {
		return services.ErrUnauthorized
	}

	if err := access.Check(caller, result, resource); err != nil {
		requestCtx := middleware.Context(ctx)
		logger.Log(requestCtx).Debug(requestCtx, msgAccessDenied,
			zap.String("resource", resource),
			zap.String("callerID", caller.UserID),
			zap.Error(err))
		return err
	}

	return nil
}
