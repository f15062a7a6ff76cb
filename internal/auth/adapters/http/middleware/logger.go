package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sessionauth/pkg/logger"
)

// Константы для логирования.
const (
	LogRequestStarted   = "request started"
	LogRequestCompleted = "request completed"
	LogRequestFailed    = "request failed"
	LogErrorHandler     = "error handler failed"
)

// NewLoggerMiddleware создает новое промежуточное ПО для логирования HTTP запросов.
// Ошибка цепочки передается в ErrorHandler приложения до записи итогового статуса.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := Context(ctx)
		start := time.Now()

		log := logger.Log(requestCtx).With(
			zap.String("path", ctx.Path()),
			zap.String("method", ctx.Method()),
			zap.String("ip", ctx.IP()),
		)

		log.Debug(requestCtx, LogRequestStarted)

		chainErr := ctx.Next()
		if chainErr != nil {
			if err := ctx.App().ErrorHandler(ctx, chainErr); err != nil {
				log.Error(requestCtx, LogErrorHandler, zap.Error(err))
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := []zap.Field{
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}

		if chainErr != nil {
			log.Info(requestCtx, LogRequestFailed, append(fields, zap.Error(chainErr))...)
			return nil
		}

		log.Info(requestCtx, LogRequestCompleted, fields...)
		return nil
	}
}
