package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sessionauth/internal/auth/adapters/http/middleware"
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/pkg/logger"
)

// Тексты ответов об ошибках.
const (
	MsgUnauthorized = "User is not authorized"
	MsgForbidden    = "Access Denied"
	MsgNotFound     = "Not found"
	MsgConflict     = "Already exist"
	MsgBadRequest   = "Bad Request"
	MsgInternal     = "Internal error"

	resourceUser     = "User"
	resourceProvider = "Provider"

	LogClientError = "request rejected"
	LogServerError = "request failed with internal error"
)

// ErrorResponse - тело ответа об ошибке.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// ErrorHandler переводит ошибку обработчика в код ответа и тело ErrorResponse.
// Подробности внутренних ошибок клиенту не отдаются.
func ErrorHandler(ctx fiber.Ctx, err error) error {
	status, message := classify(err)

	requestCtx := middleware.Context(ctx)
	log := logger.Log(requestCtx).With(
		zap.String("path", ctx.Path()),
		zap.Int("status", status),
	)
	if status >= fiber.StatusInternalServerError {
		log.Error(requestCtx, LogServerError, zap.Error(err))
	} else {
		log.Debug(requestCtx, LogClientError, zap.Error(err))
	}

	return ctx.Status(status).JSON(ErrorResponse{StatusCode: status, Message: message})
}

func classify(err error) (int, string) {
	var (
		notFound *services.NotFoundError
		conflict *services.ConflictError
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, notFound.Resource + " " + MsgNotFound
	case errors.Is(err, entities.ErrUserNotFound):
		return fiber.StatusNotFound, resourceUser + " " + MsgNotFound
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, MsgNotFound
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized, MsgUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, MsgForbidden
	case errors.As(err, &conflict):
		return fiber.StatusConflict, conflict.Field + " " + MsgConflict
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest, MsgBadRequest
	case errors.As(err, &fiberErr):
		return fiberErr.Code, statusMessage(fiberErr.Code)
	default:
		return fiber.StatusInternalServerError, MsgInternal
	}
}

func statusMessage(code int) string {
	switch code {
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return MsgNotFound
	case fiber.StatusUnauthorized:
		return MsgUnauthorized
	case fiber.StatusForbidden:
		return MsgForbidden
	case fiber.StatusConflict:
		return MsgConflict
	}
	if code >= fiber.StatusInternalServerError {
		return MsgInternal
	}
	return MsgBadRequest
}
