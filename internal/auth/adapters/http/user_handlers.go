package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"sessionauth/internal/auth/adapters/http/middleware"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
)

// UserHandler содержит HTTP обработчики ресурсов пользователей.
type UserHandler struct {
	users api.UserUseCase
}

// NewUserHandler создает новый экземпляр обработчика пользователей.
func NewUserHandler(users api.UserUseCase) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers отдает страницу пользователей любому аутентифицированному вызывающему.
func (h *UserHandler) ListUsers(ctx fiber.Ctx) error {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(ctx, "offset")
	if err != nil {
		return err
	}

	users, err := h.users.ListUsers(middleware.Context(ctx), limit, offset)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	return ctx.JSON(newUserList(users))
}

// GetUser отдает пользователя его владельцу или администратору.
func (h *UserHandler) GetUser(ctx fiber.Ctx) error {
	user, err := h.users.GetUser(middleware.Context(ctx), ctx.Params("userId"))
	if err := guard(ctx, resourceUser, user, err); err != nil {
		return err
	}

	return ctx.JSON(newUserResponse(user))
}

// UpdateUser изменяет пользователя после проверки доступа и отдает обновленную запись.
func (h *UserHandler) UpdateUser(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)

	var req UpdateUserRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		return fmt.Errorf("%s: %w: %w", errCtxBindingJSON, services.ErrValidation, err)
	}

	user, err := h.users.GetUser(requestCtx, ctx.Params("userId"))
	if err := guard(ctx, resourceUser, user, err); err != nil {
		return err
	}

	updated, err := h.users.UpdateUser(requestCtx, user, services.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Image:    req.Image,
		Password: req.Password,
	})
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	return ctx.JSON(newUserResponse(updated))
}

// DeleteUser удаляет пользователя после проверки доступа и отдает удаленную запись.
func (h *UserHandler) DeleteUser(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)

	user, err := h.users.GetUser(requestCtx, ctx.Params("userId"))
	if err := guard(ctx, resourceUser, user, err); err != nil {
		return err
	}

	if err := h.users.DeleteUser(requestCtx, user.ID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	return ctx.JSON(newUserResponse(user))
}

// GetUserStatistics отдает статистику пользователя его владельцу или администратору.
func (h *UserHandler) GetUserStatistics(ctx fiber.Ctx) error {
	list, err := h.users.GetUserStatistics(middleware.Context(ctx), ctx.Params("userId"))
	if err := guard(ctx, resourceUser, list, err); err != nil {
		return err
	}

	return ctx.JSON(newStatisticsList(list))
}

func queryInt(ctx fiber.Ctx, key string) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, services.ErrValidation)
	}
	return value, nil
}
