// Package http содержит HTTP транспорт сервиса аутентификации на fiber.
package http

import (
	"github.com/gofiber/fiber/v3"

	"sessionauth/internal/auth/adapters/http/middleware"
	"sessionauth/internal/auth/ports/api"
)

// Handlers объединяет обработчики, которые подключает SetupRouter.
type Handlers struct {
	Auth  *AuthHandler
	Users *UserHandler
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, handlers Handlers, tokens api.TokenUseCase) {
	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// Публичные маршруты. Статические пути регистрируются раньше /:provider.
	authRoutes := app.Group("/auth")
	authRoutes.Post("/login", handlers.Auth.Login)
	authRoutes.Post("/register", handlers.Auth.Register)
	authRoutes.Get("/refresh-tokens", handlers.Auth.RefreshTokens)
	authRoutes.Get("/logout", handlers.Auth.Logout)
	authRoutes.Get("/:provider", handlers.Auth.ProviderRedirect)
	authRoutes.Get("/:provider/redirect", handlers.Auth.ProviderCallback)

	// Защищенные маршруты.
	requireAuth := middleware.NewAuthMiddleware(tokens)

	userRoutes := app.Group("/users", requireAuth)
	userRoutes.Get("/", handlers.Users.ListUsers)
	userRoutes.Get("/:userId", handlers.Users.GetUser)
	userRoutes.Put("/:userId", handlers.Users.UpdateUser)
	userRoutes.Delete("/:userId", handlers.Users.DeleteUser)

	statsRoutes := app.Group("/stats", requireAuth)
	statsRoutes.Get("/users/:userId", handlers.Users.GetUserStatistics)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(_ fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
