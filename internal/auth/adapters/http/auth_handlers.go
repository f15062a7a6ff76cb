package http

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"sessionauth/internal/auth/adapters/http/middleware"
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/api"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister         = "auth handler: register"
	LogHandlerLogin            = "auth handler: login"
	LogHandlerProviderRedirect = "auth handler: provider redirect"
	LogHandlerProviderCallback = "auth handler: provider callback"
	LogHandlerRefreshTokens    = "auth handler: refresh tokens" // #nosec G101 - not a credential
	LogHandlerLogout           = "auth handler: logout"

	ErrorInvalidRequest  = "invalid request"
	ErrorProviderDenied  = "provider returned an error"
	ErrorStateMismatch   = "oauth state issued for another provider"
	ErrorMissingCode     = "authorization code is missing"
	ErrorNoRefreshCookie = "refresh token cookie is missing"

	errCtxBindingJSON     = "binding JSON"
	errCtxGeneratingState = "generating oauth state"
	errCtxSavingState     = "saving oauth state"
)

// AuthHandler содержит HTTP обработчики аутентификации.
type AuthHandler struct {
	auth      api.AuthUseCase
	providers svc.ProviderGateway
	states    svc.StateStore
	cookies   *CookieWriter
	newState  func() (string, error)
}

// NewAuthHandler создает новый экземпляр обработчика аутентификации.
// newState генерирует значение OAuth state.
func NewAuthHandler(
	auth api.AuthUseCase,
	providers svc.ProviderGateway,
	states svc.StateStore,
	cookies *CookieWriter,
	newState func() (string, error),
) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		providers: providers,
		states:    states,
		cookies:   cookies,
		newState:  newState,
	}
}

// Login обрабатывает вход по email и паролю.
func (h *AuthHandler) Login(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerLogin)

	var req LoginRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		return fmt.Errorf("%s: %w: %w", errCtxBindingJSON, services.ErrValidation, err)
	}
	if req.Email == "" || req.Password == "" {
		return fmt.Errorf("%s: %w", ErrorInvalidRequest, services.ErrValidation)
	}

	pair, err := h.auth.Login(requestCtx, req.Email, req.Password, userAgent(ctx))
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	return h.sendTokens(ctx, pair)
}

// Register обрабатывает регистрацию. Cookie с refresh-токеном не выставляется.
func (h *AuthHandler) Register(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerRegister)

	var req RegisterRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		return fmt.Errorf("%s: %w: %w", errCtxBindingJSON, services.ErrValidation, err)
	}

	pair, err := h.auth.Register(requestCtx, services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	}, userAgent(ctx))
	if err != nil {
		return fmt.Errorf("registering user: %w", err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(TokenResponse{AccessToken: pair.AccessToken}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// ProviderRedirect перенаправляет на страницу согласия провайдера.
func (h *AuthHandler) ProviderRedirect(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)

	provider, err := providerParam(ctx)
	if err != nil {
		return err
	}

	log := logger.Log(requestCtx).With(zap.String("provider", string(provider)))
	log.Debug(requestCtx, LogHandlerProviderRedirect)

	state, err := h.newState()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxGeneratingState, err)
	}

	url, err := h.providers.AuthCodeURL(provider, state)
	if err != nil {
		return fmt.Errorf("building consent url: %w", err)
	}

	if err := h.states.Save(requestCtx, state, provider); err != nil {
		return fmt.Errorf("%s: %w", errCtxSavingState, err)
	}

	if err := ctx.Redirect().Status(fiber.StatusFound).To(url); err != nil {
		return fmt.Errorf("sending redirect: %w", err)
	}
	return nil
}

// ProviderCallback завершает вход через провайдера: проверяет state, обменивает код
// на профиль и выпускает пару токенов.
func (h *AuthHandler) ProviderCallback(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)

	provider, err := providerParam(ctx)
	if err != nil {
		return err
	}

	log := logger.Log(requestCtx).With(zap.String("provider", string(provider)))
	log.Debug(requestCtx, LogHandlerProviderCallback)

	issuedFor, err := h.states.Consume(requestCtx, ctx.Query("state"))
	if err != nil {
		return fmt.Errorf("consuming oauth state: %w", err)
	}
	if issuedFor != provider {
		log.Debug(requestCtx, ErrorStateMismatch, zap.String("issuedFor", string(issuedFor)))
		return fmt.Errorf("%s: %w", ErrorStateMismatch, services.ErrInvalidState)
	}

	if reason := ctx.Query("error"); reason != "" {
		log.Debug(requestCtx, ErrorProviderDenied, zap.String("reason", reason))
		return fmt.Errorf("%s: %w", ErrorProviderDenied, services.ErrUnauthorized)
	}

	code := ctx.Query("code")
	if code == "" {
		return fmt.Errorf("%s: %w", ErrorMissingCode, services.ErrUnauthorized)
	}

	identity, err := h.providers.Identity(requestCtx, provider, code)
	if err != nil {
		return fmt.Errorf("resolving provider identity: %w", err)
	}

	pair, err := h.auth.ProviderAuth(requestCtx, identity, userAgent(ctx))
	if err != nil {
		return fmt.Errorf("provider sign-in: %w", err)
	}

	return h.sendTokens(ctx, pair)
}

// RefreshTokens обновляет пару токенов по refresh-токену из cookie.
func (h *AuthHandler) RefreshTokens(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerRefreshTokens)

	token := h.cookies.Read(ctx)
	if token == "" {
		return fmt.Errorf("%s: %w", ErrorNoRefreshCookie, services.ErrUnauthorized)
	}

	pair, err := h.auth.RefreshTokens(requestCtx, token, userAgent(ctx))
	if err != nil {
		return fmt.Errorf("refreshing tokens: %w", err)
	}

	return h.sendTokens(ctx, pair)
}

// Logout отзывает сессию и удаляет cookie. Всегда отвечает 200.
func (h *AuthHandler) Logout(ctx fiber.Ctx) error {
	requestCtx := middleware.Context(ctx)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerLogout)

	token := h.cookies.Read(ctx)
	if token == "" {
		return ctx.SendStatus(fiber.StatusOK)
	}

	h.auth.Logout(requestCtx, token)
	h.cookies.Clear(ctx)

	return ctx.SendStatus(fiber.StatusOK)
}

func (h *AuthHandler) sendTokens(ctx fiber.Ctx, pair *services.TokenPair) error {
	h.cookies.Set(ctx, pair)

	if err := ctx.Status(fiber.StatusCreated).JSON(TokenResponse{AccessToken: pair.AccessToken}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

func providerParam(ctx fiber.Ctx) (entities.Provider, error) {
	provider, err := entities.ParseProvider(ctx.Params("provider"))
	if err != nil {
		return "", fmt.Errorf("%w: %w", &services.NotFoundError{Resource: resourceProvider}, err)
	}
	return provider, nil
}

func userAgent(ctx fiber.Ctx) string {
	return ctx.Get(fiber.HeaderUserAgent)
}
