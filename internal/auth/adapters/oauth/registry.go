package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/yandex"

	"sessionauth/internal/auth/config"
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	svc "sessionauth/internal/auth/ports/services"
	"sessionauth/pkg/logger"
	"sessionauth/pkg/resilience"
)

const (
	methodIdentity = "Identity"

	msgExchangeFailed = "failed to exchange authorization code"
	msgProfileFailed  = "failed to fetch provider profile"
	msgIdentityReady  = "provider identity normalized"
	msgCircuitOpen    = "provider circuit is open"

	errCtxExchange = "exchanging authorization code"
	errCtxProfile  = "fetching provider profile"
	errCtxCircuit  = "calling provider"

	// ProviderResource - имя ресурса в ошибке неизвестного провайдера.
	ProviderResource = "Provider"
)

// Provider объединяет настройки OAuth2, чтение профиля и нормализацию для одного провайдера.
type Provider struct {
	Config     *oauth2.Config
	Fetcher    ProfileFetcher
	Normalizer Normalizer
}

// Registry реализует ProviderGateway для набора настроенных провайдеров.
// Запросы к каждому провайдеру идут через собственный Circuit Breaker.
type Registry struct {
	providers map[entities.Provider]Provider
	breakers  map[entities.Provider]*resilience.CircuitBreaker
	breaker   resilience.CircuitBreakerConfig
	retry     resilience.RetryConfig
}

// Option настраивает Registry.
type Option func(*Registry)

// WithResilience задает настройки Circuit Breaker и повторных попыток чтения профиля.
func WithResilience(cfg config.OAuthResilienceConfig) Option {
	return func(r *Registry) {
		r.breaker.ErrorThreshold = cfg.BreakerThreshold
		r.breaker.Timeout = cfg.BreakerTimeout
		r.breaker.SuccessThreshold = cfg.BreakerSuccesses
		r.retry.MaxAttempts = cfg.RetryAttempts
		r.retry.InitialBackoff = cfg.RetryBackoff
		r.retry.MaxBackoff = cfg.RetryMaxBackoff
	}
}

// NewRegistry создает пустой реестр.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		providers: make(map[entities.Provider]Provider),
		breakers:  make(map[entities.Provider]*resilience.CircuitBreaker),
		breaker:   resilience.DefaultCircuitBreakerConfig(),
		retry:     resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.breaker.IsFailure = IsTransient
	r.retry.ShouldRetry = IsTransient
	return r
}

// NewRegistryFromConfig регистрирует провайдеров, для которых заданы client id и secret.
func NewRegistryFromConfig(cfg config.OAuthConfig) svc.ProviderGateway {
	r := NewRegistry(WithResilience(cfg.Resilience))

	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		r.Register(entities.ProviderGoogle, Provider{
			Config: &oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				RedirectURL:  cfg.Google.CallbackURL,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			Fetcher: GoogleFetcher{UserInfoURL: GoogleUserInfoURL},
		})
	}

	if cfg.Yandex.ClientID != "" && cfg.Yandex.ClientSecret != "" {
		r.Register(entities.ProviderYandex, Provider{
			Config: &oauth2.Config{
				ClientID:     cfg.Yandex.ClientID,
				ClientSecret: cfg.Yandex.ClientSecret,
				RedirectURL:  cfg.Yandex.CallbackURL,
				Endpoint:     yandex.Endpoint,
				Scopes:       []string{"login:email", "login:info", "login:avatar"},
			},
			Fetcher: YandexFetcher{InfoURL: YandexInfoURL, AvatarURL: YandexAvatarURL},
		})
	}

	if cfg.Github.ClientID != "" && cfg.Github.ClientSecret != "" {
		r.Register(entities.ProviderGithub, Provider{
			Config: &oauth2.Config{
				ClientID:     cfg.Github.ClientID,
				ClientSecret: cfg.Github.ClientSecret,
				RedirectURL:  cfg.Github.CallbackURL,
				Endpoint:     github.Endpoint,
				Scopes:       []string{"user:email"},
			},
			Fetcher: GithubFetcher{UserURL: GithubUserURL, EmailsURL: GithubEmailsURL},
		})
	}

	return r
}

// Register добавляет провайдера. Если нормализатор не задан, берется стандартный для тега.
func (r *Registry) Register(tag entities.Provider, p Provider) {
	if p.Normalizer == nil {
		if n, err := NewNormalizer(tag); err == nil {
			p.Normalizer = n
		}
	}
	r.providers[tag] = p
	r.breakers[tag] = resilience.NewCircuitBreaker(string(tag), r.breaker)
}

func (r *Registry) lookup(tag entities.Provider) (Provider, error) {
	p, ok := r.providers[tag]
	if !ok || p.Normalizer == nil {
		return Provider{}, &services.NotFoundError{Resource: ProviderResource}
	}
	return p, nil
}

// AuthCodeURL возвращает адрес страницы согласия провайдера.
func (r *Registry) AuthCodeURL(tag entities.Provider, state string) (string, error) {
	p, err := r.lookup(tag)
	if err != nil {
		return "", err
	}
	return p.Config.AuthCodeURL(state), nil
}

// Identity обменивает код на токен, читает профиль и нормализует его.
func (r *Registry) Identity(ctx context.Context, tag entities.Provider, code string) (services.ProviderIdentity, error) {
	log := logger.Log(ctx).With(zap.String("method", methodIdentity), zap.String("provider", string(tag)))

	p, err := r.lookup(tag)
	if err != nil {
		return services.ProviderIdentity{}, err
	}

	breaker := r.breakers[tag]

	var token *oauth2.Token
	err = breaker.Execute(ctx, func() error {
		var exchangeErr error
		token, exchangeErr = p.Config.Exchange(ctx, code)
		return exchangeErr
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		log.Warn(ctx, msgCircuitOpen)
		return services.ProviderIdentity{}, fmt.Errorf("%s: %w", errCtxCircuit, err)
	}
	if err != nil {
		log.Debug(ctx, msgExchangeFailed, zap.Error(err))
		if IsTransient(err) {
			return services.ProviderIdentity{}, fmt.Errorf("%s: %w", errCtxExchange, err)
		}
		return services.ProviderIdentity{}, fmt.Errorf("%s: %w: %w", errCtxExchange, services.ErrUnauthorized, err)
	}

	client := p.Config.Client(ctx, token)
	retry := resilience.NewRetry(string(tag), r.retry)

	var raw RawProfile
	err = breaker.Execute(ctx, func() error {
		return retry.Execute(ctx, func() error {
			var fetchErr error
			raw, fetchErr = p.Fetcher.Fetch(ctx, client)
			return fetchErr
		})
	})
	if err != nil {
		log.Error(ctx, msgProfileFailed, zap.Error(err))
		return services.ProviderIdentity{}, fmt.Errorf("%s: %w", errCtxProfile, err)
	}

	identity := p.Normalizer.Normalize(raw)
	log.Debug(ctx, msgIdentityReady, zap.Bool("has_email", identity.Email != ""))
	return identity, nil
}

// IsTransient сообщает, является ли ошибка запроса к провайдеру временным сбоем:
// сетевая ошибка или ответ 5xx/429. Отказы в авторизации временными не считаются.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return isTransientStatus(retrieveErr.Response.StatusCode)
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return isTransientStatus(statusErr.Code)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isTransientStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

// NewState генерирует случайное значение state для защиты callback.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
