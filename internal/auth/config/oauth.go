package config

import "time"

// OAuthProviderConfig содержит учетные данные приложения у внешнего провайдера.
type OAuthProviderConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
}

// IsEnabled сообщает, настроен ли провайдер.
func (p *OAuthProviderConfig) IsEnabled() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// OAuthConfig содержит настройки всех внешних провайдеров.
type OAuthConfig struct {
	Google OAuthGoogleConfig `yaml:"google"`
	Yandex OAuthYandexConfig `yaml:"yandex"`
	Github OAuthGithubConfig `yaml:"github"`

	Resilience OAuthResilienceConfig `yaml:"resilience"`
}

// OAuthResilienceConfig - настройки Circuit Breaker и повторных попыток для запросов к провайдерам.
type OAuthResilienceConfig struct {
	BreakerThreshold int           `yaml:"breaker_threshold" env:"AUTH_OAUTH_BREAKER_THRESHOLD" env-default:"5"`
	BreakerTimeout   time.Duration `yaml:"breaker_timeout" env:"AUTH_OAUTH_BREAKER_TIMEOUT" env-default:"30s"`
	BreakerSuccesses int           `yaml:"breaker_successes" env:"AUTH_OAUTH_BREAKER_SUCCESSES" env-default:"2"`
	RetryAttempts    int           `yaml:"retry_attempts" env:"AUTH_OAUTH_RETRY_ATTEMPTS" env-default:"3"`
	RetryBackoff     time.Duration `yaml:"retry_backoff" env:"AUTH_OAUTH_RETRY_BACKOFF" env-default:"100ms"`
	RetryMaxBackoff  time.Duration `yaml:"retry_max_backoff" env:"AUTH_OAUTH_RETRY_MAX_BACKOFF" env-default:"1s"`
}

// OAuthGoogleConfig - настройки Google.
type OAuthGoogleConfig struct {
	ClientID     string `yaml:"client_id" env:"AUTH_GOOGLE_CLIENT_ID" env-default:""`
	ClientSecret string `yaml:"client_secret" env:"AUTH_GOOGLE_CLIENT_SECRET" env-default:""`
	CallbackURL  string `yaml:"callback_url" env:"AUTH_GOOGLE_CALLBACK_URL" env-default:"http://localhost:8080/auth/google/redirect"`
}

// OAuthYandexConfig - настройки Яндекса.
type OAuthYandexConfig struct {
	ClientID     string `yaml:"client_id" env:"AUTH_YANDEX_CLIENT_ID" env-default:""`
	ClientSecret string `yaml:"client_secret" env:"AUTH_YANDEX_CLIENT_SECRET" env-default:""`
	CallbackURL  string `yaml:"callback_url" env:"AUTH_YANDEX_CALLBACK_URL" env-default:"http://localhost:8080/auth/yandex/redirect"`
}

// OAuthGithubConfig - настройки GitHub.
type OAuthGithubConfig struct {
	ClientID     string `yaml:"client_id" env:"AUTH_GITHUB_CLIENT_ID" env-default:""`
	ClientSecret string `yaml:"client_secret" env:"AUTH_GITHUB_CLIENT_SECRET" env-default:""`
	CallbackURL  string `yaml:"callback_url" env:"AUTH_GITHUB_CALLBACK_URL" env-default:"http://localhost:8080/auth/github/redirect"`
}

// Providers возвращает настройки провайдеров по имени.
func (o *OAuthConfig) Providers() map[string]OAuthProviderConfig {
	return map[string]OAuthProviderConfig{
		"google": OAuthProviderConfig(o.Google),
		"yandex": OAuthProviderConfig(o.Yandex),
		"github": OAuthProviderConfig(o.Github),
	}
}

// Enabled возвращает имена настроенных провайдеров.
func (o *OAuthConfig) Enabled() []string {
	var names []string
	for _, name := range []string{"google", "yandex", "github"} {
		if p := o.Providers()[name]; p.IsEnabled() {
			names = append(names, name)
		}
	}
	return names
}
