package config

// CookieConfig содержит настройки cookie с refresh-токеном. Имя cookie фиксировано и не настраивается.
type CookieConfig struct {
	Path   string `yaml:"path" env:"AUTH_COOKIE_PATH" env-default:"/"`
	Domain string `yaml:"domain" env:"AUTH_COOKIE_DOMAIN" env-default:""`
}
