package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Адреса профилей провайдеров.
const (
	GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	YandexInfoURL     = "https://login.yandex.ru/info?format=json"
	YandexAvatarURL   = "https://avatars.yandex.net/get-yapic/%s/islands-200"
	GithubUserURL     = "https://api.github.com/user"
	GithubEmailsURL   = "https://api.github.com/user/emails"
)

// ErrProfileRequest - провайдер не вернул профиль.
var ErrProfileRequest = errors.New("profile request failed")

// StatusError - провайдер ответил на запрос профиля статусом, отличным от 200.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrProfileRequest, e.URL, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrProfileRequest
}

// ProfileFetcher читает профиль пользователя клиентом, авторизованным токеном провайдера.
type ProfileFetcher interface {
	Fetch(ctx context.Context, client *http.Client) (RawProfile, error)
}

// GoogleFetcher читает профиль из OpenID userinfo.
type GoogleFetcher struct {
	UserInfoURL string
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Picture       string `json:"picture"`
}

// Fetch реализует ProfileFetcher.
func (f GoogleFetcher) Fetch(ctx context.Context, client *http.Client) (RawProfile, error) {
	var info googleUserInfo
	if err := getJSON(ctx, client, f.UserInfoURL, &info); err != nil {
		return RawProfile{}, err
	}

	profile := RawProfile{
		Provider:  "google",
		Username:  info.Name,
		GivenName: info.GivenName,
	}
	if info.Email != "" {
		profile.Emails = []ProfileValue{{Value: info.Email, Primary: true, Verified: info.EmailVerified}}
	}
	if info.Picture != "" {
		profile.Photos = []ProfileValue{{Value: info.Picture}}
	}
	return profile, nil
}

// YandexFetcher читает профиль из Яндекс ID.
type YandexFetcher struct {
	InfoURL   string
	AvatarURL string
}

type yandexInfo struct {
	Login           string   `json:"login"`
	FirstName       string   `json:"first_name"`
	DefaultEmail    string   `json:"default_email"`
	Emails          []string `json:"emails"`
	DefaultAvatarID string   `json:"default_avatar_id"`
	IsAvatarEmpty   bool     `json:"is_avatar_empty"`
}

// Fetch реализует ProfileFetcher.
func (f YandexFetcher) Fetch(ctx context.Context, client *http.Client) (RawProfile, error) {
	var info yandexInfo
	if err := getJSON(ctx, client, f.InfoURL, &info); err != nil {
		return RawProfile{}, err
	}

	profile := RawProfile{
		Provider:  "yandex",
		Username:  info.Login,
		GivenName: info.FirstName,
	}
	if info.DefaultEmail != "" {
		profile.Emails = append(profile.Emails, ProfileValue{Value: info.DefaultEmail, Primary: true, Verified: true})
	}
	for _, e := range info.Emails {
		if e != info.DefaultEmail {
			profile.Emails = append(profile.Emails, ProfileValue{Value: e})
		}
	}
	if info.DefaultAvatarID != "" && !info.IsAvatarEmpty {
		profile.Photos = []ProfileValue{{Value: fmt.Sprintf(f.AvatarURL, info.DefaultAvatarID)}}
	}
	return profile, nil
}

// GithubFetcher читает профиль и адреса почты из REST API GitHub.
type GithubFetcher struct {
	UserURL   string
	EmailsURL string
}

type githubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Fetch реализует ProfileFetcher. Если список адресов недоступен, используется публичный email профиля.
func (f GithubFetcher) Fetch(ctx context.Context, client *http.Client) (RawProfile, error) {
	var user githubUser
	if err := getJSON(ctx, client, f.UserURL, &user); err != nil {
		return RawProfile{}, err
	}

	profile := RawProfile{
		Provider:  "github",
		Username:  user.Login,
		GivenName: user.Name,
	}

	var emails []githubEmail
	if err := getJSON(ctx, client, f.EmailsURL, &emails); err == nil {
		for _, e := range emails {
			profile.Emails = append(profile.Emails, ProfileValue{Value: e.Email, Primary: e.Primary, Verified: e.Verified})
		}
	}
	if len(profile.Emails) == 0 && user.Email != "" {
		profile.Emails = []ProfileValue{{Value: user.Email}}
	}
	if user.AvatarURL != "" {
		profile.Photos = []ProfileValue{{Value: user.AvatarURL}}
	}
	return profile, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProfileRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProfileRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: url, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrProfileRequest, url, err)
	}
	return nil
}
