// Package oauth связывает сервис с внешними провайдерами: обмен кодом через golang.org/x/oauth2,
// чтение профиля и приведение его к ProviderIdentity.
package oauth

import (
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

// ProfileValue - элемент списка email или фотографий в профиле провайдера.
type ProfileValue struct {
	Value    string
	Primary  bool
	Verified bool
}

// RawProfile - профиль пользователя в том виде, в каком его отдал провайдер.
type RawProfile struct {
	Provider  string
	Username  string
	GivenName string
	Emails    []ProfileValue
	Photos    []ProfileValue
}

// Normalizer приводит профиль конкретного провайдера к ProviderIdentity.
type Normalizer interface {
	Provider() entities.Provider
	Normalize(raw RawProfile) services.ProviderIdentity
}

type googleNormalizer struct{}

func (googleNormalizer) Provider() entities.Provider { return entities.ProviderGoogle }

func (n googleNormalizer) Normalize(raw RawProfile) services.ProviderIdentity {
	return identity(raw, raw.GivenName, n.Provider())
}

type yandexNormalizer struct{}

func (yandexNormalizer) Provider() entities.Provider { return entities.ProviderYandex }

func (n yandexNormalizer) Normalize(raw RawProfile) services.ProviderIdentity {
	return identity(raw, raw.GivenName, n.Provider())
}

type githubNormalizer struct{}

func (githubNormalizer) Provider() entities.Provider { return entities.ProviderGithub }

func (n githubNormalizer) Normalize(raw RawProfile) services.ProviderIdentity {
	return identity(raw, raw.Username, n.Provider())
}

// NewNormalizer возвращает нормализатор для провайдера.
func NewNormalizer(provider entities.Provider) (Normalizer, error) {
	switch provider {
	case entities.ProviderGoogle:
		return googleNormalizer{}, nil
	case entities.ProviderYandex:
		return yandexNormalizer{}, nil
	case entities.ProviderGithub:
		return githubNormalizer{}, nil
	default:
		return nil, entities.ErrUnknownProvider
	}
}

func identity(raw RawProfile, name string, own entities.Provider) services.ProviderIdentity {
	provider := own
	if raw.Provider != "" {
		provider = entities.Provider(raw.Provider)
	}

	return services.ProviderIdentity{
		Email:    pickEmail(raw.Emails),
		Name:     name,
		Image:    first(raw.Photos),
		Provider: provider,
	}
}

// pickEmail выбирает первый основной подтвержденный адрес, иначе первый адрес, иначе пустую строку.
func pickEmail(emails []ProfileValue) string {
	for _, e := range emails {
		if e.Primary && e.Verified && e.Value != "" {
			return e.Value
		}
	}
	return first(emails)
}

func first(values []ProfileValue) string {
	if len(values) == 0 {
		return ""
	}
	return values[0].Value
}
