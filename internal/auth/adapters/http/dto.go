package http

import (
	"time"

	"sessionauth/internal/auth/domain/entities"
)

// LoginRequest - тело запроса на вход.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest - тело запроса на регистрацию.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UpdateUserRequest - тело запроса на изменение пользователя. Отсутствующие поля не меняются.
type UpdateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Password string `json:"password"`
}

// TokenResponse - тело ответа с access-токеном.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// UserResponse - публичное представление пользователя без хэша пароля.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	Provider  string    `json:"provider"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatisticsResponse - представление записи статистики.
type StatisticsResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Level     int       `json:"level"`
	TotalTime string    `json:"totalTime"`
	Score     int       `json:"score"`
	Other     string    `json:"other,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(u *entities.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Image:     u.Image,
		Provider:  string(u.Provider),
		Roles:     u.RoleStrings(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func newUserList(users []*entities.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	return out
}

func newStatisticsList(list entities.StatisticsList) []StatisticsResponse {
	out := make([]StatisticsResponse, 0, len(list))
	for _, s := range list {
		out = append(out, StatisticsResponse{
			ID:        s.ID,
			UserID:    s.UserID,
			ProductID: s.ProductID,
			Level:     s.Level,
			TotalTime: s.TotalTime,
			Score:     s.Score,
			Other:     s.Other,
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}
