package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) pair(args mock.Arguments) (*services.TokenPair, error) {
	if p, ok := args.Get(0).(*services.TokenPair); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthUseCase) Register(ctx context.Context, input services.RegisterInput, agent string) (*services.TokenPair, error) {
	return m.pair(m.Called(ctx, input, agent))
}

func (m *mockAuthUseCase) Login(ctx context.Context, email, password, agent string) (*services.TokenPair, error) {
	return m.pair(m.Called(ctx, email, password, agent))
}

func (m *mockAuthUseCase) ProviderAuth(ctx context.Context, identity services.ProviderIdentity, agent string) (*services.TokenPair, error) {
	return m.pair(m.Called(ctx, identity, agent))
}

func (m *mockAuthUseCase) RefreshTokens(ctx context.Context, refreshToken, agent string) (*services.TokenPair, error) {
	return m.pair(m.Called(ctx, refreshToken, agent))
}

func (m *mockAuthUseCase) Logout(ctx context.Context, refreshToken string) {
	m.Called(ctx, refreshToken)
}

type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*entities.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*entities.User, error) {
	args := m.Called(ctx, limit, offset)
	if u, ok := args.Get(0).([]*entities.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserUseCase) UpdateUser(ctx context.Context, user *entities.User, input services.UpdateUserInput) (*entities.User, error) {
	args := m.Called(ctx, user, input)
	if u, ok := args.Get(0).(*entities.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserUseCase) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserUseCase) GetUserStatistics(ctx context.Context, userID string) (entities.StatisticsList, error) {
	args := m.Called(ctx, userID)
	if l, ok := args.Get(0).(entities.StatisticsList); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProviderGateway struct {
	mock.Mock
}

func (m *mockProviderGateway) AuthCodeURL(provider entities.Provider, state string) (string, error) {
	args := m.Called(provider, state)
	return args.String(0), args.Error(1)
}

func (m *mockProviderGateway) Identity(ctx context.Context, provider entities.Provider, code string) (services.ProviderIdentity, error) {
	args := m.Called(ctx, provider, code)
	return args.Get(0).(services.ProviderIdentity), args.Error(1)
}
