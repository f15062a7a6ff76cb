package app_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

type memoryUsers struct {
	mu    sync.Mutex
	byID  map[string]*entities.User
	order []string
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[string]*entities.User)}
}

func (m *memoryUsers) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if u.Email == user.Email {
			return nil, &services.ConflictError{Field: "Email"}
		}
	}

	created := *user
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.byID[created.ID] = &created
	m.order = append(m.order, created.ID)

	out := created
	return &out, nil
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (m *memoryUsers) Update(_ context.Context, user *entities.User) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[user.ID]; !ok {
		return nil, entities.ErrUserNotFound
	}
	updated := *user
	updated.UpdatedAt = time.Now()
	m.byID[user.ID] = &updated

	out := updated
	return &out, nil
}

func (m *memoryUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return entities.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryUsers) List(_ context.Context, limit, offset int) ([]*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := []*entities.User{}
	for i, id := range m.order {
		u, ok := m.byID[id]
		if !ok || i < offset {
			continue
		}
		if len(users) == limit {
			break
		}
		out := *u
		users = append(users, &out)
	}
	return users, nil
}

func (m *memoryUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]services.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]services.Session)}
}

func (m *memorySessions) Store(_ context.Context, session *services.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, s := range m.sessions {
		if s.UserID == session.UserID && s.UserAgent == session.UserAgent {
			delete(m.sessions, token)
		}
	}
	m.sessions[session.Token] = *session
	return nil
}

func (m *memorySessions) FindByToken(_ context.Context, token string) (*services.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memorySessions) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[token]; !ok {
		return services.ErrSessionNotFound
	}
	delete(m.sessions, token)
	return nil
}

func (m *memorySessions) CleanupExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for token, s := range m.sessions {
		if s.ExpiresAt.Before(time.Now()) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed, nil
}

func (m *memorySessions) agents(userID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var agents []string
	for _, s := range m.sessions {
		if s.UserID == userID {
			agents = append(agents, s.UserAgent)
		}
	}
	sort.Strings(agents)
	return agents
}

// barrierSessions задерживает FindByToken, пока его не вызовут n раз.
type barrierSessions struct {
	*memorySessions
	wg *sync.WaitGroup
}

func (b *barrierSessions) FindByToken(ctx context.Context, token string) (*services.Session, error) {
	s, err := b.memorySessions.FindByToken(ctx, token)
	b.wg.Done()
	b.wg.Wait()
	return s, err
}

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Store(ctx context.Context, session *services.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepository) FindByToken(ctx context.Context, token string) (*services.Session, error) {
	args := m.Called(ctx, token)
	if s, ok := args.Get(0).(*services.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepository) Delete(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockSessionRepository) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*entities.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*entities.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*entities.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*entities.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) List(ctx context.Context, limit, offset int) ([]*entities.User, error) {
	args := m.Called(ctx, limit, offset)
	if u, ok := args.Get(0).([]*entities.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStatisticsRepository struct {
	mock.Mock
}

func (m *mockStatisticsRepository) FindByUserID(ctx context.Context, userID string) (entities.StatisticsList, error) {
	args := m.Called(ctx, userID)
	if l, ok := args.Get(0).(entities.StatisticsList); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
