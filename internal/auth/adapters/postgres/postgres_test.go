package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessionauth/internal/auth/adapters/postgres"
	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
	"sessionauth/internal/auth/ports/repositories"
	"sessionauth/pkg/logger"
)

var ErrDatabaseConnection = errors.New("database connection error")

var userRowColumns = []string{"id", "email", "name", "image", "password_hash", "provider", "roles", "created_at", "updated_at"}

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func testUser() *entities.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entities.User{
		ID:           "user-1",
		Email:        "a@x.com",
		Name:         "Alice",
		Image:        "",
		PasswordHash: "$2a$10$hash",
		Provider:     entities.ProviderLocal,
		Roles:        []entities.Role{entities.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func userRows(users ...*entities.User) *pgxmock.Rows {
	rows := pgxmock.NewRows(userRowColumns)
	for _, u := range users {
		rows.AddRow(u.ID, u.Email, u.Name, u.Image, u.PasswordHash, string(u.Provider), u.RoleStrings(), u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func TestRepositoryFactory(t *testing.T) {
	factory := postgres.NewRepositoryFactory(&pgxpool.Pool{})

	require.NotNil(t, factory)
	assert.Implements(t, (*repositories.UserRepository)(nil), factory.UserRepository())
	assert.Implements(t, (*repositories.SessionRepository)(nil), factory.SessionRepository())
	assert.Implements(t, (*repositories.StatisticsRepository)(nil), factory.StatisticsRepository())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	ctx := testContext(t)
	user := testUser()

	t.Run("user found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, name").
			WithArgs(user.Email).
			WillReturnRows(userRows(user))

		repo := postgres.NewUserRepository(mock)

		got, err := repo.FindByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user, got)
		assert.True(t, got.HasPassword())

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, name").
			WithArgs("missing@x.com").
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewUserRepository(mock)

		got, err := repo.FindByEmail(ctx, "missing@x.com")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, entities.ErrUserNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, name").
			WithArgs(user.Email).
			WillReturnError(ErrDatabaseConnection)

		repo := postgres.NewUserRepository(mock)

		_, err = repo.FindByEmail(ctx, user.Email)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDatabaseConnection)
		assert.Contains(t, err.Error(), "error querying user by email")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	ctx := testContext(t)
	user := testUser()
	user.PasswordHash = ""
	user.Provider = entities.ProviderGithub
	user.Image = "https://avatars.example/a.png"

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, email, name").
		WithArgs(user.ID).
		WillReturnRows(userRows(user))

	repo := postgres.NewUserRepository(mock)

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.HasPassword())
	assert.Equal(t, entities.ProviderGithub, got.Provider)
	assert.Equal(t, user.Image, got.Image)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	ctx := testContext(t)
	user := testUser()

	t.Run("successful creation", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.Email, user.Name, user.Image, user.PasswordHash, string(user.Provider), user.RoleStrings()).
			WillReturnRows(userRows(user))

		repo := postgres.NewUserRepository(mock)

		got, err := repo.Create(ctx, &entities.User{
			Email:        user.Email,
			Name:         user.Name,
			PasswordHash: user.PasswordHash,
			Provider:     user.Provider,
			Roles:        user.Roles,
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		repo := postgres.NewUserRepository(mock)

		_, err = repo.Create(ctx, user)
		require.ErrorIs(t, err, services.ErrConflict)

		var conflict *services.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "Email", conflict.Field)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(ErrDatabaseConnection)

		repo := postgres.NewUserRepository(mock)

		_, err = repo.Create(ctx, user)
		require.ErrorIs(t, err, ErrDatabaseConnection)
		assert.NotErrorIs(t, err, services.ErrConflict)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Update(t *testing.T) {
	ctx := testContext(t)
	user := testUser()
	user.Name = "Alice Updated"

	t.Run("successful update", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("UPDATE users").
			WithArgs(user.ID, user.Email, user.Name, user.Image, user.PasswordHash, string(user.Provider), user.RoleStrings(), pgxmock.AnyArg()).
			WillReturnRows(userRows(user))

		repo := postgres.NewUserRepository(mock)

		got, err := repo.Update(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, "Alice Updated", got.Name)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("UPDATE users").
			WithArgs(user.ID, user.Email, user.Name, user.Image, user.PasswordHash, string(user.Provider), user.RoleStrings(), pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewUserRepository(mock)

		_, err = repo.Update(ctx, user)
		assert.ErrorIs(t, err, entities.ErrUserNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("successful deletion", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM users").
			WithArgs("user-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := postgres.NewUserRepository(mock)

		require.NoError(t, repo.Delete(ctx, "user-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM users").
			WithArgs("user-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgres.NewUserRepository(mock)

		assert.ErrorIs(t, repo.Delete(ctx, "user-1"), entities.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_List(t *testing.T) {
	ctx := testContext(t)
	first := testUser()
	second := testUser()
	second.ID = "user-2"
	second.Email = "b@x.com"

	t.Run("page of users", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, name").
			WithArgs(10, 0).
			WillReturnRows(userRows(first, second))

		repo := postgres.NewUserRepository(mock)

		users, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "user-2", users[1].ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty page", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, name").
			WithArgs(10, 20).
			WillReturnRows(userRows())

		repo := postgres.NewUserRepository(mock)

		users, err := repo.List(ctx, 10, 20)
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRepository_Store(t *testing.T) {
	ctx := testContext(t)
	session := &services.Session{
		Token:     "refresh-token",
		UserID:    "user-1",
		UserAgent: "Mozilla/5.0",
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour).UTC(),
	}

	t.Run("supersedes previous session with a single upsert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO refresh_tokens .+ ON CONFLICT ON CONSTRAINT refresh_tokens_user_agent_key DO UPDATE`).
			WithArgs(session.Token, session.UserID, session.UserAgent, session.ExpiresAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := postgres.NewSessionRepository(mock)

		require.NoError(t, repo.Store(ctx, session))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated store for one device is not a conflict", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		second := *session
		second.Token = "refresh-token-2"
		mock.ExpectExec("ON CONFLICT").
			WithArgs(session.Token, session.UserID, session.UserAgent, session.ExpiresAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("ON CONFLICT").
			WithArgs(second.Token, second.UserID, second.UserAgent, second.ExpiresAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := postgres.NewSessionRepository(mock)

		require.NoError(t, repo.Store(ctx, session))
		require.NoError(t, repo.Store(ctx, &second))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage failure", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO refresh_tokens").
			WithArgs(session.Token, session.UserID, session.UserAgent, session.ExpiresAt).
			WillReturnError(ErrDatabaseConnection)

		repo := postgres.NewSessionRepository(mock)

		err = repo.Store(ctx, session)
		require.ErrorIs(t, err, ErrDatabaseConnection)
		assert.Contains(t, err.Error(), "error storing refresh token")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRepository_FindByToken(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("session found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"token", "user_id", "user_agent", "expires_at", "created_at"}).
			AddRow("refresh-token", "user-1", "Mozilla/5.0", now.Add(time.Hour), now)
		mock.ExpectQuery("SELECT token, user_id, user_agent").
			WithArgs("refresh-token").
			WillReturnRows(rows)

		repo := postgres.NewSessionRepository(mock)

		session, err := repo.FindByToken(ctx, "refresh-token")
		require.NoError(t, err)
		assert.Equal(t, "user-1", session.UserID)
		assert.Equal(t, "Mozilla/5.0", session.UserAgent)
		assert.Equal(t, now.Add(time.Hour), session.ExpiresAt)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("session not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT token, user_id, user_agent").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewSessionRepository(mock)

		_, err = repo.FindByToken(ctx, "missing")
		assert.ErrorIs(t, err, services.ErrSessionNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("session deleted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM refresh_tokens").
			WithArgs("refresh-token").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := postgres.NewSessionRepository(mock)

		require.NoError(t, repo.Delete(ctx, "refresh-token"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("session already gone", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM refresh_tokens").
			WithArgs("refresh-token").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgres.NewSessionRepository(mock)

		assert.ErrorIs(t, repo.Delete(ctx, "refresh-token"), services.ErrSessionNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRepository_CleanupExpired(t *testing.T) {
	ctx := testContext(t)

	t.Run("expired sessions removed", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM refresh_tokens").
			WillReturnResult(pgxmock.NewResult("DELETE", 5))

		repo := postgres.NewSessionRepository(mock)

		count, err := repo.CleanupExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM refresh_tokens").
			WillReturnError(ErrDatabaseConnection)

		repo := postgres.NewSessionRepository(mock)

		_, err = repo.CleanupExpired(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error cleaning up expired tokens")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStatisticsRepository_FindByUserID(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)
	columns := []string{"id", "user_id", "product_id", "level", "total_time", "score", "other", "created_at"}

	t.Run("statistics found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows(columns).
			AddRow("s1", "user-1", "p1", 3, "00:10:00", 120, "", now).
			AddRow("s2", "user-1", "p2", 1, "00:02:00", 40, "bonus", now)
		mock.ExpectQuery("SELECT id, user_id, product_id").
			WithArgs("user-1").
			WillReturnRows(rows)

		repo := postgres.NewStatisticsRepository(mock)

		list, err := repo.FindByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, 2, list.Len())
		assert.Equal(t, "user-1", list.OwnerAt(0))
		assert.Equal(t, 120, list[0].Score)
		assert.Equal(t, "bonus", list[1].Other)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no statistics", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, user_id, product_id").
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows(columns))

		repo := postgres.NewStatisticsRepository(mock)

		list, err := repo.FindByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 0, list.Len())

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_MalformedID(t *testing.T) {
	ctx := testContext(t)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, email, name").
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02"})
	mock.ExpectExec("DELETE FROM users").
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	repo := postgres.NewUserRepository(mock)

	_, err = repo.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "not-a-uuid"), entities.ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
