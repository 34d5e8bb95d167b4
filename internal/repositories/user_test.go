package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdm2017/microblog/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func userRows(users ...models.UserDB) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "username", "email", "password_hash",
		"about", "profile_pic", "access_level", "created_at",
	})
	for _, u := range users {
		rows.AddRow(u.ID, u.Name, u.Username, u.Email, u.PasswordHash,
			u.About, u.ProfilePic, u.AccessLevel, u.CreatedAt)
	}
	return rows
}

func TestUserReadRepository_GetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("FROM users").
			WithArgs("alice").
			WillReturnRows(userRows(models.UserDB{
				ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com",
				PasswordHash: "hash", AccessLevel: models.AccessLevelUser, CreatedAt: time.Now(),
			}))

		user, err := repo.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss returns nil, not an error", func(t *testing.T) {
		mock.ExpectQuery("FROM users").
			WithArgs("nobody").
			WillReturnRows(userRows())

		user, err := repo.GetByUsername(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserReadRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	mock.ExpectQuery("FROM users").
		WithArgs("alice@example.com").
		WillReturnRows(userRows(models.UserDB{ID: 1, Username: "alice", Email: "alice@example.com"}))

	user, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "username", "email", "password_hash",
		"about", "profile_pic", "access_level", "created_at", "post_count",
	}).
		AddRow(1, "Admin", "admin", "admin@example.com", "hash", "", nil, models.AccessLevelAdmin, time.Now(), 0).
		AddRow(2, "Alice", "alice", "alice@example.com", "hash", "", nil, models.AccessLevelUser, time.Now(), 3)

	mock.ExpectQuery("LEFT JOIN posts").WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(0), users[0].PostCount)
	assert.Equal(t, int64(3), users[1].PostCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	t.Run("inserts and returns id", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("Alice", "alice", "alice@example.com", "hash", models.AccessLevelUser).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		id, err := repo.Save(context.Background(), "Alice", "alice", "alice@example.com", "hash", models.AccessLevelUser)
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation becomes ErrDuplicate", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("Alice", "alice", "taken@example.com", "hash", models.AccessLevelUser).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := repo.Save(context.Background(), "Alice", "alice", "taken@example.com", "hash", models.AccessLevelUser)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserWriteRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	t.Run("rewrites profile fields", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs(int64(1), "Alice B", "alice", "alice@example.com", "hi", models.AccessLevelUser).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), &models.UserDB{
			ID: 1, Name: "Alice B", Username: "alice",
			Email: "alice@example.com", About: "hi", AccessLevel: models.AccessLevelUser,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation becomes ErrDuplicate", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs(int64(1), "Alice", "taken", "alice@example.com", "", models.AccessLevelUser).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		err := repo.Update(context.Background(), &models.UserDB{
			ID: 1, Name: "Alice", Username: "taken",
			Email: "alice@example.com", AccessLevel: models.AccessLevelUser,
		})
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserWriteRepository_SetProfilePic(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(1), "avatars/abc.png").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetProfilePic(context.Background(), 1, "avatars/abc.png")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	t.Run("deletes the row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users").
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rows, err := repo.Delete(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row deletes nothing", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users").
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		rows, err := repo.Delete(context.Background(), 9)
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
