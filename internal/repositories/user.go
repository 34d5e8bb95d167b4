package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/models"
)

const userColumns = `id, name, username, email, password_hash, about, profile_pic, access_level, created_at`

// UserReadRepository reads user rows.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByID returns the user with the given id, or nil when no row matches.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	return r.get(ctx, query, id)
}

// GetByUsername returns the user with the given username, or nil when no
// row matches.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1
	`
	return r.get(ctx, query, username)
}

// GetByEmail returns the user with the given email, or nil when no row
// matches.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	return r.get(ctx, query, email)
}

func (r *UserReadRepository) get(ctx context.Context, query string, arg any) (*models.UserDB, error) {
	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &user, query, arg)

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", []any{arg},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users with their post counts, oldest account first.
func (r *UserReadRepository) List(ctx context.Context) ([]models.UserWithPostCount, error) {
	const query = `
		SELECT u.id, u.name, u.username, u.email, u.password_hash, u.about,
		       u.profile_pic, u.access_level, u.created_at,
		       COUNT(p.id) AS post_count
		FROM users u
		LEFT JOIN posts p ON p.author_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at ASC
	`

	var users []models.UserWithPostCount
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &users, query)

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"rows", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return users, nil
}

// UserWriteRepository writes user rows.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user and returns the generated id. A username or
// email collision comes back as ErrDuplicate.
func (r *UserWriteRepository) Save(ctx context.Context, name, username, email, passwordHash, accessLevel string) (int64, error) {
	const query = `
		INSERT INTO users (name, username, email, password_hash, access_level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	args := []any{name, username, email, passwordHash, accessLevel}

	var id int64
	err := executor(ctx, r.db).QueryRowxContext(ctx, query, args...).Scan(&id)

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", []any{name, username, email, accessLevel},
		"error", err,
	)

	return id, classify(err)
}

// Update rewrites the mutable profile fields of a user row. A username or
// email collision comes back as ErrDuplicate.
func (r *UserWriteRepository) Update(ctx context.Context, user *models.UserDB) error {
	const query = `
		UPDATE users
		SET name = $2, username = $3, email = $4, about = $5, access_level = $6
		WHERE id = $1
	`
	args := []any{user.ID, user.Name, user.Username, user.Email, user.About, user.AccessLevel}

	_, err := executor(ctx, r.db).ExecContext(ctx, query, args...)

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", args,
		"error", err,
	)

	return classify(err)
}

// SetProfilePic stores the avatar object key on the user row.
func (r *UserWriteRepository) SetProfilePic(ctx context.Context, id int64, key string) error {
	const query = `
		UPDATE users
		SET profile_pic = $2
		WHERE id = $1
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query, id, key)

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", []any{id, key},
		"error", err,
	)

	return err
}

// Delete removes a user row and returns the number of rows deleted.
func (r *UserWriteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const query = `
		DELETE FROM users
		WHERE id = $1
	`

	res, err := executor(ctx, r.db).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}
