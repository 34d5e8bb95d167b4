package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/models"
)

const postColumns = `id, title, slug, content, author_id, created_at`

// PostReadRepository reads post rows.
type PostReadRepository struct {
	db *sqlx.DB
}

func NewPostReadRepository(db *sqlx.DB) *PostReadRepository {
	return &PostReadRepository{db: db}
}

// GetByID returns the post with the given id, or nil when no row matches.
func (r *PostReadRepository) GetByID(ctx context.Context, id int64) (*models.PostDB, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1
	`

	var post models.PostDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &post, query, id)

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByAuthorAndSlug returns the first post whose author has the given
// username and whose slug matches. Duplicate (author, slug) pairs are not
// an error: the lowest id wins, which keeps single-post URLs stable.
func (r *PostReadRepository) GetByAuthorAndSlug(ctx context.Context, username, slug string) (*models.PostDB, error) {
	const query = `
		SELECT p.id, p.title, p.slug, p.content, p.author_id, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE u.username = $1 AND p.slug = $2
		ORDER BY p.id ASC
		LIMIT 1
	`

	var post models.PostDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &post, query, username, slug)

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", []any{username, slug},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListAll returns every post, newest first.
func (r *PostReadRepository) ListAll(ctx context.Context) ([]models.PostDB, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC
	`
	return r.list(ctx, query)
}

// ListByAuthor returns the given author's posts, newest first.
func (r *PostReadRepository) ListByAuthor(ctx context.Context, authorID int64) ([]models.PostDB, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, authorID)
}

// Search returns posts whose content contains the given substring
// literally, ordered by title ascending.
func (r *PostReadRepository) Search(ctx context.Context, substring string) ([]models.PostDB, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE content LIKE '%' || $1 || '%'
		ORDER BY title ASC
	`
	return r.list(ctx, query, substring)
}

func (r *PostReadRepository) list(ctx context.Context, query string, args ...any) ([]models.PostDB, error) {
	var posts []models.PostDB
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &posts, query, args...)

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", args,
		"rows", len(posts),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByAuthorAndSlug returns how many posts the author already has under
// the given slug. Used by the optional unique-slug invariant.
func (r *PostReadRepository) CountByAuthorAndSlug(ctx context.Context, authorID int64, slug string) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM posts
		WHERE author_id = $1 AND slug = $2
	`

	var count int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &count, query, authorID, slug)

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", []any{authorID, slug},
		"result", count,
		"error", err,
	)

	return count, err
}

// PostWriteRepository writes post rows.
type PostWriteRepository struct {
	db *sqlx.DB
}

func NewPostWriteRepository(db *sqlx.DB) *PostWriteRepository {
	return &PostWriteRepository{db: db}
}

// Save inserts a new post and returns the generated id.
func (r *PostWriteRepository) Save(ctx context.Context, authorID int64, title, slug, content string) (int64, error) {
	const query = `
		INSERT INTO posts (title, slug, content, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	args := []any{title, slug, content, authorID}

	var id int64
	err := executor(ctx, r.db).QueryRowxContext(ctx, query, args...).Scan(&id)

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", args,
		"error", err,
	)

	return id, err
}

// Replace overwrites title, slug and content of a post in one statement.
// There is no partial-field update path. Returns the number of rows
// touched so callers can distinguish a miss.
func (r *PostWriteRepository) Replace(ctx context.Context, id int64, title, slug, content string) (int64, error) {
	const query = `
		UPDATE posts
		SET title = $2, slug = $3, content = $4
		WHERE id = $1
	`
	args := []any{id, title, slug, content}

	res, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query executed",
		"query", collapse(query),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	return rowsAffected, err
}

// Delete removes a post row and returns the number of rows deleted.
func (r *PostWriteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const query = `
		DELETE FROM posts
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
