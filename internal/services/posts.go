package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/models"
)

// PostReader defines the read operations the post service needs.
type PostReader interface {
	GetByID(ctx context.Context, id int64) (*models.PostDB, error)
	GetByAuthorAndSlug(ctx context.Context, username, slug string) (*models.PostDB, error)
	ListAll(ctx context.Context) ([]models.PostDB, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]models.PostDB, error)
	Search(ctx context.Context, substring string) ([]models.PostDB, error)
	CountByAuthorAndSlug(ctx context.Context, authorID int64, slug string) (int64, error)
}

// PostWriter defines the write operations the post service needs.
type PostWriter interface {
	Save(ctx context.Context, authorID int64, title, slug, content string) (int64, error)
	Replace(ctx context.Context, id int64, title, slug, content string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PostService owns post records and enforces authorship-gated mutation.
// The author of every new post is the acting identity; nothing from the
// request body can spoof it.
type PostService struct {
	reader      PostReader
	writer      PostWriter
	kafkaWriter KafkaWriter
	uniqueSlugs bool
}

// NewPostService creates a new PostService. With uniqueSlugs enabled the
// service refuses a create or replace that would duplicate an existing
// (author, slug) pair; otherwise duplicates are tolerated and lookups
// return the first match.
func NewPostService(reader PostReader, writer PostWriter, kafkaWriter KafkaWriter, uniqueSlugs bool) *PostService {
	return &PostService{
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
		uniqueSlugs: uniqueSlugs,
	}
}

// publishEvent publishes a content event to Kafka. Best effort: a missing
// writer skips, a failed write logs and the operation still succeeds.
func (svc *PostService) publishEvent(ctx context.Context, event string, postID, authorID int64) {
	if svc.kafkaWriter == nil {
		logger.Log.Debugw("kafka writer not configured, skipping publish", "event", event, "post_id", postID)
		return
	}

	payload := models.ContentEvent{
		Event:     event,
		PostID:    postID,
		AuthorID:  authorID,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorw("failed to marshal content event", "event", event, "post_id", postID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(postID, 10)),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish content event", "event", event, "post_id", postID, "error", err)
	}
}

// Create stores a new post authored by the acting user. An empty slug is
// defaulted to a timestamp-derived one, the scheme the original authors
// used to keep slugs unique enough in practice.
func (svc *PostService) Create(ctx context.Context, author *models.UserDB, title, slug, content string) (*models.PostDB, error) {
	if slug == "" {
		slug = time.Now().UTC().Format("20060102150405")
	}

	if svc.uniqueSlugs {
		count, err := svc.reader.CountByAuthorAndSlug(ctx, author.ID, slug)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
	}

	id, err := svc.writer.Save(ctx, author.ID, title, slug, content)
	if err != nil {
		logger.Log.Errorw("failed to save post", "author_id", author.ID, "err", err)
		return nil, err
	}

	post, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	svc.publishEvent(ctx, "post_created", id, author.ID)
	return post, nil
}

// ListAll returns every post, newest first.
func (svc *PostService) ListAll(ctx context.Context) ([]models.PostDB, error) {
	return svc.reader.ListAll(ctx)
}

// ListByAuthor returns the author's posts, newest first.
func (svc *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]models.PostDB, error) {
	return svc.reader.ListByAuthor(ctx, authorID)
}

// FindByAuthorAndSlug resolves a single-post URL. Duplicate pairs resolve
// to the first match; a miss is ErrPostNotFound.
func (svc *PostService) FindByAuthorAndSlug(ctx context.Context, username, slug string) (*models.PostDB, error) {
	post, err := svc.reader.GetByAuthorAndSlug(ctx, username, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Search returns posts whose content contains the substring literally,
// ordered by title ascending. An empty query returns nothing, not
// everything.
func (svc *PostService) Search(ctx context.Context, substring string) ([]models.PostDB, error) {
	if substring == "" {
		return []models.PostDB{}, nil
	}
	return svc.reader.Search(ctx, substring)
}

// Replace overwrites title, slug and content of a post in one shot; there
// is no partial-field update path. Only the author or an admin may do it.
// Authorship itself never changes on replace.
func (svc *PostService) Replace(ctx context.Context, actor *models.UserDB, postID int64, title, slug, content string) (*models.PostDB, error) {
	post, err := svc.reader.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.AuthorID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if svc.uniqueSlugs && slug != post.Slug {
		count, err := svc.reader.CountByAuthorAndSlug(ctx, post.AuthorID, slug)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
	}

	rows, err := svc.writer.Replace(ctx, postID, title, slug, content)
	if err != nil {
		logger.Log.Errorw("failed to replace post", "post_id", postID, "err", err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrPostNotFound
	}

	post.Title = title
	post.Slug = slug
	post.Content = content

	svc.publishEvent(ctx, "post_updated", postID, post.AuthorID)
	return post, nil
}

// Delete removes a post. Only the author or an admin may do it.
func (svc *PostService) Delete(ctx context.Context, actor *models.UserDB, postID int64) error {
	post, err := svc.reader.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}

	rows, err := svc.writer.Delete(ctx, postID)
	if err != nil {
		logger.Log.Errorw("failed to delete post", "post_id", postID, "err", err)
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}

	svc.publishEvent(ctx, "post_deleted", postID, post.AuthorID)
	return nil
}
