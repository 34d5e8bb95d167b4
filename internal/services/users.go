package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/models"
	"github.com/avdm2017/microblog/internal/repositories"
)

// UserProfileReader defines the read operations the user service needs.
type UserProfileReader interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
	List(ctx context.Context) ([]models.UserWithPostCount, error)
}

// UserProfileWriter defines the write operations the user service needs.
type UserProfileWriter interface {
	Update(ctx context.Context, user *models.UserDB) error
	SetProfilePic(ctx context.Context, id int64, key string) error
	Delete(ctx context.Context, id int64) (int64, error)
}

// AvatarPutter stores a profile-picture object under a key.
type AvatarPutter interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
}

// ProfileChanges is a full replacement of the mutable profile fields.
// AccessLevel is optional and admin-only.
type ProfileChanges struct {
	Name        string
	Username    string
	Email       string
	About       string
	AccessLevel *string
}

// UserService handles profile reads, updates, avatar uploads and account
// deletion, with owner-or-admin gating on every mutation.
type UserService struct {
	reader  UserProfileReader
	writer  UserProfileWriter
	avatars AvatarPutter
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserProfileReader, writer UserProfileWriter, avatars AvatarPutter) *UserService {
	return &UserService{
		reader:  reader,
		writer:  writer,
		avatars: avatars,
	}
}

// Get returns a user by id.
func (svc *UserService) Get(ctx context.Context, id int64) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List returns all users with their post counts. Admin only.
func (svc *UserService) List(ctx context.Context, actor *models.UserDB) ([]models.UserWithPostCount, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return svc.reader.List(ctx)
}

// UpdateProfile rewrites the target user's profile fields. The actor must
// be the target or an admin. Attempting to change the access level
// without admin rights is rejected outright, not silently dropped.
func (svc *UserService) UpdateProfile(ctx context.Context, actor *models.UserDB, targetID int64, changes ProfileChanges) (*models.UserDB, error) {
	if actor.ID != targetID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if changes.AccessLevel != nil && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if changes.AccessLevel != nil &&
		*changes.AccessLevel != models.AccessLevelUser &&
		*changes.AccessLevel != models.AccessLevelAdmin {
		return nil, ErrInvalidAccessLevel
	}

	target, err := svc.reader.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	target.Name = changes.Name
	target.Username = changes.Username
	target.Email = changes.Email
	target.About = changes.About
	if changes.AccessLevel != nil {
		target.AccessLevel = *changes.AccessLevel
	}

	if err := svc.writer.Update(ctx, target); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to update user", "user_id", targetID, "err", err)
		return nil, err
	}

	return target, nil
}

// SetAvatar stores a new profile picture and records its object key on the
// user row. The object write and the row update are not transactional: a
// crash in between leaves an orphaned object, which is accepted.
func (svc *UserService) SetAvatar(ctx context.Context, actor *models.UserDB, targetID int64, filename, contentType string, body io.Reader) (string, error) {
	if actor.ID != targetID && !actor.IsAdmin() {
		return "", ErrForbidden
	}

	target, err := svc.reader.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", ErrUserNotFound
	}

	key := "avatars/" + uuid.NewString() + filepath.Ext(filename)

	if err := svc.avatars.Put(ctx, key, contentType, body); err != nil {
		logger.Log.Errorw("failed to store avatar", "user_id", targetID, "err", err)
		return "", err
	}

	if err := svc.writer.SetProfilePic(ctx, targetID, key); err != nil {
		logger.Log.Errorw("failed to persist avatar key", "user_id", targetID, "err", err)
		return "", err
	}

	return key, nil
}

// Delete removes the target account. The actor must be the target or an
// admin. The target's posts are left in place; author-scoped lookups for
// them will simply miss afterwards.
func (svc *UserService) Delete(ctx context.Context, actor *models.UserDB, targetID int64) error {
	if actor.ID != targetID && !actor.IsAdmin() {
		return ErrForbidden
	}

	rows, err := svc.writer.Delete(ctx, targetID)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "user_id", targetID, "err", err)
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	logger.Log.Infow("user deleted", "user_id", targetID, "actor_id", actor.ID)
	return nil
}
