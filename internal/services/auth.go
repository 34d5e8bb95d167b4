package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/models"
	"github.com/avdm2017/microblog/internal/repositories"
)

// adminUsername is the one username that registers with the admin access
// level. Everybody else starts as a plain user.
const adminUsername = "admin"

// dummyHash is a valid bcrypt hash used to burn a comparison when the
// username does not exist, so login latency does not reveal whether a
// username is registered.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// UserReader defines the read operations the auth service needs.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserWriter defines the write operations the auth service needs.
type UserWriter interface {
	Save(ctx context.Context, name, username, email, passwordHash, accessLevel string) (int64, error)
}

// TokenGenerator mints signed session tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, userID int64, sessionID string) (string, error)
}

// SessionRegistry creates and destroys login sessions.
type SessionRegistry interface {
	Create(ctx context.Context, userID int64) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// AuthService handles registration, login and logout.
type AuthService struct {
	reader   UserReader
	writer   UserWriter
	tokens   TokenGenerator
	sessions SessionRegistry
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, tokens TokenGenerator, sessions SessionRegistry) *AuthService {
	return &AuthService{
		reader:   reader,
		writer:   writer,
		tokens:   tokens,
		sessions: sessions,
	}
}

// Register creates a new user. The plaintext password is hashed before it
// reaches storage and is never logged. Duplicate usernames and emails are
// rejected up front; a race that slips past the pre-check is caught by the
// unique constraint and reported the same way.
func (svc *AuthService) Register(ctx context.Context, name, username, email, password string) error {
	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check email", "err", err)
		return err
	}
	if existing != nil {
		return ErrUserAlreadyExists
	}

	existing, err = svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check username", "err", err)
		return err
	}
	if existing != nil {
		return ErrUserAlreadyExists
	}

	accessLevel := models.AccessLevelUser
	if username == adminUsername {
		accessLevel = models.AccessLevelAdmin
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if _, err := svc.writer.Save(ctx, name, username, email, string(hashedPassword), accessLevel); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}

	logger.Log.Infow("user registered", "username", username, "access_level", accessLevel)
	return nil
}

// Login verifies the credentials, opens a session and returns a signed
// token for it. Unknown username and wrong password are indistinguishable
// to the caller, in outcome and in timing.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	sessionID, err := svc.sessions.Create(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to create session", "err", err)
		return "", err
	}

	token, err := svc.tokens.Generate(ctx, user.ID, sessionID)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}

	return token, nil
}

// Logout destroys the session behind the given id.
func (svc *AuthService) Logout(ctx context.Context, sessionID string) error {
	return svc.sessions.Delete(ctx, sessionID)
}
