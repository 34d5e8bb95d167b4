package middlewares

import (
	"context"
	"net/http"

	"github.com/avdm2017/microblog/internal/jwt"
	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/models"
)

// Tokener defines the token operations needed by the middleware.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// SessionChecker reports whether a login session is still alive.
type SessionChecker interface {
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// UserGetter loads the user row behind an authenticated request.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
}

// AuthMiddleware resolves the acting identity for a request: it validates
// the bearer token, checks that its session has not been logged out, loads
// the user row and stores it in the request context. Any failure ends the
// request with 401.
func AuthMiddleware(tokener Tokener, sessions SessionChecker, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			alive, err := sessions.Exists(ctx, claims.SessionID)
			if err != nil {
				logger.Log.Errorw("session lookup failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if !alive {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := users.GetByID(ctx, claims.UserID)
			if err != nil {
				logger.Log.Errorw("failed to load user for session", "user_id", claims.UserID, "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if user == nil {
				// Deleted account with a still-live session.
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserToContext(ctx, user)))
		})
	}
}

// userContextKey is an unexported type for the identity context key.
type userContextKey struct{}

var userKey = userContextKey{}

// SetUserToContext stores the acting user in the context.
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the acting user from the context. Returns
// nil if the request was not authenticated.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}
