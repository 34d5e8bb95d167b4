package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avdm2017/microblog/internal/jwt"
	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/models"
)

// LogoutTokener defines the token operations this handler needs.
type LogoutTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, sessionID string) error
}

// LogoutResponse represents a successful logout response
// swagger:model LogoutResponse
type LogoutResponse struct {
	// Operation outcome
	// default: logged_out
	Outcome models.Outcome `json:"outcome"`
}

// LogoutErrorResponse represents an error response for logout
// swagger:model LogoutErrorResponse
type LogoutErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// NewLogoutHandler returns an HTTP handler that destroys the session
// behind the presented token.
// @Summary Log out
// @Description Destroys the current session. The token stops working immediately.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.LogoutResponse "Session destroyed"
// @Failure 401 {object} handlers.LogoutErrorResponse "Unauthorized"
// @Router /logout [post]
// @Security BearerAuth
func NewLogoutHandler(svc Logouter, tokener LogoutTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenString, err := tokener.GetTokenFromRequest(ctx, r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(LogoutErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokener.GetClaims(ctx, tokenString)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(LogoutErrorResponse{Error: "Unauthorized"})
			return
		}

		if err := svc.Logout(ctx, claims.SessionID); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(LogoutErrorResponse{Error: "Internal server error"})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LogoutResponse{Outcome: models.OutcomeLoggedOut})
	}
}
