package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/middlewares"
	"github.com/avdm2017/microblog/internal/models"
	"github.com/avdm2017/microblog/internal/services"
)

// UserLister defines the interface that the admin user listing must implement.
type UserLister interface {
	List(ctx context.Context, actor *models.UserDB) ([]models.UserWithPostCount, error)
}

// ListUsersResponse represents the admin user listing
// swagger:model ListUsersResponse
type ListUsersResponse struct {
	// All users with their post counts
	Users []models.UserWithPostCount `json:"users"`
}

// ListUsersErrorResponse represents an error response for the user listing
// swagger:model ListUsersErrorResponse
type ListUsersErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewListUsersHandler returns an HTTP handler for the admin user listing.
// @Summary List all users
// @Description Returns every user with their post count. Admin only.
// @Tags users
// @Produce json
// @Success 200 {object} handlers.ListUsersResponse "User listing"
// @Failure 403 {object} handlers.ListUsersErrorResponse "Forbidden"
// @Router /users [get]
// @Security BearerAuth
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middlewares.GetUserFromContext(r.Context())
		if actor == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		users, err := svc.List(r.Context(), actor)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrForbidden):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(ListUsersErrorResponse{Error: "Forbidden"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ListUsersErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ListUsersResponse{Users: users})
	}
}
