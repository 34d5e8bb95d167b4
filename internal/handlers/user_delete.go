package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/middlewares"
	"github.com/avdm2017/microblog/internal/models"
	"github.com/avdm2017/microblog/internal/services"
)

// UserDeleter defines the interface that the user-deletion service must implement.
type UserDeleter interface {
	Delete(ctx context.Context, actor *models.UserDB, targetID int64) error
}

// DeleteUserResponse represents a successful account deletion
// swagger:model DeleteUserResponse
type DeleteUserResponse struct {
	// Operation outcome
	// default: user_deleted
	Outcome models.Outcome `json:"outcome"`
}

// DeleteUserErrorResponse represents an error response for account deletion
// swagger:model DeleteUserErrorResponse
type DeleteUserErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewDeleteUserHandler returns an HTTP handler for account deletion.
// @Summary Delete a user
// @Description Removes a user account. Owner or admin only. The user's posts are left in place.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} handlers.DeleteUserResponse "User deleted"
// @Failure 403 {object} handlers.DeleteUserErrorResponse "Forbidden"
// @Failure 404 {object} handlers.DeleteUserErrorResponse "User not found"
// @Router /users/{id} [delete]
// @Security BearerAuth
func NewDeleteUserHandler(svc UserDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middlewares.GetUserFromContext(r.Context())
		if actor == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(DeleteUserErrorResponse{Error: "invalid user id"})
			return
		}

		if err := svc.Delete(r.Context(), actor, targetID); err != nil {
			switch {
			case errors.Is(err, services.ErrForbidden):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(DeleteUserErrorResponse{Error: "Forbidden"})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(DeleteUserErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(DeleteUserErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DeleteUserResponse{Outcome: models.OutcomeUserDeleted})
	}
}
