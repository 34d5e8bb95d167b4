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

// ProfileUpdater defines the interface that the profile-update service must implement.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, actor *models.UserDB, targetID int64, changes services.ProfileChanges) (*models.UserDB, error)
}

// UpdateProfileRequest represents the JSON body for a profile update.
// All profile fields are rewritten together; access_level is optional and
// admin-only.
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	// Display name
	// required: true
	Name string `json:"name"`

	// Username
	// required: true
	Username string `json:"username"`

	// Email
	// required: true
	Email string `json:"email"`

	// Biography
	About string `json:"about"`

	// Access level (admin only)
	AccessLevel *string `json:"access_level,omitempty"`
}

// UpdateProfileResponse represents a successful profile update
// swagger:model UpdateProfileResponse
type UpdateProfileResponse struct {
	// Operation outcome
	// default: profile_updated
	Outcome models.Outcome `json:"outcome"`

	// The updated user
	User *models.UserDB `json:"user"`
}

// UpdateProfileErrorResponse represents an error response for profile updates
// swagger:model UpdateProfileErrorResponse
type UpdateProfileErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewUpdateProfileHandler returns an HTTP handler for profile updates.
// @Summary Update a user profile
// @Description Rewrites the profile fields of a user. Owner or admin only; only admins may change the access level.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param updateProfileRequest body handlers.UpdateProfileRequest true "Profile update request"
// @Success 200 {object} handlers.UpdateProfileResponse "Profile updated"
// @Failure 400 {object} handlers.UpdateProfileErrorResponse "Invalid request"
// @Failure 403 {object} handlers.UpdateProfileErrorResponse "Forbidden"
// @Failure 404 {object} handlers.UpdateProfileErrorResponse "User not found"
// @Failure 409 {object} handlers.UpdateProfileErrorResponse "Username or email already exists"
// @Router /users/{id} [put]
// @Security BearerAuth
func NewUpdateProfileHandler(svc ProfileUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middlewares.GetUserFromContext(r.Context())
		if actor == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdateProfileErrorResponse{Error: "invalid user id"})
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdateProfileErrorResponse{Error: "invalid request body"})
			return
		}

		if req.Name == "" || req.Username == "" || req.Email == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdateProfileErrorResponse{Error: "name, username and email are required"})
			return
		}

		user, err := svc.UpdateProfile(r.Context(), actor, targetID, services.ProfileChanges{
			Name:        req.Name,
			Username:    req.Username,
			Email:       req.Email,
			About:       req.About,
			AccessLevel: req.AccessLevel,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrForbidden):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(UpdateProfileErrorResponse{Error: "Forbidden"})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(UpdateProfileErrorResponse{Error: "User not found"})
			case errors.Is(err, services.ErrUserAlreadyExists):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(UpdateProfileErrorResponse{Error: "Username or email already exists"})
			case errors.Is(err, services.ErrInvalidAccessLevel):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(UpdateProfileErrorResponse{Error: "Unknown access level"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(UpdateProfileErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UpdateProfileResponse{
			Outcome: models.OutcomeProfileUpdated,
			User:    user,
		})
	}
}
