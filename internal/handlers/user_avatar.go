package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/middlewares"
	"github.com/avdm2017/microblog/internal/models"
	"github.com/avdm2017/microblog/internal/services"
)

// maxAvatarBytes caps the multipart form memory for avatar uploads.
const maxAvatarBytes = 5 << 20

// AvatarSetter defines the interface that the avatar service must implement.
type AvatarSetter interface {
	SetAvatar(ctx context.Context, actor *models.UserDB, targetID int64, filename, contentType string, body io.Reader) (string, error)
}

// SetAvatarResponse represents a successful avatar upload
// swagger:model SetAvatarResponse
type SetAvatarResponse struct {
	// Operation outcome
	// default: avatar_updated
	Outcome models.Outcome `json:"outcome"`

	// Object key of the stored picture
	ProfilePic string `json:"profile_pic"`
}

// SetAvatarErrorResponse represents an error response for avatar uploads
// swagger:model SetAvatarErrorResponse
type SetAvatarErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewSetAvatarHandler returns an HTTP handler for profile-picture uploads.
// @Summary Upload a profile picture
// @Description Stores a new profile picture for the user and records its object key. Owner or admin only.
// @Tags users
// @Accept mpfd
// @Produce json
// @Param id path int true "User ID"
// @Param profile_pic formData file true "Picture file"
// @Success 200 {object} handlers.SetAvatarResponse "Avatar updated"
// @Failure 400 {object} handlers.SetAvatarErrorResponse "Invalid request"
// @Failure 403 {object} handlers.SetAvatarErrorResponse "Forbidden"
// @Failure 404 {object} handlers.SetAvatarErrorResponse "User not found"
// @Router /users/{id}/avatar [post]
// @Security BearerAuth
func NewSetAvatarHandler(svc AvatarSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middlewares.GetUserFromContext(r.Context())
		if actor == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SetAvatarErrorResponse{Error: "invalid user id"})
			return
		}

		if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SetAvatarErrorResponse{Error: "invalid multipart form"})
			return
		}

		file, header, err := r.FormFile("profile_pic")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SetAvatarErrorResponse{Error: "profile_pic file is required"})
			return
		}
		defer file.Close()

		key, err := svc.SetAvatar(r.Context(), actor, targetID, header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrForbidden):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(SetAvatarErrorResponse{Error: "Forbidden"})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(SetAvatarErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(SetAvatarErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(SetAvatarResponse{
			Outcome:    models.OutcomeAvatarUpdated,
			ProfilePic: key,
		})
	}
}
