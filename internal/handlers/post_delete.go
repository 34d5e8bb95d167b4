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

// PostDeleter defines the interface that the post-deletion service must implement.
type PostDeleter interface {
	Delete(ctx context.Context, actor *models.UserDB, postID int64) error
}

// DeletePostResponse represents a successful post deletion
// swagger:model DeletePostResponse
type DeletePostResponse struct {
	// Operation outcome
	// default: post_deleted
	Outcome models.Outcome `json:"outcome"`
}

// DeletePostErrorResponse represents an error response for post deletion
// swagger:model DeletePostErrorResponse
type DeletePostErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewDeletePostHandler returns an HTTP handler for post deletion.
// @Summary Delete a post
// @Description Removes a post. Author or admin only.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} handlers.DeletePostResponse "Post deleted"
// @Failure 403 {object} handlers.DeletePostErrorResponse "Forbidden"
// @Failure 404 {object} handlers.DeletePostErrorResponse "Post not found"
// @Router /posts/{id} [delete]
// @Security BearerAuth
func NewDeletePostHandler(svc PostDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middlewares.GetUserFromContext(r.Context())
		if actor == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(DeletePostErrorResponse{Error: "invalid post id"})
			return
		}

		if err := svc.Delete(r.Context(), actor, postID); err != nil {
			switch {
			case errors.Is(err, services.ErrForbidden):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(DeletePostErrorResponse{Error: "Forbidden"})
			case errors.Is(err, services.ErrPostNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(DeletePostErrorResponse{Error: "Post not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(DeletePostErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DeletePostResponse{Outcome: models.OutcomePostDeleted})
	}
}
