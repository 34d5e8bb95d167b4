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

// PostReplacer defines the interface that the post-replace service must implement.
type PostReplacer interface {
	Replace(ctx context.Context, actor *models.UserDB, postID int64, title, slug, content string) (*models.PostDB, error)
}

// ReplacePostRequest represents the JSON body for a post replace. All
// fields are rewritten together; there is no partial update.
// swagger:model ReplacePostRequest
type ReplacePostRequest struct {
	// Title
	// required: true
	Title string `json:"title"`

	// URL-safe slug
	// required: true
	Slug string `json:"slug"`

	// Post body
	// required: true
	Content string `json:"content"`
}

// ReplacePostResponse represents a successful post replace
// swagger:model ReplacePostResponse
type ReplacePostResponse struct {
	// Operation outcome
	// default: post_updated
	Outcome models.Outcome `json:"outcome"`

	// The updated post
	Post *models.PostDB `json:"post"`
}

// ReplacePostErrorResponse represents an error response for post replace
// swagger:model ReplacePostErrorResponse
type ReplacePostErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewReplacePostHandler returns an HTTP handler for post replacement.
// @Summary Replace a post
// @Description Overwrites title, slug and content of a post. Author or admin only.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param replacePostRequest body handlers.ReplacePostRequest true "Post replace request"
// @Success 200 {object} handlers.ReplacePostResponse "Post updated"
// @Failure 400 {object} handlers.ReplacePostErrorResponse "Invalid request"
// @Failure 403 {object} handlers.ReplacePostErrorResponse "Forbidden"
// @Failure 404 {object} handlers.ReplacePostErrorResponse "Post not found"
// @Failure 409 {object} handlers.ReplacePostErrorResponse "Slug already used"
// @Router /posts/{id} [put]
// @Security BearerAuth
func NewReplacePostHandler(svc PostReplacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middlewares.GetUserFromContext(r.Context())
		if actor == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ReplacePostErrorResponse{Error: "invalid post id"})
			return
		}

		var req ReplacePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ReplacePostErrorResponse{Error: "invalid request body"})
			return
		}

		if req.Title == "" || req.Slug == "" || req.Content == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ReplacePostErrorResponse{Error: "title, slug and content are required"})
			return
		}

		post, err := svc.Replace(r.Context(), actor, postID, req.Title, req.Slug, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrForbidden):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(ReplacePostErrorResponse{Error: "Forbidden"})
			case errors.Is(err, services.ErrPostNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ReplacePostErrorResponse{Error: "Post not found"})
			case errors.Is(err, services.ErrSlugTaken):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(ReplacePostErrorResponse{Error: "Slug already used"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ReplacePostErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ReplacePostResponse{
			Outcome: models.OutcomePostUpdated,
			Post:    post,
		})
	}
}
