package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/middlewares"
	"github.com/avdm2017/microblog/internal/models"
)

// PostLister defines the interface that the post listing must implement.
type PostLister interface {
	ListAll(ctx context.Context) ([]models.PostDB, error)
}

// AuthorPostLister defines the interface for the dashboard listing.
type AuthorPostLister interface {
	ListByAuthor(ctx context.Context, authorID int64) ([]models.PostDB, error)
}

// ListPostsResponse represents a post listing
// swagger:model ListPostsResponse
type ListPostsResponse struct {
	// Posts, newest first
	Posts []models.PostDB `json:"posts"`
}

// ListPostsErrorResponse represents an error response for post listings
// swagger:model ListPostsErrorResponse
type ListPostsErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewListPostsHandler returns an HTTP handler for the public post listing.
// @Summary List all posts
// @Description Returns every post, newest first.
// @Tags posts
// @Produce json
// @Success 200 {object} handlers.ListPostsResponse "Post listing"
// @Router /posts [get]
func NewListPostsHandler(svc PostLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := svc.ListAll(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ListPostsErrorResponse{Error: "Internal server error"})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ListPostsResponse{Posts: posts})
	}
}

// NewMyPostsHandler returns an HTTP handler for the authenticated user's
// own posts.
// @Summary List own posts
// @Description Returns the authenticated user's posts, newest first.
// @Tags posts
// @Produce json
// @Success 200 {object} handlers.ListPostsResponse "Post listing"
// @Failure 401 {object} handlers.ListPostsErrorResponse "Unauthorized"
// @Router /me/posts [get]
// @Security BearerAuth
func NewMyPostsHandler(svc AuthorPostLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author := middlewares.GetUserFromContext(r.Context())
		if author == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		posts, err := svc.ListByAuthor(r.Context(), author.ID)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ListPostsErrorResponse{Error: "Internal server error"})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ListPostsResponse{Posts: posts})
	}
}
