package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/models"
	"github.com/avdm2017/microblog/internal/services"
)

// PostFinder defines the interface for single-post lookups.
type PostFinder interface {
	FindByAuthorAndSlug(ctx context.Context, username, slug string) (*models.PostDB, error)
}

// GetPostResponse represents a single post
// swagger:model GetPostResponse
type GetPostResponse struct {
	// The post
	Post *models.PostDB `json:"post"`
}

// GetPostErrorResponse represents an error response for single-post lookups
// swagger:model GetPostErrorResponse
type GetPostErrorResponse struct {
	// Error message
	// default: Post not found
	Error string `json:"error"`
}

// NewGetPostHandler returns an HTTP handler resolving a post by its
// author's username and slug.
// @Summary Get a single post
// @Description Resolves the (author, slug) pair to a post. With duplicate slugs the first match wins.
// @Tags posts
// @Produce json
// @Param username path string true "Author username"
// @Param slug path string true "Post slug"
// @Success 200 {object} handlers.GetPostResponse "The post"
// @Failure 404 {object} handlers.GetPostErrorResponse "Post not found"
// @Router /users/{username}/posts/{slug} [get]
func NewGetPostHandler(svc PostFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		slug := chi.URLParam(r, "slug")

		post, err := svc.FindByAuthorAndSlug(r.Context(), username, slug)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPostNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(GetPostErrorResponse{Error: "Post not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(GetPostErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(GetPostResponse{Post: post})
	}
}
