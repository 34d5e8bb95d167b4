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

// PostCreator defines the interface that the post-creation service must implement.
type PostCreator interface {
	Create(ctx context.Context, author *models.UserDB, title, slug, content string) (*models.PostDB, error)
}

// CreatePostRequest represents the JSON body for post creation. The author
// is always the authenticated user; there is no author field to spoof.
// swagger:model CreatePostRequest
type CreatePostRequest struct {
	// Title
	// required: true
	// default: Hello world
	Title string `json:"title"`

	// URL-safe slug; defaults to a timestamp when omitted
	Slug string `json:"slug"`

	// Post body
	// required: true
	Content string `json:"content"`
}

// CreatePostResponse represents a successful post creation
// swagger:model CreatePostResponse
type CreatePostResponse struct {
	// Operation outcome
	// default: post_created
	Outcome models.Outcome `json:"outcome"`

	// The created post
	Post *models.PostDB `json:"post"`
}

// CreatePostErrorResponse represents an error response for post creation
// swagger:model CreatePostErrorResponse
type CreatePostErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewCreatePostHandler returns an HTTP handler for post creation.
// @Summary Create a post
// @Description Creates a new post authored by the authenticated user.
// @Tags posts
// @Accept json
// @Produce json
// @Param createPostRequest body handlers.CreatePostRequest true "Post creation request"
// @Success 201 {object} handlers.CreatePostResponse "Post created"
// @Failure 400 {object} handlers.CreatePostErrorResponse "Invalid request"
// @Failure 409 {object} handlers.CreatePostErrorResponse "Slug already used"
// @Router /posts [post]
// @Security BearerAuth
func NewCreatePostHandler(svc PostCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author := middlewares.GetUserFromContext(r.Context())
		if author == nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreatePostErrorResponse{Error: "invalid request body"})
			return
		}

		if req.Title == "" || req.Content == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreatePostErrorResponse{Error: "title and content are required"})
			return
		}

		post, err := svc.Create(r.Context(), author, req.Title, req.Slug, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSlugTaken):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(CreatePostErrorResponse{Error: "Slug already used"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(CreatePostErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreatePostResponse{
			Outcome: models.OutcomePostCreated,
			Post:    post,
		})
	}
}
