package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/models"
)

// PostSearcher defines the interface that the search service must implement.
type PostSearcher interface {
	Search(ctx context.Context, substring string) ([]models.PostDB, error)
}

// SearchPostsResponse represents search results
// swagger:model SearchPostsResponse
type SearchPostsResponse struct {
	// Matching posts, ordered by title
	Posts []models.PostDB `json:"posts"`
}

// SearchPostsErrorResponse represents an error response for search
// swagger:model SearchPostsErrorResponse
type SearchPostsErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

// NewSearchPostsHandler returns an HTTP handler for content search.
// @Summary Search posts
// @Description Returns posts whose content contains the query literally, ordered by title. An empty query matches nothing.
// @Tags posts
// @Produce json
// @Param q query string false "Substring to search for"
// @Success 200 {object} handlers.SearchPostsResponse "Search results"
// @Router /posts/search [get]
func NewSearchPostsHandler(svc PostSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")

		posts, err := svc.Search(r.Context(), query)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(SearchPostsErrorResponse{Error: "Internal server error"})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(SearchPostsResponse{Posts: posts})
	}
}
