package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdm2017/microblog/internal/models"
	"github.com/avdm2017/microblog/internal/services"
)

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestNewGetPostHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("found", func(t *testing.T) {
		svc := NewMockPostFinder(ctrl)
		svc.EXPECT().
			FindByAuthorAndSlug(gomock.Any(), "alice", "hello").
			Return(&models.PostDB{ID: 10, Title: "Hello", Slug: "hello", AuthorID: 2}, nil)

		r := withURLParams(
			httptest.NewRequest(http.MethodGet, "/api/v1/users/alice/posts/hello", nil),
			map[string]string{"username": "alice", "slug": "hello"},
		)
		w := httptest.NewRecorder()
		NewGetPostHandler(svc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp GetPostResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.NotNil(t, resp.Post)
		assert.Equal(t, "hello", resp.Post.Slug)
	})

	t.Run("miss is a 404", func(t *testing.T) {
		svc := NewMockPostFinder(ctrl)
		svc.EXPECT().
			FindByAuthorAndSlug(gomock.Any(), "alice", "nope").
			Return(nil, services.ErrPostNotFound)

		r := withURLParams(
			httptest.NewRequest(http.MethodGet, "/api/v1/users/alice/posts/nope", nil),
			map[string]string{"username": "alice", "slug": "nope"},
		)
		w := httptest.NewRecorder()
		NewGetPostHandler(svc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
