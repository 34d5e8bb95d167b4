package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdm2017/microblog/internal/models"
)

func TestNewListPostsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("lists everything", func(t *testing.T) {
		svc := NewMockPostLister(ctrl)
		svc.EXPECT().ListAll(gomock.Any()).Return([]models.PostDB{
			{ID: 2, Title: "Newer", AuthorID: 2},
			{ID: 1, Title: "Older", AuthorID: 3},
		}, nil)

		w := httptest.NewRecorder()
		NewListPostsHandler(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp ListPostsResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Posts, 2)
		assert.Equal(t, "Newer", resp.Posts[0].Title)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := NewMockPostLister(ctrl)
		svc.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("db down"))

		w := httptest.NewRecorder()
		NewListPostsHandler(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestNewMyPostsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	alice := &models.UserDB{ID: 2, Username: "alice", AccessLevel: models.AccessLevelUser}

	t.Run("lists own posts", func(t *testing.T) {
		svc := NewMockAuthorPostLister(ctrl)
		svc.EXPECT().ListByAuthor(gomock.Any(), int64(2)).Return([]models.PostDB{
			{ID: 1, Title: "Mine", AuthorID: 2},
		}, nil)

		r := authenticated(httptest.NewRequest(http.MethodGet, "/api/v1/me/posts", nil), alice)
		w := httptest.NewRecorder()
		NewMyPostsHandler(svc).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp ListPostsResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Posts, 1)
		assert.Equal(t, int64(2), resp.Posts[0].AuthorID)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewMyPostsHandler(NewMockAuthorPostLister(ctrl)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/me/posts", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
