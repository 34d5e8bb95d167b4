package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/avdm2017/microblog/internal/jwt"
)

func TestNewLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("destroys the token's session", func(t *testing.T) {
		tokener := NewMockLogoutTokener(ctrl)
		svc := NewMockLogouter(ctrl)

		tokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("token", nil)
		tokener.EXPECT().GetClaims(gomock.Any(), "token").Return(&jwt.Claims{UserID: 2, SessionID: "sid-1"}, nil)
		svc.EXPECT().Logout(gomock.Any(), "sid-1").Return(nil)

		w := httptest.NewRecorder()
		NewLogoutHandler(svc, tokener).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		tokener := NewMockLogoutTokener(ctrl)
		tokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("", errors.New("authorization header missing"))

		w := httptest.NewRecorder()
		NewLogoutHandler(NewMockLogouter(ctrl), tokener).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		tokener := NewMockLogoutTokener(ctrl)
		tokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("token", nil)
		tokener.EXPECT().GetClaims(gomock.Any(), "token").Return(nil, errors.New("invalid token"))

		w := httptest.NewRecorder()
		NewLogoutHandler(NewMockLogouter(ctrl), tokener).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
