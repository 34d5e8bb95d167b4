package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdm2017/microblog/internal/models"
	"github.com/avdm2017/microblog/internal/services"
)

func TestNewLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name       string
		body       string
		setup      func(svc *MockLoginer)
		wantStatus int
		wantToken  string
	}{
		{
			name: "logged in",
			body: `{"username":"alice","password":"secret"}`,
			setup: func(svc *MockLoginer) {
				svc.EXPECT().Login(gomock.Any(), "alice", "secret").Return("token-1", nil)
			},
			wantStatus: http.StatusOK,
			wantToken:  "token-1",
		},
		{
			name:       "invalid json",
			body:       `{not json`,
			setup:      func(svc *MockLoginer) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "bad credentials",
			body: `{"username":"alice","password":"nope"}`,
			setup: func(svc *MockLoginer) {
				svc.EXPECT().Login(gomock.Any(), "alice", "nope").Return("", services.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMockLoginer(ctrl)
			tt.setup(svc)

			handler := NewLoginHandler(svc)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBufferString(tt.body))
			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp LoginResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, models.OutcomeLoggedIn, resp.Outcome)
				assert.Equal(t, tt.wantToken, resp.Token)
			}
		})
	}
}
