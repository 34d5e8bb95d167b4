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

func TestNewUpdateProfileHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	alice := &models.UserDB{ID: 2, Username: "alice", AccessLevel: models.AccessLevelUser}
	body := `{"name":"Alice B","username":"alice","email":"alice@example.com","about":"hi"}`

	tests := []struct {
		name       string
		targetID   string
		body       string
		setup      func(svc *MockProfileUpdater)
		wantStatus int
	}{
		{
			name:     "updated",
			targetID: "2",
			body:     body,
			setup: func(svc *MockProfileUpdater) {
				svc.EXPECT().
					UpdateProfile(gomock.Any(), alice, int64(2), services.ProfileChanges{
						Name: "Alice B", Username: "alice", Email: "alice@example.com", About: "hi",
					}).
					Return(&models.UserDB{ID: 2, Name: "Alice B", Username: "alice"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad user id",
			targetID:   "abc",
			body:       body,
			setup:      func(svc *MockProfileUpdater) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing fields",
			targetID:   "2",
			body:       `{"name":"Alice"}`,
			setup:      func(svc *MockProfileUpdater) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:     "access level change without admin rights",
			targetID: "2",
			body:     `{"name":"Alice","username":"alice","email":"alice@example.com","access_level":"admin"}`,
			setup: func(svc *MockProfileUpdater) {
				svc.EXPECT().
					UpdateProfile(gomock.Any(), alice, int64(2), gomock.Any()).
					Return(nil, services.ErrForbidden)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:     "unknown access level",
			targetID: "2",
			body:     `{"name":"Alice","username":"alice","email":"alice@example.com","access_level":"root"}`,
			setup: func(svc *MockProfileUpdater) {
				svc.EXPECT().
					UpdateProfile(gomock.Any(), alice, int64(2), gomock.Any()).
					Return(nil, services.ErrInvalidAccessLevel)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:     "target gone",
			targetID: "9",
			body:     body,
			setup: func(svc *MockProfileUpdater) {
				svc.EXPECT().
					UpdateProfile(gomock.Any(), alice, int64(9), gomock.Any()).
					Return(nil, services.ErrUserNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:     "duplicate username or email",
			targetID: "2",
			body:     body,
			setup: func(svc *MockProfileUpdater) {
				svc.EXPECT().
					UpdateProfile(gomock.Any(), alice, int64(2), gomock.Any()).
					Return(nil, services.ErrUserAlreadyExists)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMockProfileUpdater(ctrl)
			tt.setup(svc)

			r := httptest.NewRequest(http.MethodPut, "/api/v1/users/"+tt.targetID, bytes.NewBufferString(tt.body))
			r = authenticated(r, alice)
			r = withURLParams(r, map[string]string{"id": tt.targetID})

			w := httptest.NewRecorder()
			NewUpdateProfileHandler(svc).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp UpdateProfileResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, models.OutcomeProfileUpdated, resp.Outcome)
			}
		})
	}
}
