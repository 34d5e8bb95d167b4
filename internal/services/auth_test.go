package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avdm2017/microblog/internal/models"
	"github.com/avdm2017/microblog/internal/repositories"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name     string
		username string
		email    string
		setup    func(reader *MockUserReader, writer *MockUserWriter)
		wantErr  error
	}{
		{
			name:     "success",
			username: "alice",
			email:    "alice@example.com",
			setup: func(reader *MockUserReader, writer *MockUserWriter) {
				reader.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(nil, nil)
				reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, nil)
				writer.EXPECT().
					Save(gomock.Any(), "Alice", "alice", "alice@example.com", gomock.Any(), models.AccessLevelUser).
					DoAndReturn(func(_ context.Context, _, _, _, hash, _ string) (int64, error) {
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))
						return 1, nil
					})
			},
		},
		{
			name:     "admin username gets admin access level",
			username: "admin",
			email:    "admin@example.com",
			setup: func(reader *MockUserReader, writer *MockUserWriter) {
				reader.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").Return(nil, nil)
				reader.EXPECT().GetByUsername(gomock.Any(), "admin").Return(nil, nil)
				writer.EXPECT().
					Save(gomock.Any(), "Alice", "admin", "admin@example.com", gomock.Any(), models.AccessLevelAdmin).
					Return(int64(1), nil)
			},
		},
		{
			name:     "duplicate email",
			username: "alice",
			email:    "taken@example.com",
			setup: func(reader *MockUserReader, writer *MockUserWriter) {
				reader.EXPECT().
					GetByEmail(gomock.Any(), "taken@example.com").
					Return(&models.UserDB{ID: 2, Email: "taken@example.com"}, nil)
			},
			wantErr: ErrUserAlreadyExists,
		},
		{
			name:     "duplicate username",
			username: "taken",
			email:    "alice@example.com",
			setup: func(reader *MockUserReader, writer *MockUserWriter) {
				reader.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(nil, nil)
				reader.EXPECT().
					GetByUsername(gomock.Any(), "taken").
					Return(&models.UserDB{ID: 2, Username: "taken"}, nil)
			},
			wantErr: ErrUserAlreadyExists,
		},
		{
			name:     "duplicate caught by unique constraint",
			username: "alice",
			email:    "alice@example.com",
			setup: func(reader *MockUserReader, writer *MockUserWriter) {
				reader.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(nil, nil)
				reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, nil)
				writer.EXPECT().
					Save(gomock.Any(), "Alice", "alice", "alice@example.com", gomock.Any(), models.AccessLevelUser).
					Return(int64(0), repositories.ErrDuplicate)
			},
			wantErr: ErrUserAlreadyExists,
		},
		{
			name:     "reader error",
			username: "alice",
			email:    "alice@example.com",
			setup: func(reader *MockUserReader, writer *MockUserWriter) {
				reader.EXPECT().
					GetByEmail(gomock.Any(), "alice@example.com").
					Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewMockUserReader(ctrl)
			writer := NewMockUserWriter(ctrl)
			tt.setup(reader, writer)

			svc := NewAuthService(reader, writer, nil, nil)
			err := svc.Register(context.Background(), "Alice", tt.username, tt.email, "secret")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	alice := &models.UserDB{ID: 1, Username: "alice", PasswordHash: string(hash)}

	tests := []struct {
		name      string
		password  string
		setup     func(reader *MockUserReader, tokens *MockTokenGenerator, sessions *MockSessionRegistry)
		wantToken string
		wantErr   error
	}{
		{
			name:     "success",
			password: "secret",
			setup: func(reader *MockUserReader, tokens *MockTokenGenerator, sessions *MockSessionRegistry) {
				reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(alice, nil)
				sessions.EXPECT().Create(gomock.Any(), int64(1)).Return("sid-1", nil)
				tokens.EXPECT().Generate(gomock.Any(), int64(1), "sid-1").Return("token-1", nil)
			},
			wantToken: "token-1",
		},
		{
			name:     "unknown username",
			password: "secret",
			setup: func(reader *MockUserReader, tokens *MockTokenGenerator, sessions *MockSessionRegistry) {
				reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			password: "nope",
			setup: func(reader *MockUserReader, tokens *MockTokenGenerator, sessions *MockSessionRegistry) {
				reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(alice, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "session create fails",
			password: "secret",
			setup: func(reader *MockUserReader, tokens *MockTokenGenerator, sessions *MockSessionRegistry) {
				reader.EXPECT().GetByUsername(gomock.Any(), "alice").Return(alice, nil)
				sessions.EXPECT().Create(gomock.Any(), int64(1)).Return("", errors.New("redis down"))
			},
			wantErr: errors.New("redis down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewMockUserReader(ctrl)
			tokens := NewMockTokenGenerator(ctrl)
			sessions := NewMockSessionRegistry(ctrl)
			tt.setup(reader, tokens, sessions)

			svc := NewAuthService(reader, nil, tokens, sessions)
			token, err := svc.Login(context.Background(), "alice", tt.password)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := NewMockSessionRegistry(ctrl)
	sessions.EXPECT().Delete(gomock.Any(), "sid-1").Return(nil)

	svc := NewAuthService(nil, nil, nil, sessions)
	assert.NoError(t, svc.Logout(context.Background(), "sid-1"))
}
