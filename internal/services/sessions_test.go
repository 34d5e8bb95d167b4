package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("stores the session without a TTL", func(t *testing.T) {
		rdb := NewMockRedisClient(ctrl)
		ok := redis.NewStatusCmd(ctx)
		ok.SetVal("OK")

		rdb.EXPECT().
			Set(gomock.Any(), gomock.Any(), "7", gomock.Any()).
			DoAndReturn(func(_ context.Context, key string, _ interface{}, expiration any) *redis.StatusCmd {
				assert.True(t, strings.HasPrefix(key, "session:"))
				assert.EqualValues(t, 0, expiration)
				return ok
			})

		svc := NewSessionService(rdb)
		sessionID, err := svc.Create(ctx, 7)
		require.NoError(t, err)
		assert.NotEmpty(t, sessionID)
	})

	t.Run("redis failure surfaces", func(t *testing.T) {
		rdb := NewMockRedisClient(ctrl)
		failed := redis.NewStatusCmd(ctx)
		failed.SetErr(errors.New("redis down"))

		rdb.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(failed)

		svc := NewSessionService(rdb)
		sessionID, err := svc.Create(ctx, 7)
		assert.EqualError(t, err, "redis down")
		assert.Empty(t, sessionID)
	})
}

func TestSessionService_Exists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	tests := []struct {
		name    string
		val     int64
		err     error
		want    bool
		wantErr bool
	}{
		{name: "alive", val: 1, want: true},
		{name: "gone", val: 0, want: false},
		{name: "redis failure", err: errors.New("redis down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := NewMockRedisClient(ctrl)
			cmd := redis.NewIntCmd(ctx)
			cmd.SetVal(tt.val)
			if tt.err != nil {
				cmd.SetErr(tt.err)
			}
			rdb.EXPECT().Exists(gomock.Any(), "session:sid-1").Return(cmd)

			svc := NewSessionService(rdb)
			alive, err := svc.Exists(ctx, "sid-1")

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, alive)
		})
	}
}

func TestSessionService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("deletes by prefixed key", func(t *testing.T) {
		rdb := NewMockRedisClient(ctrl)
		cmd := redis.NewIntCmd(ctx)
		cmd.SetVal(1)
		rdb.EXPECT().Del(gomock.Any(), "session:sid-1").Return(cmd)

		svc := NewSessionService(rdb)
		assert.NoError(t, svc.Delete(ctx, "sid-1"))
	})

	t.Run("unknown session is not an error", func(t *testing.T) {
		rdb := NewMockRedisClient(ctrl)
		cmd := redis.NewIntCmd(ctx)
		cmd.SetVal(0)
		rdb.EXPECT().Del(gomock.Any(), "session:missing").Return(cmd)

		svc := NewSessionService(rdb)
		assert.NoError(t, svc.Delete(ctx, "missing"))
	})
}
