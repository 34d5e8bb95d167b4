package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_GenerateAndGetClaims(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		j := New(WithSecretKey("test"), WithExpiration(time.Hour))

		token, err := j.Generate(ctx, 42, "sid-1")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := j.GetClaims(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, "sid-1", claims.SessionID)
		require.NotNil(t, claims.ExpiresAt)
	})

	t.Run("zero expiration omits the exp claim", func(t *testing.T) {
		j := New(WithSecretKey("test"))

		token, err := j.Generate(ctx, 42, "sid-1")
		require.NoError(t, err)

		claims, err := j.GetClaims(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, claims.ExpiresAt)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := New(WithSecretKey("one")).Generate(ctx, 42, "sid-1")
		require.NoError(t, err)

		_, err = New(WithSecretKey("other")).GetClaims(ctx, token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		j := New(WithSecretKey("test"), WithExpiration(-time.Minute))

		token, err := j.Generate(ctx, 42, "sid-1")
		require.NoError(t, err)

		_, err = j.GetClaims(ctx, token)
		assert.Error(t, err)
	})

	t.Run("missing identity claims", func(t *testing.T) {
		j := New(WithSecretKey("test"))

		token, err := j.Generate(ctx, 0, "")
		require.NoError(t, err)

		_, err = j.GetClaims(ctx, token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := New(WithSecretKey("test")).GetClaims(ctx, "not.a.token")
		assert.Error(t, err)
	})
}

func TestJWT_Validate(t *testing.T) {
	ctx := context.Background()
	j := New(WithSecretKey("test"), WithExpiration(time.Hour))

	token, err := j.Generate(ctx, 42, "sid-1")
	require.NoError(t, err)

	assert.NoError(t, j.Validate(ctx, token))
	assert.Error(t, j.Validate(ctx, token+"tampered"))
}

func TestJWT_GetTokenFromRequest(t *testing.T) {
	ctx := context.Background()
	j := New(WithSecretKey("test"))

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "no token", header: "Bearer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			token, err := j.GetTokenFromRequest(ctx, r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}
