package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenService(t *testing.T) {
	svc, err := NewTokenService(time.Hour, "tagforge", "tagforge-api", testSecret)
	require.NoError(t, err)

	t.Run("GenerateAndValidate", func(t *testing.T) {
		token, err := svc.GenerateAccessToken("admin")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Subject)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
	})

	t.Run("UniqueTokenIDs", func(t *testing.T) {
		first, err := svc.GenerateAccessToken("admin")
		require.NoError(t, err)
		second, err := svc.GenerateAccessToken("admin")
		require.NoError(t, err)

		firstClaims, err := svc.ValidateToken(first)
		require.NoError(t, err)
		secondClaims, err := svc.ValidateToken(second)
		require.NoError(t, err)
		assert.NotEqual(t, firstClaims.TokenID, secondClaims.TokenID)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongKey", func(t *testing.T) {
		other, err := NewTokenService(time.Hour, "tagforge", "tagforge-api", "ffffffffffffffffffffffffffffffff")
		require.NoError(t, err)

		token, err := other.GenerateAccessToken("admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expired, err := NewTokenService(-time.Minute, "tagforge", "tagforge-api", testSecret)
		require.NoError(t, err)

		token, err := expired.GenerateAccessToken("admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("EmptySecretRejected", func(t *testing.T) {
		_, err := NewTokenService(time.Hour, "tagforge", "tagforge-api", "")
		assert.Error(t, err)
	})
}
