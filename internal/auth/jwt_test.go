package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, expiry time.Duration) *JWTManager {
	t.Helper()
	jm, err := NewJWTManager([]byte("test-secret"), "payout-service", expiry)
	require.NoError(t, err)
	return jm
}

func TestJWTManager_RoundTrip(t *testing.T) {
	jm := newTestManager(t, time.Hour)

	t.Run("provider token", func(t *testing.T) {
		token, err := jm.GenerateToken(RoleProvider, "user-1", "prov-alpha")
		require.NoError(t, err)

		claims, err := jm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, string(RoleProvider), claims.Role)
		assert.Equal(t, "prov-alpha", claims.ProviderID)
		assert.Equal(t, "user-1", claims.Subject)

		actor := ActorFromClaims(claims)
		assert.Equal(t, RoleProvider, actor.Role)
		assert.Equal(t, "prov-alpha", actor.ProviderID)
	})

	t.Run("admin token carries no provider id", func(t *testing.T) {
		token, err := jm.GenerateToken(RoleAdmin, "admin-1", "")
		require.NoError(t, err)

		claims, err := jm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, string(RoleAdmin), claims.Role)
		assert.Empty(t, claims.ProviderID)
	})
}

func TestJWTManager_Rejections(t *testing.T) {
	jm := newTestManager(t, time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := jm.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTManager([]byte("other-secret"), "payout-service", time.Hour)
		require.NoError(t, err)
		token, err := other.GenerateToken(RoleAdmin, "admin-1", "")
		require.NoError(t, err)

		_, err = jm.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		short := newTestManager(t, -time.Minute)
		token, err := short.GenerateToken(RoleAdmin, "admin-1", "")
		require.NoError(t, err)

		_, err = jm.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("provider token without provider id", func(t *testing.T) {
		token, err := jm.GenerateToken(RoleProvider, "user-1", "")
		require.NoError(t, err)

		_, err = jm.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("empty secret rejected at construction", func(t *testing.T) {
		_, err := NewJWTManager(nil, "payout-service", time.Hour)
		assert.Error(t, err)
	})
}
