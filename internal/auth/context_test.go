package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markethub/payout-service/internal/domain"
)

func TestActorFromContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		actor := &Actor{Role: RoleAdmin, Subject: "admin-1"}
		ctx := WithActor(context.Background(), actor)

		got, err := ActorFromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, actor, got)
	})

	t.Run("missing actor", func(t *testing.T) {
		_, err := ActorFromContext(context.Background())
		assert.Equal(t, domain.ErrorCodeAuthMissing, domain.GetErrorCode(err))
	})
}

func TestRequireProvider(t *testing.T) {
	t.Run("provider passes", func(t *testing.T) {
		ctx := WithActor(context.Background(), &Actor{Role: RoleProvider, ProviderID: "prov-a"})
		actor, err := RequireProvider(ctx)
		require.NoError(t, err)
		assert.Equal(t, "prov-a", actor.ProviderID)
	})

	t.Run("admin is refused", func(t *testing.T) {
		ctx := WithActor(context.Background(), &Actor{Role: RoleAdmin})
		_, err := RequireProvider(ctx)
		assert.Equal(t, domain.ErrorCodeAuthRoleRequired, domain.GetErrorCode(err))
	})

	t.Run("provider without id is refused", func(t *testing.T) {
		ctx := WithActor(context.Background(), &Actor{Role: RoleProvider})
		_, err := RequireProvider(ctx)
		assert.Equal(t, domain.ErrorCodeAuthRoleRequired, domain.GetErrorCode(err))
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		ctx := WithActor(context.Background(), &Actor{Role: RoleAdmin, Subject: "admin-1"})
		actor, err := RequireAdmin(ctx)
		require.NoError(t, err)
		assert.Equal(t, "admin-1", actor.Subject)
	})

	t.Run("provider is refused", func(t *testing.T) {
		ctx := WithActor(context.Background(), &Actor{Role: RoleProvider, ProviderID: "prov-a"})
		_, err := RequireAdmin(ctx)
		assert.Equal(t, domain.ErrorCodeAuthRoleRequired, domain.GetErrorCode(err))
	})
}
