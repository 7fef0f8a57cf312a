package auth

import (
	"context"

	"github.com/markethub/payout-service/internal/domain"
)

// Role represents the actor's role in the payout workflow
type Role string

const (
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// Actor is the authenticated caller resolved from the transport layer
type Actor struct {
	Role       Role
	ProviderID string // set for provider actors only
	Subject    string
	RequestID  string
}

type contextKey string

const actorKey contextKey = "actor"

// WithActor adds the authenticated actor to the context
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the authenticated actor, ErrAuthMissing if absent
func ActorFromContext(ctx context.Context) (*Actor, error) {
	actor, ok := ctx.Value(actorKey).(*Actor)
	if !ok || actor == nil {
		return nil, domain.ErrAuthMissing
	}
	return actor, nil
}

// RequireProvider extracts a provider actor from the context. Admin or missing
// credentials fail with an authorization error that leaks nothing about the
// resource.
func RequireProvider(ctx context.Context) (*Actor, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if actor.Role != RoleProvider || actor.ProviderID == "" {
		return nil, domain.ErrAuthRoleRequired
	}
	return actor, nil
}

// RequireAdmin extracts an admin actor from the context
func RequireAdmin(ctx context.Context) (*Actor, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if actor.Role != RoleAdmin {
		return nil, domain.ErrAuthRoleRequired
	}
	return actor, nil
}
