// Package authctx carries the authenticated actor through request contexts.
// Handlers resolve the actor once in middleware; services read it for
// scoping decisions instead of re-deriving authorization state.
package authctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Actor is the resolved identity attached to a request.
type Actor struct {
	ProfileID      snowflake.ID
	Email          string
	Role           string
	AccountType    string
	OrganizationID snowflake.ID
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == "admin" }

// IsSuperCustomer reports whether the actor manages an organization.
func (a Actor) IsSuperCustomer() bool { return a.AccountType == "super_customer" }

type actorKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor from context, if set.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
