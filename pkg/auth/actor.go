package auth

import (
	"context"

	"medbook/pkg/config"
)

type contextKey string

const actorKey contextKey = "actor"

// Actor is the authenticated principal attached to every request. The booking
// engine trusts it as-is; token verification happens in the middleware.
type Actor struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	BusinessID string `json:"business_id,omitempty"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == config.RoleAdmin
}

func (a Actor) IsSpecialist() bool {
	return a.Role == config.RoleSpecialist
}

func (a Actor) IsClient() bool {
	return a.Role == config.RoleClient
}

// SameBusiness reports whether the actor belongs to the given business.
// Clients have no business affiliation and always fail this check.
func (a Actor) SameBusiness(businessID string) bool {
	return a.BusinessID != "" && a.BusinessID == businessID
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
