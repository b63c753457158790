package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox"
)

type contextKey string

const (
	ctxActorID contextKey = "actor_id"
	ctxRole    contextKey = "actor_role"
)

func ActorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.ActorRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.ActorRole); ok {
		return v
	}
	return ""
}

// WithActor seeds the context with the authenticated caller, used directly by
// tests and by the auth middleware.
func WithActor(ctx context.Context, actorID string, role enums.ActorRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxActorID, actorID)
	return context.WithValue(ctx, ctxRole, role)
}

// ActorRefFromContext builds the outbox actor reference for the caller, or
// nil when the request is unauthenticated.
func ActorRefFromContext(ctx context.Context) *outbox.ActorRef {
	raw := ActorIDFromContext(ctx)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &outbox.ActorRef{ActorID: id, Role: RoleFromContext(ctx)}
}
