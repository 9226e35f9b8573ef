package shared

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated principal on whose behalf an operation runs.
// It is derived from a verified credential, never from client-supplied ids.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// IsAnonymous reports whether no user has been authenticated
func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil && i.Role != RoleAdmin
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type correlationIDKey struct{}

// WithCorrelationID stores a request correlation id in ctx
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	if correlationID == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationIDFromContext returns the correlation id stored in ctx, or ""
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}
