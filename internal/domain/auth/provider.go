// Package auth identifies the current user on incoming requests. It
// exposes a small Provider interface so services never reach into HTTP
// machinery, plus a JWT-backed implementation for the API surface.
// Login and registration flows live outside this service.
package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

var userIDKey contextKey

// WithUserID returns a context carrying the authenticated user's ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user's ID, if present.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// Provider yields the identity of the current user, or false when the
// request is unauthenticated.
type Provider interface {
	CurrentUser(ctx context.Context) (uuid.UUID, bool)
}

// ContextProvider resolves the current user from the request context
// populated by the JWT middleware.
type ContextProvider struct{}

// CurrentUser implements Provider.
func (ContextProvider) CurrentUser(ctx context.Context) (uuid.UUID, bool) {
	return UserIDFromContext(ctx)
}
