// Package domain holds the storefront's core types, service contracts, error
// codes and request-scoped context helpers.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// customerContextKey stores the logged-in customer.
	customerContextKey contextKey = iota

	// cartTokenContextKey stores the anonymous cart token from the cart cookie.
	cartTokenContextKey

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// User is the minimal customer record kept in a request context.
type User struct {
	ID       uuid.UUID
	Username string
	Email    string
}

// --- Customer Context Helpers ---

// NewContextWithUser returns a new context with the customer attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, customerContextKey, user)
}

// UserFromContext retrieves the customer from context.
// Returns nil if the request is anonymous.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(customerContextKey).(*User)
	return user
}

// UserIDFromContext returns uuid.Nil if no customer is present.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return uuid.Nil
}

// IsAuthenticated returns true if there is a customer in context.
func IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// --- Cart Token Context Helpers ---

// NewContextWithCartToken attaches the anonymous cart token.
func NewContextWithCartToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, cartTokenContextKey, token)
}

// CartTokenFromContext returns "" when no token was issued for this request.
func CartTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(cartTokenContextKey).(string)
	return token
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}

// ResolveOwner reports who owns the cart for this request: the logged-in
// customer first, then the anonymous cart token. It has no side effects.
func ResolveOwner(ctx context.Context) Owner {
	if user := UserFromContext(ctx); user != nil {
		return CustomerOwner(user.ID)
	}
	if token := CartTokenFromContext(ctx); token != "" {
		return AnonymousOwner(token)
	}
	return Owner{}
}
