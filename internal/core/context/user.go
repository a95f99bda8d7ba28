// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains authenticated user information.
// DNI is the national identity number used as the employee key and is
// recorded on every movement as the processing user.
type UserContext struct {
	DNI  string
	Name string
	Role string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserDNI returns the acting user's DNI from context or empty string.
func GetUserDNI(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.DNI
	}
	return ""
}

// HasRole checks if the user carries the given role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	return u != nil && u.Role == role
}
