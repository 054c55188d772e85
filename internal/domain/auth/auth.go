// Package auth carries the authenticated caller identity and issues the
// access tokens that establish it. Every domain operation receives an
// explicit Identity rather than reading ambient session state.
package auth

import (
	"context"

	"github.com/dinehall/dinehall/internal/domain/account"
)

// Identity is the already-authenticated caller of a domain operation.
type Identity struct {
	AccountID int64
	Role      account.Role
}

type identityKey struct{}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// IdentityFromContext extracts the caller identity set by the auth
// middleware. The second result is false for unauthenticated contexts.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(Identity)
	return ident, ok
}
