// Package identity resolves the caller behind a session token. The actual
// sign-in flow belongs to the identity provider; this package only asks it
// who a token belongs to.
package identity

import (
	"context"
	"errors"

	"safehire/internal/domain"
)

var (
	// ErrUnauthenticated means the token is missing, expired or unknown.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotConfigured means the provider lacks the URL or key it needs.
	ErrNotConfigured = errors.New("identity provider not configured")
)

// Provider maps a session token to a user.
type Provider interface {
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}
