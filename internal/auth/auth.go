// Package auth defines identity providers and session handling. Every
// ledger operation requires an authenticated session; requests without
// one fail before touching storage.
package auth

import (
	"context"
	"errors"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailTaken             = errors.New("email already registered")
	ErrWeakPassword           = errors.New("password too short")
)

// Identity is the authenticated principal behind a session.
type Identity struct {
	UserID string
	Email  string
}

// IdentityProvider verifies credentials against a user directory.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Identity, error)
}
