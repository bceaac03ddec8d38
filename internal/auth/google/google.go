// Package google verifies credentials against the Google Identity
// Toolkit REST API, the directory behind Firebase Authentication.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	goption "google.golang.org/api/option"

	"github.com/lucasamarante27/my-contabil/internal/auth"
)

type Provider struct {
	svc *identitytoolkit.RelyingpartyService
}

// Ensure interface conformance
var _ auth.IdentityProvider = (*Provider)(nil)

// New creates a provider backed by the Identity Toolkit API. The key is
// the project's web API key, not a service account credential.
func New(ctx context.Context, apiKey string) (*Provider, error) {
	svc, err := identitytoolkit.NewService(ctx, goption.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit service: %w", err)
	}
	return &Provider{svc: svc.Relyingparty}, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (auth.Identity, error) {
	resp, err := p.svc.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return auth.Identity{}, mapAPIError(err)
	}

	slog.InfoContext(ctx, "User signed up via Identity Toolkit", "email", email)
	return auth.Identity{UserID: resp.LocalId, Email: resp.Email}, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Identity, error) {
	resp, err := p.svc.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return auth.Identity{}, mapAPIError(err)
	}

	return auth.Identity{UserID: resp.LocalId, Email: resp.Email}, nil
}

// mapAPIError translates Identity Toolkit error codes into the
// provider-neutral sentinels handlers know about.
func mapAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case strings.Contains(apiErr.Message, "EMAIL_EXISTS"):
		return auth.ErrEmailTaken
	case strings.Contains(apiErr.Message, "WEAK_PASSWORD"):
		return auth.ErrWeakPassword
	case strings.Contains(apiErr.Message, "EMAIL_NOT_FOUND"),
		strings.Contains(apiErr.Message, "INVALID_PASSWORD"),
		strings.Contains(apiErr.Message, "INVALID_LOGIN_CREDENTIALS"):
		return auth.ErrInvalidCredentials
	}
	return err
}
