// Package local is an in-memory identity provider for development and
// tests. Passwords are bcrypt-hashed even here so the provider behaves
// like a real directory.
package local

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lucasamarante27/my-contabil/internal/auth"
)

const minPasswordLength = 6

type Provider struct {
	mu    sync.Mutex
	users map[string]user
}

type user struct {
	id           string
	passwordHash []byte
}

func New() *Provider {
	return &Provider{users: make(map[string]user)}
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (auth.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < minPasswordLength {
		return auth.Identity{}, auth.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return auth.Identity{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.users[email]; exists {
		return auth.Identity{}, auth.ErrEmailTaken
	}

	u := user{id: uuid.NewString(), passwordHash: hash}
	p.users[email] = u
	return auth.Identity{UserID: u.id, Email: email}, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	u, exists := p.users[email]
	p.mu.Unlock()

	if !exists {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}
	return auth.Identity{UserID: u.id, Email: email}, nil
}
