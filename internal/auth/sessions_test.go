package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	sm := NewSessionManager(time.Hour)
	defer sm.Stop()

	token, err := sm.Create(Identity{UserID: "u1", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	id, err := sm.Resolve(token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id.UserID != "u1" || id.Email != "a@b.com" {
		t.Fatalf("wrong identity: %+v", id)
	}

	sm.Revoke(token)
	if _, err := sm.Resolve(token); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired after revoke, got %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	sm := NewSessionManager(-time.Second)
	defer sm.Stop()

	token, err := sm.Create(Identity{UserID: "u1"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := sm.Resolve(token); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected expired session to be rejected, got %v", err)
	}
	if n := sm.ActiveSessions(); n != 0 {
		t.Fatalf("expired session should be dropped on resolve, have %d", n)
	}
}

func TestUnknownTokenRejected(t *testing.T) {
	sm := NewSessionManager(time.Hour)
	defer sm.Stop()

	if _, err := sm.Resolve("nope"); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}
