package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// SessionManager keeps bearer tokens for signed-in users in memory.
// Expired sessions are swept by a background goroutine.
type SessionManager struct {
	mu           sync.Mutex
	sessions     map[string]session
	ttl          time.Duration
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type session struct {
	identity  Identity
	expiresAt time.Time
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	sm := &SessionManager{
		sessions:    make(map[string]session),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go sm.startCleanup()
	return sm
}

// Create issues a new token for the identity.
func (sm *SessionManager) Create(id Identity) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[token] = session{identity: id, expiresAt: time.Now().Add(sm.ttl)}
	return token, nil
}

// Resolve returns the identity behind a token, or ErrAuthenticationRequired
// if the token is unknown or expired.
func (sm *SessionManager) Resolve(token string) (Identity, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[token]
	if !ok {
		return Identity{}, ErrAuthenticationRequired
	}
	if time.Now().After(s.expiresAt) {
		delete(sm.sessions, token)
		return Identity{}, ErrAuthenticationRequired
	}
	return s.identity, nil
}

// Revoke tears down a session. Revoking an unknown token is a no-op.
func (sm *SessionManager) Revoke(token string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, token)
}

// ActiveSessions returns the number of live sessions.
func (sm *SessionManager) ActiveSessions() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// startCleanup runs periodic cleanup to remove expired sessions.
func (sm *SessionManager) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.cleanupExpired()
		case <-sm.stopCleanup:
			return
		}
	}
}

func (sm *SessionManager) cleanupExpired() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for token, s := range sm.sessions {
		if now.After(s.expiresAt) {
			delete(sm.sessions, token)
		}
	}
}

// Stop gracefully shuts down the cleanup goroutine.
func (sm *SessionManager) Stop() {
	sm.shutdownOnce.Do(func() {
		close(sm.stopCleanup)
	})
}
