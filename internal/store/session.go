package store

import (
	"sync"
	"time"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

// Session holds the authenticated user and bearer token of one client.
type Session struct {
	mu        sync.RWMutex
	token     string
	expiresAt int64
	user      *domain.User
	listeners listeners
}

// NewSession creates an empty, unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// Subscribe registers fn for every applied mutation and returns a function
// that removes it.
func (s *Session) Subscribe(fn Listener) func() {
	return s.listeners.add(fn)
}

// Set stores the result of a successful login.
func (s *Session) Set(res domain.AuthenticationResult) {
	s.mu.Lock()
	s.token = res.BearerToken
	s.expiresAt = res.ExpiresAt
	user := res.User
	s.user = &user
	s.mu.Unlock()

	s.listeners.notify(MutationSetSession)
}

// SetUser replaces the session's user, keeping the token.
func (s *Session) SetUser(user domain.User) {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	s.listeners.notify(MutationSetUser)
}

// Token returns the bearer token, or "" before login.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the session's user if one is known.
func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// ExpiresAt returns the token expiry in Unix milliseconds.
func (s *Session) ExpiresAt() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// IsAuthenticated reports whether the session holds a token that is still
// valid at now.
func (s *Session) IsAuthenticated(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && now.UnixMilli() < s.expiresAt
}

// Clear forgets the token and the user.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.expiresAt = 0
	s.user = nil
	s.mu.Unlock()

	s.listeners.notify(MutationClearSession)
}
