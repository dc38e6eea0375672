// Package session keeps one workspace per bearer token. A workspace bundles
// the stores and services of a single signed-in client.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arkavidia/competition-gateway/internal/domain"
	"github.com/arkavidia/competition-gateway/internal/gateway"
	"github.com/arkavidia/competition-gateway/internal/service"
	"github.com/arkavidia/competition-gateway/internal/store"
)

// Workspace is the state and actions of one signed-in client.
type Workspace struct {
	Session      *store.Session
	Store        *store.Competitions
	Auth         *service.AuthService
	Competitions *service.CompetitionService
}

// Registry maps bearer tokens to workspaces.
type Registry struct {
	client     *gateway.Client
	logger     *slog.Logger
	defaultTTL time.Duration
	now        func() time.Time
	public     *service.AuthService

	mu         sync.Mutex
	workspaces map[string]*Workspace
	revoked    map[string]time.Time // logged out token -> its expiry
}

// NewRegistry creates a registry whose workspaces talk to the service through
// client. defaultTTL is the lifetime given to restored tokens that carry no
// readable expiry.
func NewRegistry(client *gateway.Client, defaultTTL time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		client:     client,
		logger:     logger,
		defaultTTL: defaultTTL,
		now:        time.Now,
		public:     service.NewAuthService(gateway.NewUserAPI(client), store.NewSession(), logger),
		workspaces: make(map[string]*Workspace),
		revoked:    make(map[string]time.Time),
	}
}

// Public returns the auth service for actions that need no session:
// registration, password recovery and email confirmation.
func (r *Registry) Public() *service.AuthService {
	return r.public
}

func (r *Registry) newWorkspace() *Workspace {
	sess := store.NewSession()
	competitions := store.NewCompetitions()
	client := r.client.WithTokenSource(sess.Token)
	return &Workspace{
		Session:      sess,
		Store:        competitions,
		Auth:         service.NewAuthService(gateway.NewUserAPI(client), sess, r.logger),
		Competitions: service.NewCompetitionService(gateway.NewCompetitionAPI(client), competitions),
	}
}

// Open logs in with email and password and registers a workspace under the
// issued token.
func (r *Registry) Open(ctx context.Context, email, password string) (*Workspace, domain.AuthenticationResult, error) {
	ws := r.newWorkspace()
	res, err := ws.Auth.Login(ctx, email, password)
	if err != nil {
		return nil, domain.AuthenticationResult{}, err
	}
	r.mu.Lock()
	delete(r.revoked, res.BearerToken)
	r.workspaces[res.BearerToken] = ws
	r.mu.Unlock()
	return ws, res, nil
}

// Lookup returns the workspace of token. Expired workspaces are dropped.
func (r *Registry) Lookup(token string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[token]
	if !ok {
		return nil, false
	}
	if !ws.Session.IsAuthenticated(r.now()) {
		delete(r.workspaces, token)
		r.logger.Debug("workspace expired", "workspaces", len(r.workspaces))
		return nil, false
	}
	return ws, true
}

// Restore returns the workspace of token, rebuilding it from the service's
// session endpoint when the token is not known yet. Tokens closed through
// Close are refused until they expire. Concurrent restores of one token all
// get the same workspace.
func (r *Registry) Restore(ctx context.Context, token string) (*Workspace, error) {
	if ws, ok := r.Lookup(token); ok {
		return ws, nil
	}
	if r.isRevoked(token) {
		return nil, domain.ErrUnauthorized
	}

	expiresAt := r.expiry(token)
	if !expiresAt.After(r.now()) {
		return nil, domain.ErrUnauthorized
	}

	ws := r.newWorkspace()
	if _, err := ws.Auth.RestoreSession(ctx, token, expiresAt.UnixMilli()); err != nil {
		return nil, err
	}
	kept, err := r.put(token, ws)
	if err != nil {
		return nil, err
	}
	if kept == ws {
		r.logger.Info("workspace restored")
	}
	return kept, nil
}

// Close logs the workspace of token out and forgets it. The token stays
// revoked until its expiry so a later request cannot restore it.
func (r *Registry) Close(token string) bool {
	expiresAt := r.expiry(token)

	r.mu.Lock()
	ws, ok := r.workspaces[token]
	delete(r.workspaces, token)
	if ok {
		if ms := ws.Session.ExpiresAt(); ms > 0 {
			expiresAt = time.UnixMilli(ms)
		}
	}
	r.revoked[token] = expiresAt
	r.pruneRevoked()
	r.mu.Unlock()

	if ok {
		ws.Auth.Logout()
	}
	return ok
}

// Len returns the number of registered workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// put registers ws under token unless a live workspace is already there, in
// which case that one is returned. A token revoked meanwhile is refused.
func (r *Registry) put(token string, ws *Workspace) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.revoked[token]; ok {
		return nil, domain.ErrUnauthorized
	}
	if existing, ok := r.workspaces[token]; ok && existing.Session.IsAuthenticated(r.now()) {
		return existing, nil
	}
	r.workspaces[token] = ws
	return ws, nil
}

func (r *Registry) isRevoked(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneRevoked()
	_, ok := r.revoked[token]
	return ok
}

// pruneRevoked drops revocations whose token has expired anyway. Callers hold mu.
func (r *Registry) pruneRevoked() {
	now := r.now()
	for token, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, token)
		}
	}
}

// expiry reads the exp claim of a JWT without verifying it; the service
// verifies the token. exp is an absolute Unix time in seconds, the same value
// the login response carries. Other tokens get the default lifetime.
func (r *Registry) expiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return r.now().Add(r.defaultTTL)
}
