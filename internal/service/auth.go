package service

import (
	"context"
	"log/slog"

	"github.com/arkavidia/competition-gateway/internal/domain"
	"github.com/arkavidia/competition-gateway/internal/store"
)

// AuthService runs account actions against one session store
type AuthService struct {
	api     UserAPI
	session *store.Session
	logger  *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(api UserAPI, session *store.Session, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		api:     api,
		session: session,
		logger:  logger,
	}
}

// Login authenticates with email and password and stores the result in the session
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.AuthenticationResult, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return domain.AuthenticationResult{}, err
	}
	s.session.Set(res)
	s.logger.Info("user logged in", "email", res.User.Email)
	return res, nil
}

// FetchSession reloads the user owning the session's token
func (s *AuthService) FetchSession(ctx context.Context) (domain.User, error) {
	user, err := s.api.GetSession(ctx, s.session.Token())
	if err != nil {
		return domain.User{}, err
	}
	s.session.SetUser(user)
	return user, nil
}

// RestoreSession adopts an existing token. The token is checked with the
// service before the session is populated.
func (s *AuthService) RestoreSession(ctx context.Context, token string, expiresAt int64) (domain.User, error) {
	user, err := s.api.GetSession(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	s.session.Set(domain.AuthenticationResult{
		BearerToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	})
	return user, nil
}

// Register creates an account
func (s *AuthService) Register(ctx context.Context, email, fullName, password string) error {
	return s.api.Register(ctx, email, fullName, password)
}

// Recover requests a password reset email
func (s *AuthService) Recover(ctx context.Context, email string) error {
	return s.api.Recover(ctx, email)
}

// ResetPassword sets a new password with a reset token
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.api.ResetPassword(ctx, token, newPassword)
}

// ConfirmEmailAddress confirms a registration
func (s *AuthService) ConfirmEmailAddress(ctx context.Context, token string) error {
	return s.api.ConfirmEmailAddress(ctx, token)
}

// FetchUserDetails reloads the session's user profile
func (s *AuthService) FetchUserDetails(ctx context.Context) (domain.User, error) {
	user, err := s.api.GetUserDetails(ctx)
	if err != nil {
		return domain.User{}, err
	}
	s.session.SetUser(user)
	return user, nil
}

// EditUser updates the profile and stores the returned user
func (s *AuthService) EditUser(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := s.api.EditUser(ctx, user)
	if err != nil {
		return domain.User{}, err
	}
	s.session.SetUser(updated)
	return updated, nil
}

// Logout forgets the session locally; the service is not contacted
func (s *AuthService) Logout() {
	s.session.Clear()
}
