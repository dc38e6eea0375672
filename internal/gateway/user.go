package gateway

import (
	"context"
	"net/http"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

// UserAPI wraps the authentication and account endpoints.
type UserAPI struct {
	client *Client
}

// NewUserAPI creates a UserAPI on top of client.
func NewUserAPI(client *Client) *UserAPI {
	return &UserAPI{client: client}
}

// GetSession returns the user owning token.
func (a *UserAPI) GetSession(ctx context.Context, token string) (domain.User, error) {
	raw, err := a.client.do(ctx, http.MethodGet, "/auth/", token, nil)
	if err != nil {
		return domain.User{}, a.fail("get session", classify(err, sessionRules, domain.LoginError))
	}
	return DecodeUser(raw)
}

// Login exchanges credentials for a bearer token.
func (a *UserAPI) Login(ctx context.Context, email, password string) (domain.AuthenticationResult, error) {
	body := map[string]string{"email": email, "password": password}
	raw, err := a.client.do(ctx, http.MethodPost, "/auth/login/", "", body)
	if err != nil {
		return domain.AuthenticationResult{}, a.fail("login", classify(err, loginRules, domain.LoginError))
	}
	return DecodeAuthentication(raw)
}

// Register creates an account; the service sends a confirmation email.
func (a *UserAPI) Register(ctx context.Context, email, fullName, password string) error {
	body := map[string]string{"email": email, "password": password, "fullName": fullName}
	if _, err := a.client.do(ctx, http.MethodPost, "/auth/register/", "", body); err != nil {
		return a.fail("register", classify(err, registrationRules, domain.RegistrationError))
	}
	return nil
}

// Recover requests a password reset email.
func (a *UserAPI) Recover(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if _, err := a.client.do(ctx, http.MethodPost, "/auth/password-reset/", "", body); err != nil {
		return a.fail("recover", classify(err, flagRules, false))
	}
	return nil
}

// ResetPassword sets a new password using the token from the reset email.
func (a *UserAPI) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "newPassword": newPassword}
	if _, err := a.client.do(ctx, http.MethodPost, "/auth/confirm-password-reset/", "", body); err != nil {
		return a.fail("reset password", classify(err, resetPasswordRules, domain.EmailOperationError))
	}
	return nil
}

// ConfirmEmailAddress confirms a registration using the emailed token.
func (a *UserAPI) ConfirmEmailAddress(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	if _, err := a.client.do(ctx, http.MethodPost, "/auth/confirm-registration/", "", body); err != nil {
		return a.fail("confirm email", classify(err, confirmEmailRules, domain.EmailOperationError))
	}
	return nil
}

// GetUserDetails returns the user of the client's bound session.
func (a *UserAPI) GetUserDetails(ctx context.Context) (domain.User, error) {
	raw, err := a.client.do(ctx, http.MethodGet, "/auth/", "", nil)
	if err != nil {
		return domain.User{}, a.fail("get user details", classify(err, flagRules, false))
	}
	return DecodeUserDetails(raw)
}

// editUserRequest always carries all six fields; absent optional values are
// sent as null rather than omitted.
type editUserRequest struct {
	FullName         string  `json:"fullName"`
	CurrentEducation *string `json:"currentEducation"`
	Institution      *string `json:"institution"`
	PhoneNumber      *string `json:"phoneNumber"`
	Address          *string `json:"address"`
	BirthDate        *string `json:"birthDate"`
}

// EditUser updates the profile of the bound session's user.
func (a *UserAPI) EditUser(ctx context.Context, user domain.User) (domain.User, error) {
	body := editUserRequest{
		FullName:         user.FullName,
		CurrentEducation: nullIfEmpty(user.CurrentEducation),
		Institution:      nullIfEmpty(user.Institution),
		PhoneNumber:      nullIfEmpty(user.PhoneNumber),
		Address:          nullIfEmpty(user.Address),
		BirthDate:        nullIfEmpty(user.BirthDate),
	}
	raw, err := a.client.do(ctx, http.MethodPatch, "/auth/edit-user/", "", body)
	if err != nil {
		return domain.User{}, a.fail("edit user", classify(err, flagRules, false))
	}
	return DecodeUser(raw)
}

func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (a *UserAPI) fail(op string, err error) error {
	a.client.logger.Warn("user api call failed", "op", op, "error", err)
	return err
}
