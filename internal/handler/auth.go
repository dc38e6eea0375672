package handler

import (
	"net/http"

	"github.com/arkavidia/competition-gateway/internal/domain"
	"github.com/arkavidia/competition-gateway/internal/middleware"
	"github.com/arkavidia/competition-gateway/internal/session"
)

// AuthHandler обрабатывает эндпоинты аутентификации и профиля
type AuthHandler struct {
	registry *session.Registry
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(registry *session.Registry) *AuthHandler {
	return &AuthHandler{
		registry: registry,
	}
}

// LoginRequest представляет тело запроса на логин
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse представляет тело ответа на логин
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expiresAt"` // Миллисекунды Unix
	User      domain.User `json:"user"`
}

// RegisterRequest представляет тело запроса на регистрацию
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RecoverRequest представляет тело запроса на восстановление пароля
type RecoverRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest представляет тело запроса на смену пароля по токену
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ConfirmRequest представляет тело запроса на подтверждение email
type ConfirmRequest struct {
	Token string `json:"token" validate:"required"`
}

// EditUserRequest представляет тело запроса на изменение профиля
type EditUserRequest struct {
	FullName         string  `json:"fullName" validate:"required"`
	CurrentEducation *string `json:"currentEducation"`
	Institution      *string `json:"institution"`
	PhoneNumber      *string `json:"phoneNumber"`
	Address          *string `json:"address"`
	BirthDate        *string `json:"birthDate"`
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeRequest(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	_, res, err := h.registry.Open(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token:     res.BearerToken,
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}

// Register обрабатывает POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeRequest(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	if err := h.registry.Public().Register(r.Context(), req.Email, req.FullName, req.Password); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// Recover обрабатывает POST /auth/password-reset
func (h *AuthHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req RecoverRequest
	if err := decodeRequest(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	if err := h.registry.Public().Recover(r.Context(), req.Email); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// ResetPassword обрабатывает POST /auth/confirm-password-reset
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := decodeRequest(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	if err := h.registry.Public().ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ConfirmRegistration обрабатывает POST /auth/confirm-registration
func (h *AuthHandler) ConfirmRegistration(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := decodeRequest(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	if err := h.registry.Public().ConfirmEmailAddress(r.Context(), req.Token); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Session обрабатывает GET /auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	user, err := ws.Auth.FetchSession(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, user)
}

// GetUser обрабатывает GET /auth/user
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	user, err := ws.Auth.FetchUserDetails(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, user)
}

// EditUser обрабатывает PATCH /auth/user
func (h *AuthHandler) EditUser(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	var req EditUserRequest
	if err := decodeRequest(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	current, _ := ws.Session.User()
	user, err := ws.Auth.EditUser(r.Context(), domain.User{
		Email:            current.Email,
		FullName:         req.FullName,
		CurrentEducation: req.CurrentEducation,
		Institution:      req.Institution,
		PhoneNumber:      req.PhoneNumber,
		Address:          req.Address,
		BirthDate:        req.BirthDate,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, user)
}

// Logout обрабатывает POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.registry.Close(middleware.GetTokenFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
