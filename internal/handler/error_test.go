package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "invalid input",
			err:         fmt.Errorf("%w: name is required", domain.ErrInvalidInput),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "BAD_REQUEST",
			wantMessage: "name is required",
		},
		{name: "unauthorized", err: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{
			name:        "invalid credentials",
			err:         domain.NewAPIError(domain.LoginInvalidCreds, "Wrong email or password."),
			wantStatus:  http.StatusUnauthorized,
			wantCode:    "INVALID_CREDS",
			wantMessage: "Wrong email or password.",
		},
		{
			name:       "email not confirmed",
			err:        domain.NewAPIError(domain.LoginEmailNotConfirmed, "confirm"),
			wantStatus: http.StatusForbidden,
			wantCode:   "EMAIL_NOT_CONFIRMED",
		},
		{name: "login error", err: domain.NewAPIError(domain.LoginError, "x"), wantStatus: http.StatusBadGateway, wantCode: "ERROR"},
		{
			name:        "email exists",
			err:         domain.NewAPIError(domain.RegistrationEmailExists, "Email is already in use."),
			wantStatus:  http.StatusConflict,
			wantCode:    "EMAIL_EXISTS",
			wantMessage: "Email is already in use.",
		},
		{name: "registration error", err: domain.NewAPIError(domain.RegistrationError, "x"), wantStatus: http.StatusBadGateway, wantCode: "ERROR"},
		{name: "invalid token", err: domain.NewAPIError(domain.EmailOperationInvalidToken, "x"), wantStatus: http.StatusBadRequest, wantCode: "INVALID_TOKEN"},
		{name: "email operation error", err: domain.NewAPIError(domain.EmailOperationError, "x"), wantStatus: http.StatusBadGateway, wantCode: "ERROR"},
		{
			name:        "flagged",
			err:         domain.NewAPIError(false, "request failed with status code 404: team_not_found"),
			wantStatus:  http.StatusBadGateway,
			wantCode:    "UPSTREAM_ERROR",
			wantMessage: "request failed with status code 404: team_not_found",
		},
		{
			name:       "decode",
			err:        &domain.DecodeError{Target: "team", Err: errors.New("missing id")},
			wantStatus: http.StatusBadGateway,
			wantCode:   "BAD_UPSTREAM_RESPONSE",
		},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Error.Message)
			}
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"email":"a@b.com","password":"pw"}`},
		{name: "malformed", body: `{`, wantErr: true},
		{name: "missing password", body: `{"email":"a@b.com"}`, wantErr: true},
		{name: "bad email", body: `{"email":"nope","password":"pw"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			var login LoginRequest

			err := decodeRequest(req, &login)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}
