package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

var validate = validator.New()

func decodeOne[T any](target string, raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &domain.DecodeError{Target: target, Err: err}
	}
	if err := validate.Struct(&v); err != nil {
		return v, &domain.DecodeError{Target: target, Err: err}
	}
	return v, nil
}

func decodeList[T any](target string, raw []byte) ([]T, error) {
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &domain.DecodeError{Target: target, Err: err}
	}
	for i := range list {
		if err := validate.Struct(&list[i]); err != nil {
			return nil, &domain.DecodeError{Target: fmt.Sprintf("%s[%d]", target, i), Err: err}
		}
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

// DecodeUser decodes a user payload.
func DecodeUser(raw []byte) (domain.User, error) {
	return decodeOne[domain.User]("user", raw)
}

// DecodeUserDetails decodes the user details payload, which the service
// returns as a list holding the user; a bare object is accepted as well.
func DecodeUserDetails(raw []byte) (domain.User, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return DecodeUser(trimmed)
	}
	users, err := decodeList[domain.User]("user", trimmed)
	if err != nil {
		return domain.User{}, err
	}
	if len(users) == 0 {
		return domain.User{}, &domain.DecodeError{Target: "user", Err: errors.New("empty user list")}
	}
	return users[0], nil
}

// loginPayload is the service's login response.
type loginPayload struct {
	Token string       `json:"token" validate:"required"`
	Exp   int64        `json:"exp" validate:"required"` // absolute Unix time in seconds, the token's exp claim
	User  *domain.User `json:"user" validate:"required"`
}

// DecodeAuthentication decodes a login response, converting the expiry in
// seconds to an absolute millisecond timestamp.
func DecodeAuthentication(raw []byte) (domain.AuthenticationResult, error) {
	p, err := decodeOne[loginPayload]("login", raw)
	if err != nil {
		return domain.AuthenticationResult{}, err
	}
	return domain.AuthenticationResult{
		BearerToken: p.Token,
		ExpiresAt:   p.Exp * 1000, // seconds -> epoch milliseconds, not a lifetime
		User:        *p.User,
	}, nil
}

// DecodeCompetitions decodes a competition list.
func DecodeCompetitions(raw []byte) ([]domain.Competition, error) {
	return decodeList[domain.Competition]("competition", raw)
}

// DecodeTeam decodes a single team.
func DecodeTeam(raw []byte) (domain.Team, error) {
	return decodeOne[domain.Team]("team", raw)
}

// DecodeTeams decodes a team list.
func DecodeTeams(raw []byte) ([]domain.Team, error) {
	return decodeList[domain.Team]("team", raw)
}

// DecodeMember decodes a single team member, keeping only member fields.
func DecodeMember(raw []byte) (domain.Member, error) {
	return decodeOne[domain.Member]("member", raw)
}

// DecodeTaskResponse decodes a submitted task response.
func DecodeTaskResponse(raw []byte) (domain.TaskResponse, error) {
	return decodeOne[domain.TaskResponse]("task response", raw)
}
