package gateway

import (
	"errors"
	"slices"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

// rule maps a set of service error codes to a status.
type rule[S comparable] struct {
	codes  []string
	status S
}

// Classification tables. Order is precedence: the first rule whose codes
// contain the response code wins.
var (
	sessionRules []rule[domain.LoginStatus]

	loginRules = []rule[domain.LoginStatus]{
		{codes: []string{"login_failed", "unknown_error"}, status: domain.LoginInvalidCreds},
		{codes: []string{"account_email_not_confirmed"}, status: domain.LoginEmailNotConfirmed},
	}

	registrationRules = []rule[domain.RegistrationStatus]{
		{codes: []string{"registration_failed_email_used"}, status: domain.RegistrationEmailExists},
	}

	resetPasswordRules = []rule[domain.EmailOperationStatus]{
		{codes: []string{"invalid_token", "token_used"}, status: domain.EmailOperationInvalidToken},
	}

	confirmEmailRules = []rule[domain.EmailOperationStatus]{
		{codes: []string{"invalid_token"}, status: domain.EmailOperationInvalidToken},
	}

	flagRules []rule[bool]
)

// classify wraps err into the family's APIError. Only failures that carried a
// response are matched against rules; everything else gets the fallback.
func classify[S comparable](err error, rules []rule[S], fallback S) *domain.APIError[S] {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		for _, r := range rules {
			if slices.Contains(r.codes, respErr.Code) {
				return withCause(domain.NewAPIError(r.status, respErr.Detail), err)
			}
		}
	}
	return withCause(domain.NewAPIError(fallback, err.Error()), err)
}

func withCause[S comparable](e *domain.APIError[S], err error) *domain.APIError[S] {
	e.Err = err
	return e
}
