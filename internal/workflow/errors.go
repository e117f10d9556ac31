package workflow

import (
	"errors"
	"net/http"

	"github.com/nlc-digital/landcom/internal/cases"
)

// Workflow errors. Authorization and precondition failures are distinct so
// callers can present the correct message.
var (
	ErrNotAllowed    = errors.New("role is not permitted to perform this action")
	ErrWrongStage    = errors.New("action is not available from the current status")
	ErrUnknownAction = errors.New("unknown workflow action")
	ErrUnknownClaim  = errors.New("unknown claim action")
)

// MapHTTPStatus maps workflow errors to HTTP status codes, deferring to the
// case domain mapping for errors it does not own.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, ErrWrongStage):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownAction), errors.Is(err, ErrUnknownClaim):
		return http.StatusBadRequest
	default:
		return cases.MapHTTPStatus(err)
	}
}
