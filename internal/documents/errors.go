package documents

import (
	"errors"
	"net/http"

	"github.com/nlc-digital/landcom/internal/cases"
)

// Document errors.
var (
	ErrInvalidFile  = errors.New("invalid document upload")
	ErrFileTooLarge = errors.New("document exceeds maximum upload size")
	ErrNoFiles      = errors.New("no files provided")
)

// MapHTTPStatus maps document errors to HTTP status codes, deferring to the
// case domain mapping for errors it does not own.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrNoFiles):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return cases.MapHTTPStatus(err)
	}
}
