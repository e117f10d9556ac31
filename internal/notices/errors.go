package notices

import (
	"errors"
	"net/http"

	"github.com/nlc-digital/landcom/internal/cases"
)

// Notice generation errors.
var (
	ErrGenerationFailed = errors.New("notice generation failed")
	ErrLocationRequired = errors.New("location is required")
)

// MapHTTPStatus maps notice errors to HTTP status codes, deferring to the
// case domain mapping for errors it does not own.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrGenerationFailed) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrLocationRequired) {
		return http.StatusBadRequest
	}
	return cases.MapHTTPStatus(err)
}
