package analysis

import (
	"errors"
	"net/http"

	"github.com/nlc-digital/landcom/internal/cases"
)

// Analysis errors. A failed analysis never detaches the document; it stays
// attached and unverified, and the caller may retry.
var (
	ErrAnalysisFailed = errors.New("document analysis failed")
)

// MapHTTPStatus maps analysis errors to HTTP status codes, deferring to the
// case domain mapping for errors it does not own.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrAnalysisFailed) {
		return http.StatusBadGateway
	}
	return cases.MapHTTPStatus(err)
}
