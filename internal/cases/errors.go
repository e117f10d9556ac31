package cases

import (
	"errors"
	"net/http"
)

// Domain errors for case operations.
var (
	ErrNotFound         = errors.New("case not found")
	ErrDuplicate        = errors.New("case already exists")
	ErrConflict         = errors.New("case was modified concurrently")
	ErrParcelNotFound   = errors.New("parcel not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidCase      = errors.New("invalid case data")
	ErrInvalidStatus    = errors.New("unknown case status")
	ErrInvalidRole      = errors.New("unknown role")
	ErrInvalidCategory  = errors.New("unknown document category")
	ErrGazetteTooEarly  = errors.New("gazette number cannot be recorded before approval")
)

// MapHTTPStatus maps case domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrParcelNotFound),
		errors.Is(err, ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCase),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrInvalidCategory):
		return http.StatusBadRequest
	case errors.Is(err, ErrGazetteTooEarly):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
