package validations

import (
	"errors"
	"net/http"
)

// Domain errors for validation operations.
var (
	ErrNotFound        = errors.New("validation not found")
	ErrDuplicate       = errors.New("validation already exists")
	ErrInvalidRequest  = errors.New("invalid validation request")
	ErrArtifactMissing = errors.New("validation artifact not found")
)

// MapHTTPStatus maps validation domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrArtifactMissing) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
