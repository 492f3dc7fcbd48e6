package registry

import (
	"errors"
	"net/http"
)

// Domain errors for registry operations.
var (
	ErrNotFound  = errors.New("person not found")
	ErrNotLoaded = errors.New("registry snapshot not loaded")
)

// MapHTTPStatus maps registry domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrNotLoaded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
