package llm

import (
	"errors"
	"net/http"
)

var (
	ErrNotConfigured = errors.New("llm service is not configured")
	ErrUnavailable   = errors.New("llm service is unavailable")
	ErrEmptyResponse = errors.New("llm returned an empty response")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
