package navigation

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidURL  = errors.New("url parameter is required")
	ErrUnavailable = errors.New("no open workspace")
	ErrNotFound    = errors.New("not found")
	ErrScheduling  = errors.New("failed to schedule UI task")
)

// StatusCode maps a navigation error to an HTTP status
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
