package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is returned when a 401 could not be recovered by refreshing
// the access token. By the time it is returned the token store has been
// cleared and a logout has been published.
var ErrUnauthorized = errors.New("API 401: Unauthorized")

// HTTPError is any non-2xx response other than a recovered 401.
type HTTPError struct {
	Status int
	Body   string // response text, or the status text when the body was empty
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API %d: %s", e.Status, e.Body)
}

// InvalidResponseError is a 2xx response whose body is not valid JSON.
type InvalidResponseError struct {
	Status int
	Err    error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("API %d: Invalid JSON response", e.Status)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 if it has none.
func StatusCode(err error) int {
	var httpErr *HTTPError
	var invalid *InvalidResponseError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &invalid):
		return invalid.Status
	default:
		return 0
	}
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
