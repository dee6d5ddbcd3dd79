package api

import (
	"errors"
	"net/http"
)

// Error is a non-2xx answer from the API. Message is the server supplied
// text when there is one, the HTTP status text otherwise.
type Error struct {
	Status  int
	Route   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
