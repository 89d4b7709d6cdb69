package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any *Error carrying a 401 status.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response from the storefront backend.
type Error struct {
	Status  int
	Message string // server supplied "message", empty when absent
	Body    []byte
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// IsUnauthorized returns true if err is, or wraps, a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the server supplied message carried by err, falling
// back to fallback when there is none.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func newError(status int, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
	}
	// Not every error body is JSON (proxies, HTML error pages).
	_ = json.Unmarshal(body, &payload)

	return &Error{
		Status:  status,
		Message: payload.Message,
		Body:    body,
	}
}
