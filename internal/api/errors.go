package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the server. Message is the server's
// own message field, surfaced verbatim so domain rejections ("game full",
// "already joined") read exactly as the server wrote them.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// errorBody matches the error payload shapes the server emits
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func decodeError(status int, data []byte) *APIError {
	var body errorBody
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			body.Message = strings.TrimSpace(string(data))
		}
	}

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &APIError{Status: status, Message: msg}
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an
// *APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsPermissionDenied reports whether err is a 403 response
func IsPermissionDenied(err error) bool {
	return StatusOf(err) == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// MessageOf returns the server's verbatim message for an *APIError and the
// plain error string otherwise. Action boundaries use it to build the inline
// message shown to the user.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
