package clients

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// StatusError is a non-2xx response from the backend API. Message carries
// the server-supplied error text when the body had one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("upstream status %d", e.Code)
}

func newStatusError(code int, body []byte) *StatusError {
	se := &StatusError{Code: code}

	// Backends disagree on the error field name; accept both.
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			se.Message = payload.Message
		} else if payload.Error != "" {
			se.Message = payload.Error
		}
	}
	return se
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// ServerMessage extracts the server-supplied message from err, if any.
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
