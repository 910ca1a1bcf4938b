package custom_error

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks a 401 from the backend. The session has already been
// torn down when a caller sees it.
var ErrUnauthorized = errors.New("session expired or not authorized")

type CustomError interface {
	Error() string
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

func WrapHTTPError(status int, message string) CustomError {
	return &APIError{
		Status:  status,
		Message: message,
	}
}

// MessageOf returns the backend message carried by err, or fallback when
// there is none.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
