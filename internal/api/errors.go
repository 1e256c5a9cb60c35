package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable means no response reached the client (backend down,
	// connection refused, timeout). Callers should surface a generic
	// connectivity message.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized means the server answered 401. Callers should prompt
	// the user to log in rather than report a generic failure.
	ErrUnauthorized = errors.New("unauthorized")
)

// ServerError is a non-2xx response whose body carried a message. The message
// is intended for the user verbatim. Match with errors.As; a 401 also matches
// errors.Is(err, ErrUnauthorized).
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
}

func (e *ServerError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}
