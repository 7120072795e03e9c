package hub

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks missing or invalid environment-derived settings.
	ErrConfig = errors.New("configuration error")

	// ErrValidation marks a caller-supplied argument that violates a contract.
	ErrValidation = errors.New("validation error")
)

// HTTPError is a non-2xx response from the hub's REST API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("home assistant returned status %d: %s", e.StatusCode, e.Body)
}

// AuthError is a rejected credential during the WebSocket handshake.
// ResponseType is the message type the hub answered with instead of "auth_ok".
type AuthError struct {
	ResponseType string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("websocket auth failed: %s", e.ResponseType)
}

// TransportError is a connection or IO failure on the WebSocket transport.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("websocket %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
