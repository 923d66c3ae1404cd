package podman

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the connection setup phase.
var (
	ErrInvalidURI   = errors.New("invalid connection URI")
	ErrTLSHandshake = errors.New("TLS handshake failed")
	ErrSSHAuth      = errors.New("SSH authentication failed")
	ErrSSHConnect   = errors.New("SSH connection failed")
)

// Sentinel errors for server-acknowledged failures. APIError unwraps to these
// based on the HTTP status, so callers can branch with errors.Is.
var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource conflict")
)

// Static errors for client construction and use.
var (
	ErrConfigRequired   = errors.New("config is required")
	ErrBaseURIRequired  = errors.New("base URI is required")
	ErrClientClosed     = errors.New("client is closed")
	ErrStreamClosed     = errors.New("stream is closed")
	ErrUnsupportedKind  = errors.New("unsupported resource kind")
	ErrIdentityRequired = errors.New("resource name or ID is required")
)

// APIError is an error status returned by the Podman service. It carries the
// libpod error response body verbatim.
type APIError struct {
	Status  int    `json:"response"`
	Message string `json:"message"`
	Cause   string `json:"cause"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Cause != "" && e.Cause != e.Message {
		return fmt.Sprintf("%s: %s (status %d)", e.Message, e.Cause, e.Status)
	}

	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Unwrap maps well-known statuses onto their sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}

// TransportError is a network-level failure: the request never produced a
// server response. It is deliberately distinct from APIError so callers can
// tell "server said no" from "could not reach server".
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a 409 from the service, used for
// already-exists and resource-in-use conditions.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsTransport reports whether err is a network-level failure rather than a
// server-acknowledged one.
func IsTransport(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

// ParseAPIError parses a libpod error body ({"cause","message","response"})
// into an APIError. The HTTP status wins over the body's response field when
// they disagree; an unparseable body still yields a usable error.
func ParseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
		apiErr.Cause = string(body)
	}

	apiErr.Status = status

	return apiErr
}
