package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

var (
	// ErrUnauthorized is wrapped by an APIError for 401 and 403 answers
	// outside the login call.
	ErrUnauthorized = errors.New("backend refused the session token")
	ErrNotFound     = errors.New("backend resource not found")
	// ErrServer is wrapped by an APIError for any other unexpected status.
	ErrServer = errors.New("backend request failed")
)

// APIError is a non-success answer from the backend.
type APIError struct {
	Path       string
	StatusCode int
	// Message is the "message" field of a JSON error body, when present.
	Message string
	Body    string

	kind error
}

func newAPIError(path string, status int, body []byte) *APIError {
	e := &APIError{
		Path:       path,
		StatusCode: status,
		Body:       string(body),
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Message = payload.Message
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.kind = ErrUnauthorized
	case http.StatusNotFound:
		e.kind = ErrNotFound
	default:
		e.kind = ErrServer
	}
	return e
}

// asLoginRejection marks 4xx login answers as refused credentials so the
// gate counts them against the sign-in limit.
func (e *APIError) asLoginRejection() *APIError {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		e.kind = goSession.ErrCredentialsRejected
	}
	return e
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: received %d from backend", e.Path, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.kind
}
