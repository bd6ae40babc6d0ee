package client

import (
	"errors"
	"fmt"
)

// ErrNotSignedIn is returned by calls that need a session before any request
// is sent.
var ErrNotSignedIn = errors.New("client: not signed in")

// APIError is a failure reported by the server in its {"error": ...} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// UserMessage is the text shown in the storefront banner.
func (e *APIError) UserMessage() string { return e.Message }

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}
