package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoToken indicates an authenticated call was attempted without a
// stored auth token (not logged in).
var ErrNoToken = errors.New("not logged in")

// APIError is a non-2xx response from the queue service, carrying the
// HTTP status and the server-reported message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// IsAuth reports whether the error means the session is no longer valid
func (e *APIError) IsAuth() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// AsAPIError unwraps err into an *APIError if possible
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
