package goodreads

import (
	"errors"
	"fmt"
)

// ErrInvalidKey indicates the API rejected the developer key
var ErrInvalidKey = errors.New("invalid or revoked Goodreads API key")

// ServerError represents a 5xx error from the Goodreads API
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Goodreads server error: HTTP %d", e.StatusCode)
}

// StatusError represents any other unexpected HTTP status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from Goodreads API: %s", e.StatusCode, e.Body)
}

// ParseError indicates a page payload did not match the structure the
// API is documented to return. It aborts the current listing's export
// but not the whole run.
type ParseError struct {
	Listing string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s payload: %s", e.Listing, e.Reason)
}
