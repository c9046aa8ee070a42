package llm

import (
	"errors"
	"fmt"
)

// Every correction failure matches exactly one of these with errors.Is,
// except non-200 responses which are *StatusError.
var (
	ErrMissingCredential = errors.New("no API key found, please set your API key")
	ErrInvalidRequest    = errors.New("invalid API request")
	ErrTransport         = errors.New("network error")
	ErrEmptyBody         = errors.New("no data received from API")
	ErrDecode            = errors.New("could not decode API response")
	ErrMissingField      = errors.New("invalid response structure from API")
)

// StatusError is returned when the API answers with a non-200 status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP error: %d", e.Code)
	}
	return fmt.Sprintf("HTTP error: %d: %s", e.Code, e.Body)
}

// StatusCode extracts the HTTP status from err, or 0 if err is not a StatusError
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}

// truncate keeps response bodies in error messages short
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
