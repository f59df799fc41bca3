package integrations

import (
	"errors"
	"net/http"
	"time"
)

const (
	httpTimeout = 10 * time.Second
	maxBodySize = 4 << 20
)

var (
	// ErrNotFound is returned when a skill document or repository doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when a request exceeds the client timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

// NewHTTPClient creates an HTTP client with a standard timeout for remote requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
