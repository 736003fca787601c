package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package doesn't exist in the registry.
	ErrNotFound = errors.New("package not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-200 responses).
	ErrNetwork = errors.New("network error")

	// ErrInvalidResponse is returned when the registry answers with a body that cannot be decoded.
	ErrInvalidResponse = errors.New("invalid registry response")
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizePkgName trims surrounding whitespace and lowercases a package name.
func NormalizePkgName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// EscapePkgName encodes a package name for use as a registry URL path segment.
// Scoped names keep their "@" but the scope separator is escaped:
// "@types/node" becomes "@types%2Fnode".
func EscapePkgName(name string) string {
	return url.PathEscape(name)
}
