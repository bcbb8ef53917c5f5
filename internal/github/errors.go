package github

import (
	"errors"
	"fmt"
	"net/http"
)

// InvalidURLError indicates that a browsing URL does not match the
// expected github.com/owner/repo[/tree/ref[/path]] shape.
type InvalidURLError struct {
	// URL is the offending input.
	URL string
	// Reason describes what was wrong with it.
	Reason string
}

// Error returns the error message.
func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid GitHub URL %q: %s", e.URL, e.Reason)
}

// NewInvalidURLError creates an InvalidURLError.
func NewInvalidURLError(url, reason string) *InvalidURLError {
	return &InvalidURLError{URL: url, Reason: reason}
}

// APIError indicates a non-2xx response from the GitHub API.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Message is the message body returned by the API, if any.
	Message string
	// URL is the request URL that failed.
	URL string
}

// Error returns the error message.
func (e *APIError) Error() string {
	if e.StatusCode == http.StatusForbidden {
		return fmt.Sprintf("GET %s: HTTP 403 Forbidden. Are you hitting the GitHub API rate limit? Try setting the GITHUB_TOKEN environment variable", e.URL)
	}
	if e.Message != "" {
		return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
