package courier

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common carrier scenarios.
var (
	// ErrMissingCredentials indicates required credential fields are absent.
	// It is detected before any network call.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidPhone indicates the recipient phone cannot be normalized to
	// the carrier's required digit count.
	ErrInvalidPhone = errors.New("invalid phone format")

	// ErrUnsupportedProvider indicates the requested carrier is not registered.
	ErrUnsupportedProvider = errors.New("unsupported courier provider")

	// ErrMalformedTrackingKey indicates a composite tracking key is missing
	// a required part.
	ErrMalformedTrackingKey = errors.New("malformed tracking key")
)

// RequestError represents a non-2xx response from a carrier API. Message
// carries the provider response body when one was available, otherwise an
// HTTP-status-derived text.
type RequestError struct {
	Carrier    string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s request failed: %s: %v", e.Carrier, msg, e.Cause)
	}
	return fmt.Sprintf("%s request failed: %s", e.Carrier, msg)
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// NewRequestError creates a RequestError for a carrier response.
func NewRequestError(carrier string, statusCode int, message string) *RequestError {
	return &RequestError{Carrier: carrier, StatusCode: statusCode, Message: message}
}

// WithCause attaches an underlying cause to the error.
func (e *RequestError) WithCause(err error) *RequestError {
	e.Cause = err
	return e
}

// maxCandidateDiagnostics bounds how many candidate area names an
// AreaResolutionError enumerates.
const maxCandidateDiagnostics = 10

// AreaResolutionError indicates a free-text delivery area could not be
// matched against the carrier's canonical area list after exhausting exact,
// substring and fuzzy strategies in both the city-scoped and global lists.
// Candidates holds area names from the city-scoped list to aid debugging;
// callers must never fall back to a guessed area (misdelivery risk).
type AreaResolutionError struct {
	Carrier    string
	Query      string
	City       string
	Candidates []string
}

// Error implements the error interface.
func (e *AreaResolutionError) Error() string {
	candidates := e.Candidates
	if len(candidates) > maxCandidateDiagnostics {
		candidates = candidates[:maxCandidateDiagnostics]
	}
	return fmt.Sprintf("%s: no delivery area matching %q in city %q; nearest candidates: %s",
		e.Carrier, e.Query, e.City, strings.Join(candidates, ", "))
}

// ThanaResolutionError indicates every thana name variant was rejected by the
// carrier. Variants lists each attempt in order; LastError is the provider's
// final error text.
type ThanaResolutionError struct {
	Carrier   string
	Variants  []string
	LastError string
}

// Error implements the error interface.
func (e *ThanaResolutionError) Error() string {
	return fmt.Sprintf("%s: thana not resolvable, tried %s; last provider error: %s",
		e.Carrier, strings.Join(e.Variants, ", "), e.LastError)
}
