// ABOUTME: Custom error types for the import pipeline
// ABOUTME: Provides kind-tagged errors that map cleanly onto API error codes

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a category of importer failure.
type Kind string

const (
	KindInvalidURL          Kind = "INVALID_URL"
	KindBlockedHost         Kind = "BLOCKED_HOST"
	KindFetchTimeout        Kind = "FETCH_TIMEOUT"
	KindContentTooLarge     Kind = "CONTENT_TOO_LARGE"
	KindUpstreamFetchFailed Kind = "UPSTREAM_FETCH_FAILED"
	KindRateLimited         Kind = "RATE_LIMITED"
	KindParseFailed         Kind = "PARSE_FAILED"
)

// ImporterError represents a failure anywhere in the fetch/extract pipeline
type ImporterError struct {
	Kind    Kind
	Message string
}

// Error implements the error interface
func (e *ImporterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// InvalidURL creates an error for malformed or disallowed URLs
func InvalidURL(message string) *ImporterError {
	return &ImporterError{Kind: KindInvalidURL, Message: message}
}

// BlockedHost creates an error for hosts rejected by the SSRF guard
func BlockedHost(message string) *ImporterError {
	return &ImporterError{Kind: KindBlockedHost, Message: message}
}

// FetchTimeout creates an error for upstream fetch timeouts
func FetchTimeout(message string) *ImporterError {
	if message == "" {
		message = "Upstream fetch timed out"
	}
	return &ImporterError{Kind: KindFetchTimeout, Message: message}
}

// ContentTooLarge creates an error for responses exceeding the size cap
func ContentTooLarge(message string) *ImporterError {
	if message == "" {
		message = "Content too large"
	}
	return &ImporterError{Kind: KindContentTooLarge, Message: message}
}

// UpstreamFetchFailed creates an error for transport failures and upstream >=400 responses
func UpstreamFetchFailed(message string) *ImporterError {
	if message == "" {
		message = "Upstream fetch failed"
	}
	return &ImporterError{Kind: KindUpstreamFetchFailed, Message: message}
}

// RateLimited creates an error for requests rejected by the rate limiter
func RateLimited(message string) *ImporterError {
	if message == "" {
		message = "Rate limit exceeded"
	}
	return &ImporterError{Kind: KindRateLimited, Message: message}
}

// ParseFailed creates the catch-all error for unexpected extraction failures
func ParseFailed(message string) *ImporterError {
	if message == "" {
		message = "Parsing failed"
	}
	return &ImporterError{Kind: KindParseFailed, Message: message}
}

// KindOf returns the Kind of err, or KindParseFailed for untyped errors
func KindOf(err error) Kind {
	var impErr *ImporterError
	if errors.As(err, &impErr) {
		return impErr.Kind
	}
	return KindParseFailed
}

// IsKind checks whether err is an ImporterError of the given kind
func IsKind(err error, kind Kind) bool {
	var impErr *ImporterError
	return errors.As(err, &impErr) && impErr.Kind == kind
}

// HTTPStatus maps an error kind to its wire-level status code
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidURL, KindBlockedHost:
		return http.StatusBadRequest
	case KindFetchTimeout:
		return http.StatusRequestTimeout
	case KindContentTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
