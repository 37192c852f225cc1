// internal/common/errors/errors.go

// Package errors provides the standardized error taxonomy for the
// context-aggregation and streaming pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeCacheMiss is expected control flow: the resolver falls through
	// to the live API. Never logged as an error.
	ErrCodeCacheMiss ErrorCode = "CACHE_MISS"

	// Dataset acquisition failures. Both degrade the dataset to empty and
	// let the request continue.
	ErrCodeFetchTimeout ErrorCode = "FETCH_TIMEOUT"
	ErrCodeFetchFailure ErrorCode = "FETCH_FAILURE"

	// ErrCodeMalformedIdentity means the session cookie was unparsable; the
	// request continues under the anonymous identity.
	ErrCodeMalformedIdentity ErrorCode = "MALFORMED_IDENTITY"

	// User-visible failures.
	ErrCodeGenerationFailure ErrorCode = "GENERATION_FAILURE"
	ErrCodeRequestMalformed  ErrorCode = "REQUEST_MALFORMED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Dataset   string    `json:"dataset,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Dataset != "" {
		return fmt.Sprintf("StandardError[%s] %s: %s", e.Code, e.Dataset, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the original cause for errors.Is / errors.As chains.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// Error Constructors
// ==========================

// NewFetchTimeoutError reports a dataset source that missed its deadline.
func NewFetchTimeoutError(dataset string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFetchTimeout,
		Message:   "data source did not respond within budget",
		Details:   detail(cause),
		Dataset:   dataset,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewFetchFailureError reports a network or decode failure for a dataset.
func NewFetchFailureError(dataset string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFetchFailure,
		Message:   "data source request failed",
		Details:   detail(cause),
		Dataset:   dataset,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewMalformedIdentityError reports an unparsable session cookie.
func NewMalformedIdentityError(cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedIdentity,
		Message:   "session identity unparsable, using anonymous default",
		Details:   detail(cause),
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewGenerationFailureError reports a failed model invocation, before or
// after the first fragment.
func NewGenerationFailureError(cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailure,
		Message:   "model generation failed",
		Details:   detail(cause),
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewRequestMalformedError reports an unparsable inbound request body.
func NewRequestMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestMalformed,
		Message:   "invalid request body",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func detail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// Classification
// ==========================

// CodeOf extracts the error code, or empty for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return ""
}

// IsTimeout checks whether the error is a budget overrun.
func IsTimeout(err error) bool {
	return CodeOf(err) == ErrCodeFetchTimeout
}

// IsUserVisible reports whether the failure may surface to the client.
// Everything else is absorbed at the aggregator boundary.
func IsUserVisible(code ErrorCode) bool {
	switch code {
	case ErrCodeGenerationFailure, ErrCodeRequestMalformed:
		return true
	default:
		return false
	}
}
