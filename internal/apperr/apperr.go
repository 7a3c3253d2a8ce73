// Package apperr defines the error kinds returned by entity operations and
// the authentication gate. Each kind maps to exactly one HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operation failure
type Kind int

const (
	KindStoreFailure Kind = iota
	KindBadRequest
	KindDuplicateMember
	KindUnauthenticated
	KindInvalidToken
	KindPrincipalNotFound
	KindForbidden
	KindNotFound
	KindNotAMember
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindStoreFailure:      "store_failure",
	KindBadRequest:        "bad_request",
	KindDuplicateMember:   "duplicate_member",
	KindUnauthenticated:   "unauthenticated",
	KindInvalidToken:      "invalid_token",
	KindPrincipalNotFound: "principal_not_found",
	KindForbidden:         "forbidden",
	KindNotFound:          "not_found",
	KindNotAMember:        "not_a_member",
	KindRateLimited:       "rate_limited",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Status returns the HTTP status code for the kind
func (k Kind) Status() int {
	switch k {
	case KindBadRequest, KindDuplicateMember:
		return http.StatusBadRequest
	case KindUnauthenticated, KindInvalidToken, KindPrincipalNotFound:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound, KindNotAMember:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is the failure side of an operation result
type Error struct {
	Kind    Kind
	Message string
	Err     error // internal cause, never sent to the client
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind carrying an internal cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string) *Error { return New(KindBadRequest, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

// Store wraps an unexpected store, storage or verifier failure. The message
// is what the client sees; err is kept for logs only.
func Store(message string, err error) *Error {
	return Wrap(KindStoreFailure, message, err)
}

// From extracts an *Error from err. Errors of any other type are reported as
// store failures with a generic message.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Store("Internal server error", err)
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
