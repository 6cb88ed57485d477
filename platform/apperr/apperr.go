// Package apperr provides standardized error types for the application.
// Upstream clients and the resolver return these typed errors; the HTTP layer
// maps them to status codes and the chat layer maps them to user replies.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindInvalidInput indicates a caller error such as an empty query or a missing coordinate.
	KindInvalidInput
	// KindUpstream indicates a non-200 response or a transport failure talking to an upstream API.
	KindUpstream
	// KindUpstreamRejected indicates the upstream answered with an explicit error node.
	KindUpstreamRejected
	// KindMalformedResponse indicates an upstream body that could not be decoded.
	KindMalformedResponse
	// KindEmptyResult indicates a well-formed upstream response without a usable item.
	KindEmptyResult
	// KindNotFound indicates that every resolution strategy was exhausted.
	KindNotFound
	// KindConfig indicates missing or invalid startup configuration.
	KindConfig
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindInvalidInput:      "invalid_input",
	KindUpstream:          "upstream_error",
	KindUpstreamRejected:  "upstream_rejected",
	KindMalformedResponse: "malformed_response",
	KindEmptyResult:       "empty_result",
	KindNotFound:          "not_found",
	KindConfig:            "config_error",
}

// String returns a stable label usable in logs and metrics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is a domain error with a typed Kind.
type Error struct {
	Kind    Kind
	Message string
	Op      string // Operation that failed (optional)
	Err     error  // Underlying error (optional)
	Details any    // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound, KindEmptyResult:
		return http.StatusNotFound
	case KindUpstream, KindUpstreamRejected, KindMalformedResponse:
		return http.StatusBadGateway
	case KindConfig:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the operation on the error and returns it.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails sets additional details on the error and returns it.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// Convenience constructors for common error types.

// InvalidInput creates a caller error.
func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

// Upstream creates an upstream failure error.
func Upstream(message string) *Error {
	return New(KindUpstream, message)
}

// Rejected creates an upstream-rejected error.
func Rejected(message string) *Error {
	return New(KindUpstreamRejected, message)
}

// Malformed creates an undecodable-response error.
func Malformed(message string, err error) *Error {
	return Wrap(KindMalformedResponse, message, err)
}

// EmptyResult creates an empty-result error.
func EmptyResult(message string) *Error {
	return New(KindEmptyResult, message)
}

// Config creates a configuration error.
func Config(message string) *Error {
	return New(KindConfig, message)
}

// GetKind extracts the error kind from the first *Error in err's chain.
// Returns KindUnknown if there is none.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
