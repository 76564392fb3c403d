package entities

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. Every component fails with a specific Kind;
// only the HTTP boundary turns a Kind into a status code.
type Kind int

const (
	Unclassified Kind = iota
	ValidationError
	InvalidInput
	NoResultsFound
	InsufficientContext
	UpstreamRateLimited
	UpstreamTimeout
	UpstreamBadRequest
	UpstreamAuthError
	MalformedUpstreamOutput
	UpstreamEmptyResponse
	UpstreamUnavailable
	PersistenceConflict
	PersistenceUnavailable
)

var kindNames = map[Kind]string{
	Unclassified:            "Unclassified",
	ValidationError:         "ValidationError",
	InvalidInput:            "InvalidInput",
	NoResultsFound:          "NoResultsFound",
	InsufficientContext:     "InsufficientContext",
	UpstreamRateLimited:     "UpstreamRateLimited",
	UpstreamTimeout:         "UpstreamTimeout",
	UpstreamBadRequest:      "UpstreamBadRequest",
	UpstreamAuthError:       "UpstreamAuthError",
	MalformedUpstreamOutput: "MalformedUpstreamOutput",
	UpstreamEmptyResponse:   "UpstreamEmptyResponse",
	UpstreamUnavailable:     "UpstreamUnavailable",
	PersistenceConflict:     "PersistenceConflict",
	PersistenceUnavailable:  "PersistenceUnavailable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Status returns the HTTP status the boundary renders for this kind.
func (k Kind) Status() int {
	switch k {
	case ValidationError, InvalidInput:
		return http.StatusBadRequest
	case NoResultsFound, InsufficientContext:
		return http.StatusNotFound
	case UpstreamRateLimited:
		return http.StatusTooManyRequests
	case UpstreamTimeout:
		return http.StatusGatewayTimeout
	case UpstreamBadRequest, UpstreamAuthError, MalformedUpstreamOutput, UpstreamEmptyResponse, UpstreamUnavailable:
		return http.StatusBadGateway
	case PersistenceConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a transport may retry a call that failed with this kind.
func (k Kind) Retryable() bool {
	switch k {
	case UpstreamTimeout, UpstreamRateLimited, UpstreamUnavailable:
		return true
	default:
		return false
	}
}

// FieldError is a single request field violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the classified error used across the domain.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a classified error.
func NewError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// Validation builds a ValidationError carrying per-field violations.
func Validation(op string, fields ...FieldError) *Error {
	return &Error{Kind: ValidationError, Op: op, Message: "Validation Error", Fields: fields}
}

// KindOf returns the Kind of the first *Error in err's chain, or Unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unclassified
}

// AsError returns the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
