// Package apperror defines the closed set of failure kinds a prediction can
// end in and how each maps to an HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a prediction failure.
type Kind string

const (
	StoreUnavailable       Kind = "STORE_UNAVAILABLE"
	NoTrainedModel         Kind = "NO_TRAINED_MODEL"
	InvalidFeatureVector   Kind = "INVALID_FEATURE_VECTOR"
	DimensionMismatch      Kind = "DIMENSION_MISMATCH"
	InvalidModelParameters Kind = "INVALID_MODEL_PARAMETERS"
)

// Status returns the HTTP status code for the kind.
// Client input problems are 4xx, store and model problems are 5xx.
func (k Kind) Status() int {
	switch k {
	case InvalidFeatureVector:
		return http.StatusBadRequest
	case DimensionMismatch:
		return http.StatusUnprocessableEntity
	case StoreUnavailable, NoTrainedModel:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a Kind, a message safe to return to callers and the
// underlying cause, which is only meant for logs.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain.
// The second return value is false when err carries no Kind.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
