package domain

import (
	"context"
	"errors"
)

var (
	// ErrConfiguration indicates an unknown source or missing adapter.
	ErrConfiguration = errors.New("configuration error")
	// ErrFetch indicates the snapshot was unavailable or unreadable.
	ErrFetch = errors.New("fetch error")
	// ErrAdaptation indicates the raw shape matched no rule for the source.
	ErrAdaptation = errors.New("adaptation error")
	// ErrStorage indicates a store failure while writing.
	ErrStorage = errors.New("storage error")
	// ErrNotFound is returned by read lookups that match nothing.
	ErrNotFound = errors.New("not found")
)

// ErrorKind classifies per-source failures for the cycle summary.
type ErrorKind string

const (
	ErrorUnknown       ErrorKind = "unknown"
	ErrorConfiguration ErrorKind = "configuration"
	ErrorFetch         ErrorKind = "fetch"
	ErrorAdaptation    ErrorKind = "adaptation"
	ErrorStorage       ErrorKind = "storage"
	// ErrorCanceled marks a source cut short by the cycle deadline or a
	// cancelled request.
	ErrorCanceled ErrorKind = "canceled"
)

// ClassifyError maps a returned error onto its kind.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCanceled
	case errors.Is(err, ErrConfiguration):
		return ErrorConfiguration
	case errors.Is(err, ErrFetch):
		return ErrorFetch
	case errors.Is(err, ErrAdaptation):
		return ErrorAdaptation
	case errors.Is(err, ErrStorage):
		return ErrorStorage
	default:
		return ErrorUnknown
	}
}
