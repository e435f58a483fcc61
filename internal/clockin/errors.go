package clockin

import (
	"errors"
	"fmt"
)

// Kind classifies a clock-in outcome that is not a success. Every kind except
// KindStorageFailure is a terminal rejection the client must not retry in a
// loop; storage failures are transport faults and safe to retry with backoff.
type Kind string

const (
	KindWorkerInvalid       Kind = "worker_invalid"
	KindContended           Kind = "contended"
	KindOutOfHours          Kind = "out_of_hours"
	KindDuplicateSuppressed Kind = "duplicate_suppressed"
	KindStorageFailure      Kind = "storage_failure"
)

// Error is the typed outcome for rejected or failed clock-in attempts.
// Message is safe to show to the worker directly.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the transport-level cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether the caller may retry the attempt automatically.
func (e *Error) Retryable() bool {
	return e.Kind == KindStorageFailure
}

func rejected(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func storageFailure(cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    KindStorageFailure,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// KindOf extracts the Kind from err, or "" if err is not a clock-in Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
