package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrTransport            = errors.New("store gateway unavailable")
	ErrSecretNotFound       = errors.New("secret not found")
)

// ValidationError reports malformed or invariant-violating input. It is
// raised before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}

	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type NotFoundError struct {
	ID SubscriptionID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSubscriptionNotFound, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrSubscriptionNotFound
}

// TransportError wraps a failed or non-successful store gateway call.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s: status %d: %v", ErrTransport, e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s: status %d", ErrTransport, e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrTransport, e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", ErrTransport, e.Op)
	}
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
