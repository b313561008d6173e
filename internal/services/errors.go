package services

import (
	"errors"
	"fmt"

	"github.com/staybook/hotel-reservation-backend/internal/database"
)

// ErrorKind classifies domain errors for translation at the HTTP boundary
type ErrorKind string

const (
	KindValidation     ErrorKind = "VALIDATION_ERROR"
	KindAuthentication ErrorKind = "AUTHENTICATION_ERROR"
	KindAuthorization  ErrorKind = "AUTHORIZATION_ERROR"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindConflict       ErrorKind = "CONFLICT"
)

// DomainError is a rule violation raised where it is detected
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is lets errors.Is match on kind: errors.Is(err, &DomainError{Kind: KindConflict})
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind ErrorKind, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed input, bad date ordering or exceeded capacity
func ValidationError(format string, args ...interface{}) error {
	return newError(KindValidation, format, args...)
}

// AuthenticationError reports bad credentials or tokens
func AuthenticationError(format string, args ...interface{}) error {
	return newError(KindAuthentication, format, args...)
}

// AuthorizationError reports a role or ownership mismatch
func AuthorizationError(format string, args ...interface{}) error {
	return newError(KindAuthorization, format, args...)
}

// NotFoundError reports a missing room, reservation, hotel or user
func NotFoundError(format string, args ...interface{}) error {
	return newError(KindNotFound, format, args...)
}

// ConflictError reports overlapping bookings, illegal transitions and duplicates
func ConflictError(format string, args ...interface{}) error {
	return newError(KindConflict, format, args...)
}

// KindOf returns the kind of a domain error in err's chain, or "" for
// anything else
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// translateStoreError turns storage race losses into ConflictError and
// leaves other errors untouched
func translateStoreError(err error, conflictMessage string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrOverlap),
		errors.Is(err, database.ErrSerialization),
		errors.Is(err, database.ErrDuplicate):
		return ConflictError("%s", conflictMessage)
	}
	return err
}
