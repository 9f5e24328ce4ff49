package services

import (
	"errors"
	"fmt"

	"esport-events-backend/internal/repositories"
)

type ErrorKind string

const (
	ErrNotFound     ErrorKind = "NOT_FOUND"
	ErrUnauthorized ErrorKind = "UNAUTHORIZED"
	ErrForbidden    ErrorKind = "FORBIDDEN"
	ErrConflict     ErrorKind = "CONFLICT"
	ErrValidation   ErrorKind = "VALIDATION"
	ErrInternal     ErrorKind = "INTERNAL"
)

// AppError is the typed error every service returns. Handlers map Kind to an
// HTTP status and show Message to the client; Details stays server-side.
type AppError struct {
	Message string    `json:"message"`
	Kind    ErrorKind `json:"code"`
	Details error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s [%s]: %v", e.Message, e.Kind, e.Details)
	}
	return fmt.Sprintf("%s [%s]", e.Message, e.Kind)
}

func (e *AppError) Unwrap() error {
	return e.Details
}

func NewAppError(message string, kind ErrorKind, details error) *AppError {
	return &AppError{
		Message: message,
		Kind:    kind,
		Details: details,
	}
}

func notFound(message string) *AppError {
	return NewAppError(message, ErrNotFound, nil)
}

func forbidden(message string) *AppError {
	return NewAppError(message, ErrForbidden, nil)
}

func invalid(message string) *AppError {
	return NewAppError(message, ErrValidation, nil)
}

func conflict(message string, details error) *AppError {
	return NewAppError(message, ErrConflict, details)
}

func internal(message string, details error) *AppError {
	return NewAppError(message, ErrInternal, details)
}

// fromRepo converts a repository error into an AppError, using subject in the
// client-facing message ("event", "participation", ...).
func fromRepo(err error, subject string) *AppError {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return NewAppError(subject+" not found", ErrNotFound, err)
	case errors.Is(err, repositories.ErrDuplicate):
		return NewAppError(subject+" already exists", ErrConflict, err)
	default:
		return internal("failed to access "+subject, err)
	}
}

// KindOf returns the kind of an AppError anywhere in the chain, or
// ErrInternal for any other error.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}
