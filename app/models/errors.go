package models

import "errors"

// ErrorKind classifies an operation failure for callers and the HTTP layer.
type ErrorKind string

const (
	ErrValidation ErrorKind = "validation"
	ErrNotFound   ErrorKind = "not_found"
	ErrForbidden  ErrorKind = "forbidden"
	ErrConflict   ErrorKind = "conflict"
)

// AppError is a structured operation failure. Message is safe to show to the
// user directly; no internal identifiers or driver errors belong in it.
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *AppError {
	return &AppError{Kind: ErrValidation, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: msg}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Kind: ErrForbidden, Message: msg}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Kind: ErrConflict, Message: msg}
}

// KindOf returns the error's kind, or an empty kind for plain errors.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
