// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrConflict           = errors.New("state conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeConflict        = "CONFLICT"
	CodeInvalidAuth     = "INVALID_CREDENTIALS"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError is an error that already knows how it should be rendered.
type AppError struct {
	Err        error    `json:"-"`
	Message    string   `json:"message"`
	StatusCode int      `json:"-"`
	Code       string   `json:"code"`
	Details    []string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func ValidationError(message string, details ...string) *AppError {
	e := NewAppError(ErrInvalidInput, message, http.StatusBadRequest, CodeValidation)
	e.Details = details
	return e
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrConflict, message, http.StatusBadRequest, CodeConflict)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusBadRequest,
		CodeConflict,
	)
}

func InvalidCredentialsError(message string) *AppError {
	return NewAppError(
		ErrInvalidCredentials,
		message,
		http.StatusUnauthorized,
		CodeInvalidAuth,
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "not authenticated"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		CodeUnauthenticated,
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "not authorized"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, CodeForbidden)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		CodeNotFound,
	)
}

// ToAppError maps a wrapped sentinel to its rendered form. Unknown errors
// become a 500 whose message does not leak the cause.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return ValidationError(err.Error())
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrConflict):
		return ConflictError(err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return InvalidCredentialsError("invalid credentials")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrNotFound), IsMalformedKey(err):
		return NewAppError(err, "resource not found", http.StatusNotFound, CodeNotFound)
	default:
		return NewAppError(
			err,
			"internal server error",
			http.StatusInternalServerError,
			CodeInternal,
		)
	}
}
