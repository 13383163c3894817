package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrNotPending         = errors.New("transaction is not pending")
	ErrConcurrentUpdate   = errors.New("concurrent update detected")
)

// Error codes returned to API clients
const (
	CodeBadRequest         = "ERR_BAD_REQUEST"
	CodeNotFound           = "ERR_NOT_FOUND"
	CodeConflict           = "ERR_CONFLICT"
	CodeInsufficientFunds  = "ERR_INSUFFICIENT_FUNDS"
	CodeUnauthorized       = "ERR_UNAUTHORIZED"
	CodeInvalidSignature   = "ERR_INVALID_SIGNATURE"
	CodeForbidden          = "ERR_FORBIDDEN"
	CodeGatewayUnavailable = "ERR_GATEWAY_UNAVAILABLE"
	CodeInternal           = "ERR_INTERNAL"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped sentinel so errors.Is keeps working through AppError.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message, ErrInvalidInput)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrConflict)
}

func InsufficientFunds(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeInsufficientFunds, message, ErrInsufficientFunds)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func InvalidSignature(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidSignature, message, ErrInvalidSignature)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func ServiceUnavailable(message string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, CodeGatewayUnavailable, message, ErrGatewayUnavailable)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, message, nil)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}

// FromError converts any error into an AppError, mapping known sentinels
// to their HTTP status. Errors that already are AppErrors pass through.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, err.Error(), err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidAmount):
		return NewAppError(http.StatusBadRequest, CodeBadRequest, err.Error(), err)
	case errors.Is(err, ErrInsufficientFunds):
		return NewAppError(http.StatusConflict, CodeInsufficientFunds, err.Error(), err)
	case errors.Is(err, ErrConflict), errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrNotPending), errors.Is(err, ErrConcurrentUpdate):
		return NewAppError(http.StatusConflict, CodeConflict, err.Error(), err)
	case errors.Is(err, ErrInvalidSignature):
		return NewAppError(http.StatusUnauthorized, CodeInvalidSignature, err.Error(), err)
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, err.Error(), err)
	case errors.Is(err, ErrForbidden):
		return NewAppError(http.StatusForbidden, CodeForbidden, err.Error(), err)
	case errors.Is(err, ErrGatewayUnavailable):
		return NewAppError(http.StatusServiceUnavailable, CodeGatewayUnavailable, err.Error(), err)
	default:
		return InternalError(err)
	}
}
