// Package errors defines the structured error type shared by the console
// packages and the HTTP layer.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError     ErrorType = "VALIDATION_ERROR"
	NotFoundError       ErrorType = "NOT_FOUND"
	TransportError      ErrorType = "TRANSPORT_ERROR"
	UpstreamError       ErrorType = "UPSTREAM_ERROR"
	ServerError         ErrorType = "SERVER_ERROR"
	InvalidStateError   ErrorType = "INVALID_STATE"
	PartialFailureError ErrorType = "PARTIAL_FAILURE"
	ConflictError       ErrorType = "CONFLICT"
	RateLimitError      ErrorType = "RATE_LIMIT_EXCEEDED"
)

// GenericFailureMessage is shown when the backend gave no usable message.
const GenericFailureMessage = "Une erreur est survenue, veuillez réessayer"

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status the console responds with for this error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s introuvable", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Transport reports a request that never produced a backend answer.
func Transport(err error) *AppError {
	return &AppError{
		Type:       TransportError,
		Message:    GenericFailureMessage,
		Detail:     err.Error(),
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

// Upstream reports an application-level failure returned by the backend.
// The backend message is kept verbatim; an empty one falls back to the
// generic message.
func Upstream(message string, status int) *AppError {
	if message == "" {
		message = GenericFailureMessage
	}
	return &AppError{
		Type:       UpstreamError,
		Code:       fmt.Sprintf("%d", status),
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func InvalidState(current, action string) *AppError {
	return &AppError{
		Type:       InvalidStateError,
		Message:    "Action indisponible pour le moment",
		Detail:     fmt.Sprintf("cannot %s while %s", action, current),
		HTTPStatus: http.StatusConflict,
	}
}

// PartialFailure reports a multi-step operation whose first step committed.
func PartialFailure(message string, err error) *AppError {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &AppError{
		Type:       PartialFailureError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusMultiStatus,
		Raw:        err,
	}
}

func NewConflictError(message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

// RateLimitExceeded tells the caller to retry after retryAfter seconds.
func RateLimitExceeded(message string, retryAfter int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     fmt.Sprintf("retry after %d seconds", retryAfter),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// UserMessage extracts the text shown in a toast for any error.
func UserMessage(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return GenericFailureMessage
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Type == errType
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case TransportError, UpstreamError:
		return http.StatusBadGateway
	case InvalidStateError, ConflictError:
		return http.StatusConflict
	case PartialFailureError:
		return http.StatusMultiStatus
	case RateLimitError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
