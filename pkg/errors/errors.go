package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	CodeMissingContext = "MISSING_CONTEXT"
	CodeUpstream       = "UPSTREAM_ERROR"
	CodeValidation     = "VALIDATION_ERROR"
	CodeUnavailable    = "UNAVAILABLE"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeTimeout        = "TIMEOUT"
	CodeInternal       = "INTERNAL_ERROR"
	CodeRateLimited    = "RATE_LIMITED"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// MissingContext reports that a step was entered without the state an
// earlier step produces. The message should say what to redo.
func MissingContext(message string) *AppError {
	return &AppError{
		Code:       CodeMissingContext,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Upstream keeps the booking API's own message.
func Upstream(message string, err error) *AppError {
	return &AppError{
		Code:       CodeUpstream,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func Unavailable(service string, err error) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
