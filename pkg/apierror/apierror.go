package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindDuplicate      Kind = "duplicate"
	KindNotFound       Kind = "not_found"
	KindPersistence    Kind = "persistence"
	KindBadRequest     Kind = "bad_request"
	KindForbidden      Kind = "forbidden"
	KindInternal       Kind = "internal"
)

// Application codes carried in the response envelope.
const (
	CodeOK             = 2000
	CodeAuthentication = 1001
	CodeValidation     = 1002
	CodeBadRequest     = 1003
	CodeRateLimited    = 1004
	CodeDuplicate      = 2001
	CodeInternal       = 2002
	CodeForbidden      = 2003
	CodeNotFound       = 2004
)

type APIError struct {
	Kind       Kind   `json:"-"`
	Code       string `json:"code"`
	AppCode    int    `json:"-"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{
		Kind:       kindForStatus(status),
		Code:       code,
		AppCode:    appCodeForStatus(status),
		Message:    message,
		Details:    details,
		HTTPStatus: status,
	}
}

// Validation reports a malformed client field. Field carries the
// human-readable field name the validator was given.
func Validation(field string, message string) *APIError {
	return &APIError{
		Kind:       KindValidation,
		Code:       "VALIDATION_FAILED",
		AppCode:    CodeValidation,
		Message:    message,
		Field:      field,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// Unauthenticated is deliberately uniform: callers cannot tell a missing
// header from a bad signature or an expired token.
func Unauthenticated() *APIError {
	return &APIError{
		Kind:       KindAuthentication,
		Code:       "UNAUTHORIZED",
		AppCode:    CodeAuthentication,
		Message:    "Authentication failure",
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Duplicate(message string, details string) *APIError {
	return &APIError{
		Kind:       KindDuplicate,
		Code:       "DUPLICATE_RESOURCE",
		AppCode:    CodeDuplicate,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusConflict,
	}
}

func NotFound(resource string, id string) *APIError {
	return &APIError{
		Kind:       KindNotFound,
		Code:       "NOT_FOUND",
		AppCode:    CodeNotFound,
		Message:    resource + " not found or is blocked",
		Details:    id,
		HTTPStatus: http.StatusNotFound,
	}
}

func BadRequest(message string, details string) *APIError {
	return &APIError{
		Kind:       KindBadRequest,
		Code:       "BAD_REQUEST",
		AppCode:    CodeBadRequest,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Forbidden(message string) *APIError {
	return &APIError{
		Kind:       KindForbidden,
		Code:       "FORBIDDEN",
		AppCode:    CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// Persistence wraps a store error. The cause is kept for logs and never
// rendered to clients.
func Persistence(operation string, err error) *APIError {
	return &APIError{
		Kind:       KindPersistence,
		Code:       "PERSISTENCE_FAILURE",
		AppCode:    CodeInternal,
		Message:    "Failed to " + operation,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Is(err error, kind Kind) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == kind
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusConflict:
		return KindDuplicate
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return KindBadRequest
	default:
		return KindInternal
	}
}

func appCodeForStatus(status int) int {
	switch kindForStatus(status) {
	case KindValidation:
		return CodeValidation
	case KindAuthentication:
		return CodeAuthentication
	case KindDuplicate:
		return CodeDuplicate
	case KindNotFound:
		return CodeNotFound
	case KindForbidden:
		return CodeForbidden
	case KindBadRequest:
		return CodeBadRequest
	default:
		return CodeInternal
	}
}
