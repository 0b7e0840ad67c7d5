package models

import "net/http"

// Error codes
const (
	// General errors
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"

	// Authentication errors
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeInvalidToken       = "INVALID_TOKEN"

	// Dictionary errors
	ErrCodeDictionaryReload = "DICTIONARY_RELOAD_FAILED"
	ErrCodeDictionaryExport = "DICTIONARY_EXPORT_FAILED"
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	StatusCode int    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to the error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}

// Info converts the error to its wire form.
func (e *APIError) Info() *ErrorInfo {
	return &ErrorInfo{Code: e.Code, Message: e.Message, Details: e.Details}
}

// Common errors
func ErrServiceUnavailable(message string) *APIError {
	return NewAPIError(ErrCodeServiceUnavailable, message, http.StatusServiceUnavailable)
}

func ErrInternal(message string) *APIError {
	return NewAPIError(ErrCodeInternalError, message, http.StatusInternalServerError)
}

func ErrBadRequest(message string) *APIError {
	return NewAPIError(ErrCodeInvalidRequest, message, http.StatusBadRequest)
}
