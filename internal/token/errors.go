package token

import (
	"errors"
	"fmt"
)

// ErrorCode represents token error categories.
type ErrorCode string

const (
	ErrCodeMalformed            ErrorCode = "invalid_token"
	ErrCodeUnsupportedAlgorithm ErrorCode = "unsupported_algorithm"
	ErrCodeInvalidSignature     ErrorCode = "invalid_signature"
	ErrCodeExpired              ErrorCode = "token_expired"
	ErrCodeNotYetValid          ErrorCode = "token_not_yet_valid"
	ErrCodeUnsupportedExpiresIn ErrorCode = "unsupported_expires_in"
)

var errorMessages = map[ErrorCode]string{
	ErrCodeMalformed:            "invalid token",
	ErrCodeUnsupportedAlgorithm: "unsupported JWT algorithm",
	ErrCodeInvalidSignature:     "invalid token signature",
	ErrCodeExpired:              "token expired",
	ErrCodeNotYetValid:          "token not yet valid",
	ErrCodeUnsupportedExpiresIn: "unsupported expiresIn format",
}

// Sentinels for errors.Is. Errors returned by this package carry extra context
// but match the sentinel with the same code.
var (
	ErrMalformed            = &Error{Code: ErrCodeMalformed, Message: errorMessages[ErrCodeMalformed]}
	ErrUnsupportedAlgorithm = &Error{Code: ErrCodeUnsupportedAlgorithm, Message: errorMessages[ErrCodeUnsupportedAlgorithm]}
	ErrInvalidSignature     = &Error{Code: ErrCodeInvalidSignature, Message: errorMessages[ErrCodeInvalidSignature]}
	ErrExpired              = &Error{Code: ErrCodeExpired, Message: errorMessages[ErrCodeExpired]}
	ErrNotYetValid          = &Error{Code: ErrCodeNotYetValid, Message: errorMessages[ErrCodeNotYetValid]}
	ErrUnsupportedExpiresIn = &Error{Code: ErrCodeUnsupportedExpiresIn, Message: errorMessages[ErrCodeUnsupportedExpiresIn]}
)

// Error wraps token errors with a stable code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := e.Message
	if base == "" {
		base = string(e.Code)
	}
	if e.Err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// IsTemporal reports whether err is an expiry or not-before failure.
// Callers use it to tell a refreshable token from a forged one.
func IsTemporal(err error) bool {
	return errors.Is(err, ErrExpired) || errors.Is(err, ErrNotYetValid)
}

// CodeOf returns the ErrorCode carried by err, or "" when err did not come
// from this package.
func CodeOf(err error) ErrorCode {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func newError(code ErrorCode, err error) error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Err: err}
}
