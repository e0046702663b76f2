// Package errors provides custom error types for the application.
// It defines domain-specific errors with error codes for better error handling and API responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes
type ErrorCode string

// Error codes for different error categories
const (
	// General errors (1xxx)
	ErrCodeInternal     ErrorCode = "E1000"
	ErrCodeValidation   ErrorCode = "E1001"
	ErrCodeNotFound     ErrorCode = "E1002"
	ErrCodeConflict     ErrorCode = "E1003"
	ErrCodeUnauthorized ErrorCode = "E1004"

	// Platform errors (2xxx)
	ErrCodePlatform           ErrorCode = "E2001"
	ErrCodePlatformAuth       ErrorCode = "E2002"
	ErrCodeWebhookSignature   ErrorCode = "E2003"
	ErrCodeWebhookHeader      ErrorCode = "E2004"
	ErrCodeUnsupportedEvent   ErrorCode = "E2005"
	ErrCodeAuthNotConfigured  ErrorCode = "E2006"
	ErrCodeInstallationToken  ErrorCode = "E2007"

	// Command errors (3xxx)
	ErrCodeCommandParse     ErrorCode = "E3001"
	ErrCodeCommandExecution ErrorCode = "E3002"

	// Database errors (4xxx)
	ErrCodeDBConnection ErrorCode = "E4001"
	ErrCodeDBQuery      ErrorCode = "E4002"
	ErrCodeDBMigration  ErrorCode = "E4003"

	// Lock errors (5xxx)
	ErrCodeLock ErrorCode = "E5001"

	// Configuration errors (6xxx)
	ErrCodeConfigInvalid ErrorCode = "E6001"
)

// AppError represents an application-level error with code and context
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for the error
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodePlatformAuth:
		return http.StatusUnauthorized
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeWebhookSignature, ErrCodeWebhookHeader, ErrCodeUnsupportedEvent:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Not-found constructors. Each one names the exact entity that was missed so
// the message can be surfaced verbatim in CLI output and command replies.

// ErrUnknownRepository creates a not found error for a repository
func ErrUnknownRepository(owner, name string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("Unknown repository %s/%s", owner, name))
}

// ErrUnknownPullRequest creates a not found error for a pull request
func ErrUnknownPullRequest(owner, name string, number int) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("Unknown pull request %s/%s #%d", owner, name, number))
}

// ErrUnknownMergeRule creates a not found error for a merge rule
func ErrUnknownMergeRule(owner, name, base, head string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("Unknown merge rule %s/%s with base %s and head %s", owner, name, base, head))
}

// ErrUnknownRepositoryRule creates a not found error for a repository rule
func ErrUnknownRepositoryRule(owner, name, ruleName string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("Unknown repository rule %s/%s named %s", owner, name, ruleName))
}

// ErrUnknownExternalAccount creates a not found error for an external account
func ErrUnknownExternalAccount(username string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("Unknown external account %s", username))
}

// ErrUnknownExternalAccountRight creates a not found error for an external account right
func ErrUnknownExternalAccountRight(owner, name, username string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("Unknown external account right %s on %s/%s", username, owner, name))
}

// ErrUnauthorized creates an unauthorized error
func ErrUnauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

// IsNotFound reports whether err is an AppError carrying ErrCodeNotFound.
func IsNotFound(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == ErrCodeNotFound
}

// IsLock reports whether err is an AppError carrying ErrCodeLock.
func IsLock(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == ErrCodeLock
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError attempts to convert an error to AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
