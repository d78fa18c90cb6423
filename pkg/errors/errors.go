package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrConfigValid    ErrorCode = "CONFIG_INVALID"
	ErrConfigTooLarge ErrorCode = "CONFIG_TOO_LARGE"

	// Preset errors
	ErrInvalidProcessorName ErrorCode = "INVALID_PROCESSOR_NAME"
	ErrPathEscapesRoot      ErrorCode = "PATH_ESCAPES_ROOT"
	ErrUnsupportedPattern   ErrorCode = "UNSUPPORTED_PATTERN"

	// Pipeline errors
	ErrUnknownProcessor   ErrorCode = "UNKNOWN_PROCESSOR"
	ErrProcessorExecution ErrorCode = "PROCESSOR_EXECUTION"
	ErrActionInvalid      ErrorCode = "ACTION_INVALID"
	ErrActionExecute      ErrorCode = "ACTION_EXECUTE"

	// Security errors
	ErrSecurityViolation ErrorCode = "SECURITY_VIOLATION"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// OnefileError represents a structured error with code and details
type OnefileError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OnefileError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OnefileError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *OnefileError) Is(target error) bool {
	var targetErr *OnefileError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new OnefileError with the given code and message
func New(code ErrorCode, message string) *OnefileError {
	return &OnefileError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OnefileError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OnefileError {
	return &OnefileError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a OnefileError
func Wrap(err error, code ErrorCode, message string) *OnefileError {
	if err == nil {
		return nil
	}
	return &OnefileError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OnefileError {
	if err == nil {
		return nil
	}
	return &OnefileError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OnefileError) WithDetail(key string, value interface{}) *OnefileError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *OnefileError) WithDetails(details map[string]interface{}) *OnefileError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var ofErr *OnefileError
	if errors.As(err, &ofErr) {
		return ofErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a OnefileError
func GetErrorCode(err error) ErrorCode {
	var ofErr *OnefileError
	if errors.As(err, &ofErr) {
		return ofErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a OnefileError
func GetErrorDetails(err error) map[string]interface{} {
	var ofErr *OnefileError
	if errors.As(err, &ofErr) {
		return ofErr.Details
	}
	return nil
}
