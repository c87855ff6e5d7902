// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Data errors
	ErrNoData        = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrInvalidResult = &Error{Code: "INVALID_RESULT", Message: "backtest result is malformed"}
	ErrNotFound      = &Error{Code: "NOT_FOUND", Message: "resource not found"}
	ErrSuperseded    = &Error{Code: "SUPERSEDED", Message: "result superseded by a newer submission"}

	// Engine errors
	ErrEngineFailed  = &Error{Code: "ENGINE_FAILED", Message: "backtest engine request failed"}
	ErrEngineTimeout = &Error{Code: "ENGINE_TIMEOUT", Message: "backtest engine timeout"}

	// Source errors
	ErrSourceFailed = &Error{Code: "SOURCE_FAILED", Message: "reading result source failed"}

	// Request errors
	ErrParamsInvalid = &Error{Code: "PARAMS_INVALID", Message: "backtest parameters invalid"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
