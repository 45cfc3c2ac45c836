package errors

import (
	"fmt"
)

// LensError is the structured error type for ScriptureLens.
// It provides rich context for error handling, logging, and user presentation.
type LensError struct {
	// Code is the unique error code (e.g., "ERR_201_SOURCE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Source, Rebuild, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *LensError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *LensError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with LensError.
func (e *LensError) Is(target error) bool {
	if t, ok := target.(*LensError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *LensError) WithDetail(key, value string) *LensError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *LensError) WithSuggestion(suggestion string) *LensError {
	e.Suggestion = suggestion
	return e
}

// New creates a new LensError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *LensError {
	return &LensError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a LensError from an existing error.
// The error's message becomes the LensError message.
func Wrap(code string, err error) *LensError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *LensError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// SourceError creates a raw-data-source error.
func SourceError(message string, cause error) *LensError {
	return New(ErrCodeSourceUnreachable, message, cause)
}

// SchemaError creates a source schema mismatch error.
func SchemaError(message string, cause error) *LensError {
	return New(ErrCodeSourceSchema, message, cause)
}

// RebuildError creates a rebuild failure error. The previous snapshot stays
// live when a rebuild fails, so these never surface to query callers.
func RebuildError(message string, cause error) *LensError {
	return New(ErrCodeRebuildFailed, message, cause)
}

// NotFoundError creates a structured not-found error for unknown projects
// or out-of-range book/chapter references.
func NotFoundError(message string) *LensError {
	return New(ErrCodeNotFound, message, nil)
}

// InvalidFilterError creates a validation error for a malformed drilldown
// filter, naming the offending field.
func InvalidFilterError(field, message string) *LensError {
	return New(ErrCodeInvalidFilter, message, nil).WithDetail("field", field)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *LensError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is a LensError with Retryable flag set.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if le, ok := err.(*LensError); ok {
		return le.Retryable
	}
	return false
}

// IsNotFound checks if an error is a structured not-found error.
func IsNotFound(err error) bool {
	return GetCode(err) == ErrCodeNotFound
}

// IsInvalidFilter checks if an error is a filter validation error.
func IsInvalidFilter(err error) bool {
	return GetCode(err) == ErrCodeInvalidFilter
}

// GetCode extracts the error code from a LensError.
// Returns empty string if not a LensError.
func GetCode(err error) string {
	if le, ok := err.(*LensError); ok {
		return le.Code
	}
	return ""
}

// GetCategory extracts the category from a LensError.
// Returns empty string if not a LensError.
func GetCategory(err error) Category {
	if le, ok := err.(*LensError); ok {
		return le.Category
	}
	return ""
}
