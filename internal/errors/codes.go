// Package errors provides structured error handling for ScriptureLens.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Raw data source errors (sqlite, export I/O)
//   - 3XX: Rebuild errors
//   - 4XX: Validation errors (filters, references)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategorySource indicates raw data source and export I/O errors.
	CategorySource Category = "SOURCE"
	// CategoryRebuild indicates snapshot rebuild failures.
	CategoryRebuild Category = "REBUILD"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound   = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigPermission = "ERR_103_CONFIG_PERMISSION"

	// Source errors (200-299)
	ErrCodeSourceNotFound    = "ERR_201_SOURCE_NOT_FOUND"
	ErrCodeSourceUnreachable = "ERR_202_SOURCE_UNREACHABLE"
	ErrCodeSourceSchema      = "ERR_203_SOURCE_SCHEMA"
	ErrCodeExportFailed      = "ERR_204_EXPORT_FAILED"
	ErrCodeExportLocked      = "ERR_205_EXPORT_LOCKED"

	// Rebuild errors (300-399)
	ErrCodeRebuildFailed   = "ERR_301_REBUILD_FAILED"
	ErrCodeRebuildTimeout  = "ERR_302_REBUILD_TIMEOUT"
	ErrCodeRebuildCanceled = "ERR_303_REBUILD_CANCELED"

	// Validation errors (400-499)
	ErrCodeInvalidInput  = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidFilter = "ERR_402_INVALID_FILTER"
	ErrCodeNotFound      = "ERR_403_NOT_FOUND"
	ErrCodeInvalidRef    = "ERR_404_INVALID_REF"

	// Internal errors (500-599)
	ErrCodeInternal        = "ERR_501_INTERNAL"
	ErrCodeIndexFailed     = "ERR_502_INDEX_FAILED"
	ErrCodeWordStudyFailed = "ERR_503_WORD_STUDY_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	numStr := code[4:7]
	if len(numStr) < 1 {
		return CategoryInternal
	}

	switch numStr[0] {
	case '1':
		return CategoryConfig
	case '2':
		return CategorySource
	case '3':
		return CategoryRebuild
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code.
// Rebuild timeouts and cancellations leave the previous snapshot live,
// so they rank as warnings at the project level.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeRebuildTimeout, ErrCodeRebuildCanceled, ErrCodeExportLocked:
		return SeverityWarning
	case ErrCodeInternal, ErrCodeIndexFailed:
		return SeverityFatal
	default:
		return SeverityError
	}
}

// isRetryableCode reports whether operations failing with this code may be
// retried. Source reads and word-study calls can transiently fail.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeSourceUnreachable, ErrCodeRebuildTimeout, ErrCodeWordStudyFailed:
		return true
	default:
		return false
	}
}
