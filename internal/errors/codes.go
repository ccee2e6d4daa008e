// Package errors provides structured error handling for subseq.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (stdin, stdout, profile files)
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates input/output errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates invocation or input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates a broken scoring invariant; the run must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the run failed.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeInputRead    = "ERR_201_INPUT_READ"
	ErrCodeOutputWrite  = "ERR_202_OUTPUT_WRITE"
	ErrCodeProfileWrite = "ERR_203_PROFILE_WRITE"

	// Validation errors (400-499)
	ErrCodeInvalidInput     = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidThreads   = "ERR_402_INVALID_THREADS"
	ErrCodeInvalidWeights   = "ERR_403_INVALID_WEIGHTS"
	ErrCodeInvalidColorMode = "ERR_404_INVALID_COLOR_MODE"

	// Internal errors (500-599)
	ErrCodeInternal           = "ERR_501_INTERNAL"
	ErrCodeInvariantViolation = "ERR_502_INVARIANT_VIOLATION"
	ErrCodeWorkerFailed       = "ERR_503_WORKER_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "402" from "ERR_402_INVALID_THREADS"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeInvariantViolation, ErrCodeWorkerFailed:
		return SeverityFatal
	case ErrCodeProfileWrite:
		return SeverityWarning
	}
	return SeverityError
}
