package errors

import "fmt"

// AppError represents an engine error with additional context
type AppError struct {
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Internal error       `json:"-"`
	Details  interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeEvaluation  = "EVALUATION_ERROR"
	ErrCodeParse       = "PARSE_ERROR"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodePersistence = "PERSISTENCE_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Internal: err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Common error constructors

// Evaluation creates an evaluation error. These are always converted into an
// error CheckResult at the per-check boundary, never propagated.
func Evaluation(message string, err error) *AppError {
	return Wrap(err, ErrCodeEvaluation, message)
}

// Parse creates a parse error for a single malformed field
func Parse(message string, err error) *AppError {
	return Wrap(err, ErrCodeParse, message)
}

// ValidationError creates a validation error with field details
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message).WithDetails(details)
}

// Persistence creates an inventory load/save error
func Persistence(message string, err error) *AppError {
	return Wrap(err, ErrCodePersistence, message)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

// Internal creates an internal error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message)
}
