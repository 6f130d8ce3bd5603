// Package apperror defines the application's error taxonomy and the stable
// JSON envelope every error response is rendered with. Handlers and services
// return *AppError values; the HTTP layer maps them to status codes via
// StatusCode and serializes them with ToResponse.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType enumerates the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// ValidationError represents an input validation error, optionally with field detail
	ValidationError
	// DuplicateError represents a uniqueness conflict (email/username already taken)
	DuplicateError
	// AuthError represents an authentication failure (missing/invalid credentials)
	AuthError
	// ForbiddenError represents a rejected token on a protected route
	ForbiddenError
	// NotFoundError represents a resource not found error
	NotFoundError
	// RateLimitError represents a rejected request from the rate limiter
	RateLimitError
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// ExternalServiceError represents a failure of the upstream workflow service
	ExternalServiceError
	// InternalError represents a generic internal server error
	InternalError
)

// FieldError carries per-field validation detail, mirroring the
// {field, message} items the API exposes on 400 responses.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the application's error type. Message is user-facing; Err is
// the wrapped cause and never leaves the process.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	// Fields holds validation detail for ValidationError.
	Fields []FieldError
	// RetryAfter is the hint in seconds attached to RateLimitError.
	RetryAfter int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error so errors.Is/errors.As can walk the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, DuplicateError:
		// Duplicates are reported as 400, matching the public API contract.
		return http.StatusBadRequest
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case RateLimitError:
		return http.StatusTooManyRequests
	case ExternalServiceError:
		return http.StatusBadGateway
	case DatabaseError, ConfigError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError with an arbitrary type.
func NewAppError(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlying}
}

// NewValidationError creates a ValidationError without field detail.
func NewValidationError(message string, underlying error) *AppError {
	return NewAppError(ValidationError, message, underlying)
}

// NewFieldValidationError creates a ValidationError carrying field detail.
func NewFieldValidationError(message string, fields []FieldError) *AppError {
	return &AppError{Type: ValidationError, Message: message, Fields: fields}
}

// NewDuplicateError creates a DuplicateError.
func NewDuplicateError(message string, underlying error) *AppError {
	return NewAppError(DuplicateError, message, underlying)
}

// NewAuthError creates an AuthError.
func NewAuthError(message string, underlying error) *AppError {
	return NewAppError(AuthError, message, underlying)
}

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(message string, underlying error) *AppError {
	return NewAppError(ForbiddenError, message, underlying)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message string, underlying error) *AppError {
	return NewAppError(NotFoundError, message, underlying)
}

// NewRateLimitError creates a RateLimitError with a retry-after hint in seconds.
func NewRateLimitError(message string, retryAfter int) *AppError {
	return &AppError{Type: RateLimitError, Message: message, RetryAfter: retryAfter}
}

// NewDatabaseError creates a DatabaseError.
func NewDatabaseError(message string, underlying error) *AppError {
	return NewAppError(DatabaseError, message, underlying)
}

// NewConfigError creates a ConfigError.
func NewConfigError(message string, underlying error) *AppError {
	return NewAppError(ConfigError, message, underlying)
}

// NewExternalServiceError creates an ExternalServiceError.
func NewExternalServiceError(message string, underlying error) *AppError {
	return NewAppError(ExternalServiceError, message, underlying)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, underlying error) *AppError {
	return NewAppError(InternalError, message, underlying)
}

// ErrorResponse is the stable error envelope returned to API clients.
// Only the user-facing message is included, never the wrapped cause.
type ErrorResponse struct {
	Success bool `json:"success" example:"false"`
	// Message describes the error
	Message string `json:"message" example:"A description of the error"`
	// Errors holds field-level validation detail, when present
	Errors []FieldError `json:"errors,omitempty"`
	// RetryAfter is the rate-limit hint in seconds, when present
	RetryAfter int `json:"retryAfter,omitempty"`
}

// ToResponse converts an AppError to the envelope suitable for API responses.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Success:    false,
		Message:    e.Message,
		Errors:     e.Fields,
		RetryAfter: e.RetryAfter,
	}
}

// FromError attempts to convert a generic error to an *AppError.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool { return isType(err, ValidationError) }

// IsDuplicate checks if an error is a DuplicateError.
func IsDuplicate(err error) bool { return isType(err, DuplicateError) }

// IsAuthError checks if an error is an AuthError.
func IsAuthError(err error) bool { return isType(err, AuthError) }

// IsNotFound checks if an error is a NotFoundError.
func IsNotFound(err error) bool { return isType(err, NotFoundError) }

// IsRateLimited checks if an error is a RateLimitError.
func IsRateLimited(err error) bool { return isType(err, RateLimitError) }
