package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
)

// Custom error types for the application
var (
	ErrNotFound           = errors.New(constants.ErrorNotFound)
	ErrUnauthorized       = errors.New(constants.ErrorUnauthorized)
	ErrForbidden          = errors.New(constants.ErrorForbidden)
	ErrBadRequest         = errors.New(constants.ErrorBadRequest)
	ErrInternalServer     = errors.New(constants.ErrorInternalServer)
	ErrValidation         = errors.New(constants.ErrorValidation)
	ErrDuplicate          = errors.New(constants.ErrorDuplicate)
	ErrInvalidCredentials = errors.New(constants.ErrorInvalidCredentials)
	ErrInvalidToken       = errors.New(constants.ErrorInvalidToken)
	ErrInvalidResetToken  = errors.New(constants.ErrorInvalidResetToken)
	ErrTooManyRequests    = errors.New(constants.ErrorTooManyRequests)
)

// AppError represents an application error with additional context
type AppError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly error message
	DevInfo    string // Additional information for developers, never rendered
	Field      string // Field related to the error (for validation errors)
	Details    map[string]any
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the given error and status code
func New(err error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewValidationError creates a new validation error for a specific field
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Field:      field,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resourceType string, identifier interface{}) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier),
	}
}

// NewNotFoundMessage creates a not found error carrying a fixed user message
func NewNotFoundMessage(message string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = constants.MsgNoToken
	}
	return &AppError{
		Err:        ErrUnauthorized,
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = constants.MsgAccessDenied
	}
	return &AppError{
		Err:        ErrForbidden,
		StatusCode: http.StatusForbidden,
		Message:    message,
	}
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrInternalServer,
		StatusCode: http.StatusInternalServerError,
		Message:    constants.MsgInternalServerError,
		DevInfo:    devInfo,
	}
}

// NewConflictError creates a duplicate resource error with a fixed user message
func NewConflictError(message string) *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusConflict,
		Message:    message,
	}
}

// NewInvalidCredentialsError creates a new invalid credentials error
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Err:        ErrInvalidCredentials,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgInvalidCredentials,
	}
}

// NewInvalidTokenError creates a new invalid token error
func NewInvalidTokenError() *AppError {
	return &AppError{
		Err:        ErrInvalidToken,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgTokenNotValid,
	}
}

// NewInvalidResetTokenError creates the error returned for unknown or expired reset tokens
func NewInvalidResetTokenError() *AppError {
	return &AppError{
		Err:        ErrInvalidResetToken,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgInvalidResetToken,
	}
}

// NewUserExistsError reports a registration with an email that is already
// taken. It matches ErrDuplicate but answers 400, not 409.
func NewUserExistsError() *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgUserExists,
	}
}

// NewTooManyRequestsError creates a rate limit error
func NewTooManyRequestsError(message string) *AppError {
	if message == "" {
		message = constants.MsgTooManyRequests
	}
	return &AppError{
		Err:        ErrTooManyRequests,
		StatusCode: http.StatusTooManyRequests,
		Message:    message,
	}
}

// ParseError attempts to parse various types of errors into an AppError
func ParseError(err error) *AppError {
	// If it's already an AppError, return it
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewNotFoundMessage(constants.MsgResourceNotFound)
	case errors.Is(err, ErrUnauthorized):
		return NewUnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return NewForbiddenError("")
	case errors.Is(err, ErrBadRequest):
		return NewBadRequestError(err.Error())
	case errors.Is(err, ErrValidation):
		return NewValidationError("", err.Error())
	case errors.Is(err, ErrDuplicate):
		return NewConflictError(constants.MsgResourceAlreadyExists)
	case errors.Is(err, ErrInvalidCredentials):
		return NewInvalidCredentialsError()
	case errors.Is(err, ErrInvalidToken):
		return NewInvalidTokenError()
	case errors.Is(err, ErrInvalidResetToken):
		return NewInvalidResetTokenError()
	case errors.Is(err, ErrTooManyRequests):
		return NewTooManyRequestsError("")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgerrcode.UniqueViolation:
			field := ""
			if _, after, ok := strings.Cut(pqErr.Constraint, "idx_"); ok {
				field = after
			}
			return &AppError{
				Err:        ErrDuplicate,
				StatusCode: http.StatusConflict,
				Message:    constants.MsgResourceAlreadyExists,
				DevInfo:    pqErr.Error(),
				Field:      field,
			}
		case pgerrcode.ForeignKeyViolation:
			return &AppError{
				Err:        ErrBadRequest,
				StatusCode: http.StatusBadRequest,
				Message:    "This operation violates a foreign key constraint",
				DevInfo:    pqErr.Error(),
			}
		case pgerrcode.NotNullViolation:
			field := pqErr.Column
			return &AppError{
				Err:        ErrValidation,
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("The %s field cannot be empty", field),
				DevInfo:    pqErr.Error(),
				Field:      field,
			}
		}
	}

	return NewInternalServerError(err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique violation.
// An empty constraint matches any unique constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
