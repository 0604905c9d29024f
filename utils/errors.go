package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError represents a service-level error with context
type ServiceError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Details    string `json:"details,omitempty"`
	Cause      error  `json:"-"` // Original error, not exposed in JSON
}

func (e ServiceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e ServiceError) Unwrap() error {
	return e.Cause
}

// Error code constants
const (
	ErrCodeTransport       = "TRANSPORT_ERROR"
	ErrCodeNormalization   = "NORMALIZATION_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeRemoteOperation = "REMOTE_OPERATION_ERROR"
	ErrCodeInvalidReferral = "INVALID_REFERRAL"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// NewTransportError wraps a connection or send failure. These are
// retried by the connection manager and only ever surfaced as a status
// flag, never as a blocking error.
func NewTransportError(message string, cause error) error {
	return ServiceError{
		Code:       ErrCodeTransport,
		Message:    message,
		Cause:      cause,
		StatusCode: http.StatusServiceUnavailable,
	}
}

// NewNormalizationError marks a malformed wire payload. The event is
// dropped and the pipeline continues.
func NewNormalizationError(details string) error {
	return ServiceError{
		Code:       ErrCodeNormalization,
		Message:    "Malformed payload",
		Details:    details,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewValidationError rejects a user-triggered operation before any
// network call is made.
func NewValidationError(message string) error {
	return ServiceError{
		Code:       ErrCodeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewRemoteOperationError surfaces a failed API call. Local state is
// left unchanged by the caller.
func NewRemoteOperationError(message string, cause error) error {
	return ServiceError{
		Code:       ErrCodeRemoteOperation,
		Message:    message,
		Cause:      cause,
		StatusCode: http.StatusBadGateway,
	}
}

// NewInvalidReferralError rejects a referral that violates the
// same-station or target-eligibility rules.
func NewInvalidReferralError(message string) error {
	return ServiceError{
		Code:       ErrCodeInvalidReferral,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewNotFoundError(resource string) error {
	return ServiceError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string) error {
	return ServiceError{
		Code:       ErrCodeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewInternalError(message string) error {
	return ServiceError{
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// GetServiceError extracts a ServiceError from an error chain
func GetServiceError(err error) (ServiceError, bool) {
	var serviceErr ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return ServiceError{}, false
}

// IsErrorCode checks whether err carries the given service error code
func IsErrorCode(err error, code string) bool {
	serviceErr, ok := GetServiceError(err)
	return ok && serviceErr.Code == code
}

// WrapError attaches a code and message to an underlying error
func WrapError(err error, code, message string) error {
	return ServiceError{
		Code:       code,
		Message:    message,
		Cause:      err,
		StatusCode: http.StatusInternalServerError,
	}
}
