package errors

import (
	"errors"
	"fmt"
)

const (
	ErrorTypeValidation      = "VALIDATION_ERROR"
	ErrorTypeStorageRead     = "STORAGE_READ_ERROR"
	ErrorTypeStorageWrite    = "STORAGE_WRITE_ERROR"
	ErrorTypeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrorTypeInternal        = "INTERNAL_ERROR"
	ErrorTypeUnknown         = "UNKNOWN_ERROR"
)

type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(errType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// NewValidationError reports caller-supplied input that failed validation.
// Message is shown to the user verbatim, so keep it short and concrete.
func NewValidationError(message string, err error) *AppError {
	return NewAppError(ErrorTypeValidation, message, err)
}

// NewStorageReadError reports a durable medium that could not be read. The
// waitlist store recovers from these internally, so they surface in logs
// and metrics only, never to the caller.
func NewStorageReadError(message string, err error) *AppError {
	return NewAppError(ErrorTypeStorageRead, message, err)
}

// NewStorageWriteError reports a durable medium that rejected a write. This
// is the one storage failure callers see; it is retryable.
func NewStorageWriteError(message string, err error) *AppError {
	return NewAppError(ErrorTypeStorageWrite, message, err)
}

func NewTooManyRequestsError(message string, err error) *AppError {
	return NewAppError(ErrorTypeTooManyRequests, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInternal, message, err)
}

func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return ErrorTypeUnknown
}

func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

func IsStorageWriteError(err error) bool {
	return GetErrorType(err) == ErrorTypeStorageWrite
}

func IsTooManyRequestsError(err error) bool {
	return GetErrorType(err) == ErrorTypeTooManyRequests
}
