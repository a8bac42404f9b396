package errors

import (
	"errors"
)

// GetHumanReadableMessage returns the message the presentation layer may
// show the user for err.
func GetHumanReadableMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	// SECURITY: avoid leaking internal error strings (storage errors, file
	// paths, stack messages, etc.)
	return "An unexpected error occurred"
}
