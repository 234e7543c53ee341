package errors

import (
	"errors"
	"fmt"
)

// Application error classes. Wrap them with %w and test with Is.

var (
	// ErrInvalidInput indicates malformed or out-of-range input
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the caller exceeded the allowed request rate
	ErrRateLimited = errors.New("rate limited")

	// ErrUpload indicates a storage backend call failed or returned an error payload
	ErrUpload = errors.New("upload failed")

	// ErrNoEligibleBackend indicates no configured storage tier accepts the file
	ErrNoEligibleBackend = errors.New("no eligible storage backend")

	// ErrConfiguration indicates required deployment configuration is missing
	ErrConfiguration = errors.New("configuration error")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// UploadError wraps a backend failure with the backend name
func UploadError(backend string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", backend, ErrUpload)
	}
	return fmt.Errorf("%s: %w: %w", backend, ErrUpload, err)
}

// ConfigurationError creates a configuration error naming the missing setting
func ConfigurationError(setting string) error {
	return fmt.Errorf("%s is not configured: %w", setting, ErrConfiguration)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
