// Package domain defines domain-specific errors.
// These errors represent failures of the native library and of the session layer and are
// independent of the cgo adapter that produces them.
package domain

import (
	"errors"
	"fmt"
)

// Error categories every native result code is translated into.
var (
	// ErrConnectivity is the category of network related result codes.
	ErrConnectivity = errors.New("connectivity error")

	// ErrInvalidArgument is the category of invalid argument result codes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIndexOutOfRange is the category of index out of range result codes.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrOperationFailed is the category of every other failing result code.
	ErrOperationFailed = errors.New("native operation failed")
)

// Session layer errors.
var (
	// ErrSessionExists is returned when a second session is created in the same process.
	ErrSessionExists = errors.New("a session already exists in this process")

	// ErrSessionClosed is returned when an operation is attempted on a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrEntityClosed is returned when an operation is attempted on a closed entity.
	ErrEntityClosed = errors.New("entity closed")

	// ErrHandleReleased is the panic value raised when a released handle is used.
	ErrHandleReleased = errors.New("native handle already released")

	// ErrNilHandle is returned when a native call yields no object.
	ErrNilHandle = errors.New("nil native handle")

	// ErrNotLoaded is returned when an operation needs loaded metadata.
	ErrNotLoaded = errors.New("entity metadata not loaded")

	// ErrLinkTypeMismatch is returned when a link is resolved as the wrong kind.
	ErrLinkTypeMismatch = errors.New("link does not point to the requested kind")

	// ErrNoStoredCredentials is returned by Relogin when nothing is remembered.
	ErrNoStoredCredentials = errors.New("no stored credentials to relogin from")

	// ErrAPIVersionMismatch is returned when the native library reports another API version.
	ErrAPIVersionMismatch = errors.New("native api version mismatch")

	// ErrNativeUnavailable is returned when the binary was built without the native library.
	ErrNativeUnavailable = errors.New("native library not available in this build")

	// ErrCredentialsNotFound is returned when no credentials have been stored.
	ErrCredentialsNotFound = errors.New("credentials not found")
)

// NativeError represents a failing native library call.
// Err is one of the category sentinels, so errors.Is(err, ErrConnectivity) works.
type NativeError struct {
	Op      string // Operation that failed (e.g., "login", "player_load")
	Code    Result // Result code from the native library
	Message string // Message from the native library
	Err     error  // Category sentinel
}

// Error implements the error interface.
func (e *NativeError) Error() string {
	return fmt.Sprintf("native %s failed: %s (code: %d)", e.Op, e.Message, int(e.Code))
}

// Unwrap returns the category sentinel.
func (e *NativeError) Unwrap() error {
	return e.Err
}

// NewNativeError creates a NativeError for a non-Ok result code.
func NewNativeError(op string, code Result, message string) *NativeError {
	if message == "" {
		message = code.String()
	}
	return &NativeError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     code.Category(),
	}
}

// RepositoryError represents an error from a repository.
// This wraps persistence layer errors with additional context.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load")
	Type    string // Repository type (e.g., "credentials")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
