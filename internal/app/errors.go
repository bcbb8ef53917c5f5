package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// ResolveFailed indicates the URL could not be resolved to a coordinate.
	ResolveFailed AppErrorType = iota
	// ListFailed indicates the remote tree could not be enumerated.
	ListFailed
	// DownloadFailed indicates materialization failed for one or more files.
	DownloadFailed
	// RefreshFailed indicates one or more managed folders failed to refresh.
	RefreshFailed
	// MetadataFailed indicates the sidecar could not be read or written.
	MetadataFailed
	// ValidationFailed indicates invalid options.
	ValidationFailed
)

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewResolveError creates a URL resolution error.
func NewResolveError(message string, cause error) *AppError {
	return NewAppError(ResolveFailed, message, cause)
}

// NewListError creates a tree listing error.
func NewListError(message string, cause error) *AppError {
	return NewAppError(ListFailed, message, cause)
}

// NewDownloadError creates a download error.
func NewDownloadError(message string, cause error) *AppError {
	return NewAppError(DownloadFailed, message, cause)
}

// NewRefreshError creates a refresh error.
func NewRefreshError(message string, cause error) *AppError {
	return NewAppError(RefreshFailed, message, cause)
}

// NewMetadataError creates a sidecar error.
func NewMetadataError(message string, cause error) *AppError {
	return NewAppError(MetadataFailed, message, cause)
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, cause)
}
