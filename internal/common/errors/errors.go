// Package errors provides standardized error handling for the application review client.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Remote errors. NetworkOrServer is the only remote kind the client distinguishes;
// NotFound is reported for single-record reads only.
const (
	ErrCodeNetworkOrServer ErrorCode = "NETWORK_OR_SERVER_ERROR"
	ErrCodeNotFound        ErrorCode = "APPLICATION_NOT_FOUND"
)

// Client-side validation errors, raised before any request leaves the process.
const (
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidRating ErrorCode = "INVALID_RATING"
	ErrCodeInvalidFilter ErrorCode = "INVALID_FILTER"
)

// Batch and user-interaction errors.
const (
	ErrCodeBulkPartialFailure   ErrorCode = "BULK_PARTIAL_FAILURE"
	ErrCodeConfirmationDeclined ErrorCode = "CONFIRMATION_DECLINED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying transport or decode error, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so sentinels work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns the error with an extra metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrNetworkOrServer      = &StandardError{Code: ErrCodeNetworkOrServer}
	ErrNotFound             = &StandardError{Code: ErrCodeNotFound}
	ErrInvalidStatus        = &StandardError{Code: ErrCodeInvalidStatus}
	ErrInvalidRating        = &StandardError{Code: ErrCodeInvalidRating}
	ErrInvalidFilter        = &StandardError{Code: ErrCodeInvalidFilter}
	ErrBulkPartialFailure   = &StandardError{Code: ErrCodeBulkPartialFailure}
	ErrConfirmationDeclined = &StandardError{Code: ErrCodeConfirmationDeclined}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewNetworkOrServerError wraps a transport failure or a non-2xx response.
// statusCode is 0 when no response was received.
func NewNetworkOrServerError(operation string, statusCode int, err error) *StandardError {
	details := fmt.Sprintf("operation: %s", operation)
	if statusCode > 0 {
		details = fmt.Sprintf("operation: %s, status: %d", operation, statusCode)
	}
	if err != nil {
		details = fmt.Sprintf("%s, error: %s", details, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeNetworkOrServer,
		Message:   "Request to the applications backend failed",
		Details:   details,
		Retryable: statusCode == 0 || statusCode >= 500,
		Metadata:  map[string]interface{}{"operation": operation, "statusCode": statusCode},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotFoundError creates a non-retryable not found error for a single application.
func NewNotFoundError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Metadata:  map[string]interface{}{"applicationId": applicationID},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStatusError rejects a status outside pending/approved/rejected.
func NewInvalidStatusError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStatus,
		Message:   "Unsupported application status",
		Details:   fmt.Sprintf("status: %q", status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRatingError rejects a rating payload that failed validation.
func NewInvalidRatingError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRating,
		Message:   "Invalid rating",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterError rejects a list filter value.
func NewInvalidFilterError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilter,
		Message:   "Invalid list filter",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBulkPartialFailureError summarizes a best-effort batch where some items failed.
func NewBulkPartialFailureError(action string, failed, total int) *StandardError {
	return &StandardError{
		Code:      ErrCodeBulkPartialFailure,
		Message:   fmt.Sprintf("Bulk %s failed for %d of %d applications", action, failed, total),
		Details:   fmt.Sprintf("action: %s", action),
		Retryable: false,
		Metadata:  map[string]interface{}{"action": action, "failed": failed, "total": total},
		Timestamp: time.Now().UTC(),
	}
}

// NewConfirmationDeclinedError reports that the user cancelled a destructive action.
func NewConfirmationDeclinedError(action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfirmationDeclined,
		Message:   "Action cancelled by user",
		Details:   fmt.Sprintf("action: %s", action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError normalizes any error into a StandardError. Unknown errors become
// NetworkOrServer errors since that is the only remote kind the UI distinguishes.
func AsStandardError(operation string, err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if As(err, &stdErr) {
		return stdErr
	}
	return NewNetworkOrServerError(operation, 0, err)
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NETWORK") || strings.Contains(codeStr, "NOT_FOUND"):
		return "REMOTE"
	case strings.HasPrefix(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.HasPrefix(codeStr, "BULK"):
		return "BATCH"
	case strings.Contains(codeStr, "CONFIRMATION"):
		return "USER"
	default:
		return "OTHER"
	}
}

// UserMessage returns the short text shown in a blocking notice.
func UserMessage(err error) string {
	var stdErr *StandardError
	if !As(err, &stdErr) {
		return "Something went wrong. Please try again."
	}
	switch stdErr.Code {
	case ErrCodeNotFound:
		return "The application no longer exists."
	case ErrCodeInvalidStatus, ErrCodeInvalidRating, ErrCodeInvalidFilter, ErrCodeBulkPartialFailure:
		return stdErr.Message
	case ErrCodeConfirmationDeclined:
		return "Cancelled."
	default:
		return "Request failed. Please try again."
	}
}
