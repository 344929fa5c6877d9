// Package errors provides standardized error handling for the team builder API.
package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidTeamType  ErrorCode = "INVALID_TEAM_TYPE"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeRosterEmpty         ErrorCode = "ROSTER_EMPTY"
	ErrCodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeRosterQueryFailed        ErrorCode = "ROSTER_QUERY_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeAgentInvokeFailed ErrorCode = "AGENT_INVOKE_FAILED"
	ErrCodeAgentTimeout      ErrorCode = "AGENT_TIMEOUT"

	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandardError unwraps err into a StandardError when possible.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidTeamTypeError creates a non-retryable team type error.
func NewInvalidTeamTypeError(teamType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTeamType,
		Message:   "Unsupported team submission type",
		Details:   fmt.Sprintf("teamType: %s", teamType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable request validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRosterEmptyError creates a non-retryable empty roster error.
func NewRosterEmptyError(teamType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRosterEmpty,
		Message:   "No players matched the roster criteria",
		Details:   fmt.Sprintf("teamType: %s", teamType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConstraintViolationError creates a non-retryable roster constraint error.
func NewConstraintViolationError(teamType, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConstraintViolation,
		Message:   "Roster does not satisfy team composition constraints",
		Details:   fmt.Sprintf("teamType: %s, %s", teamType, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRosterQueryFailedError creates a retryable roster query error.
func NewRosterQueryFailedError(teamType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRosterQueryFailed,
		Message:   "Roster query execution error",
		Details:   fmt.Sprintf("teamType: %s, error: %s", teamType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(teamType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Roster query timeout",
		Details:   fmt.Sprintf("teamType: %s", teamType),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable player search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Player search query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable player search timeout error.
func NewSearchTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Player search timeout",
		Details:   "Search call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentInvokeFailedError creates a retryable agent invocation error.
func NewAgentInvokeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentInvokeFailed,
		Message:   "Bedrock agent invocation error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentTimeoutError creates a retryable agent timeout error.
func NewAgentTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentTimeout,
		Message:   "Bedrock agent invocation timeout",
		Details:   "Agent call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable missing session error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailedError creates a retryable session persistence error.
func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Status Mapping
// ==========================

// HTTPStatusMapping maps internal error codes to HTTP response status codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeInvalidTeamType:  http.StatusBadRequest,
	ErrCodeValidationFailed: http.StatusBadRequest,

	ErrCodeRosterEmpty:         http.StatusNotFound,
	ErrCodeConstraintViolation: http.StatusUnprocessableEntity,

	ErrCodeDatabaseConnectionFailed: http.StatusInternalServerError,
	ErrCodeRosterQueryFailed:        http.StatusInternalServerError,
	ErrCodeQueryTimeout:             http.StatusGatewayTimeout,

	ErrCodeSearchQueryFailed: http.StatusInternalServerError,
	ErrCodeSearchTimeout:     http.StatusGatewayTimeout,

	ErrCodeAgentInvokeFailed: http.StatusBadGateway,
	ErrCodeAgentTimeout:      http.StatusGatewayTimeout,

	ErrCodeSessionNotFound:    http.StatusNotFound,
	ErrCodeSessionStoreFailed: http.StatusInternalServerError,

	ErrCodeNotificationSendFailed: http.StatusInternalServerError,
}

// HTTPStatus returns the response status for an error code.
func HTTPStatus(code ErrorCode) int {
	if status, exists := HTTPStatusMapping[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeRosterQueryFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeAgentInvokeFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	case ErrCodeAgentTimeout:
		return 1 // Agent calls are expensive, single retry only

	default:
		return 0 // Business errors: no retry
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ROSTER") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "AGENT"):
		return "AI"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "CONSTRAINT"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
