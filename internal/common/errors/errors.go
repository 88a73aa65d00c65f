// Package errors provides standardized error handling for the scoring service.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Client input faults, surfaced before any external call is made.
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidSourceType ErrorCode = "INVALID_SOURCE_TYPE"
	ErrCodeInvalidReportID   ErrorCode = "INVALID_REPORT_ID"

	// Not-found faults, never conflated with service failures.
	ErrCodeEntityNotFound ErrorCode = "ENTITY_NOT_FOUND"
	ErrCodeReportNotFound ErrorCode = "REPORT_NOT_FOUND"

	// Upstream capability faults.
	ErrCodeAIUnavailable       ErrorCode = "AI_SERVICE_UNAVAILABLE"
	ErrCodeAIResponseMalformed ErrorCode = "AI_RESPONSE_MALFORMED"
	ErrCodeEmbeddingFailed     ErrorCode = "EMBEDDING_FAILED"

	// Infrastructure faults.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeReportInsertFailed       ErrorCode = "REPORT_INSERT_FAILED"

	// Rate admission.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
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

// AsStandard extracts a *StandardError from an error chain, if present.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable client input error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Required input is missing or invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSourceTypeError creates a non-retryable client input error.
func NewInvalidSourceTypeError(sourceType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSourceType,
		Message:   "Unsupported match source type",
		Details:   fmt.Sprintf("sourceType: %s", sourceType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidReportIDError creates a non-retryable client input error.
func NewInvalidReportIDError(reportID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidReportID,
		Message:   "Report ID does not match the expected format",
		Details:   fmt.Sprintf("reportId: %s", reportID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEntityNotFoundError creates a non-retryable not-found error.
func NewEntityNotFoundError(collection, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEntityNotFound,
		Message:   "Entity not found",
		Details:   fmt.Sprintf("collection: %s, id: %s", collection, id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportNotFoundError creates a non-retryable not-found error.
func NewReportNotFoundError(reportID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportNotFound,
		Message:   "Health-check report not found",
		Details:   fmt.Sprintf("reportId: %s", reportID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAIUnavailableError creates a retryable upstream capability error.
func NewAIUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAIUnavailable,
		Message:   "AI reasoning service unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAIResponseMalformedError creates an upstream capability error for
// responses that cannot be parsed into the expected structure.
func NewAIResponseMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAIResponseMalformed,
		Message:   "AI reasoning response could not be parsed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingFailedError creates a retryable upstream capability error.
func NewEmbeddingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingFailed,
		Message:   "Embedding service call failed",
		Details:   err.Error(),
		Retryable: true,
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

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Directory search query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportInsertFailedError creates a retryable persistence error.
func NewReportInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportInsertFailed,
		Message:   "Failed to persist health-check report",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError creates a rate admission error.
func NewRateLimitedError(retryAfterSeconds int) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many requests",
		Retryable: true,
		Metadata:  map[string]interface{}{"retryAfterSeconds": retryAfterSeconds},
		Timestamp: time.Now().UTC(),
	}
}
