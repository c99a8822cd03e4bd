// Package errors defines the advisory error codes and their mapping onto
// Zeebe job failures and BPMN errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// Error codes
// ==========================

type ErrorCode string

const (
	ErrCodeInvalidPreferences       ErrorCode = "INVALID_PREFERENCES"
	ErrCodeReferenceDataUnavailable ErrorCode = "REFERENCE_DATA_UNAVAILABLE"

	ErrCodeCandidateSearchFailed ErrorCode = "CANDIDATE_SEARCH_FAILED"
	ErrCodeSearchTimeout         ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound         ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeScoringFailed   ErrorCode = "SCORING_FAILED"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error shape every worker reports to the engine.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// BPMN integration
// ==========================

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables flattens the error into job variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// Constructors
// ==========================

func NewInvalidPreferencesError(details string) *StandardError {
	return newError(ErrCodeInvalidPreferences, "Target preferences failed validation", details, false)
}

// NewReferenceDataUnavailableError signals that the reference store has not
// finished loading. Callers should try again later.
func NewReferenceDataUnavailableError(details string) *StandardError {
	return newError(ErrCodeReferenceDataUnavailable, "Reference data is not ready, try again later", details, true)
}

func NewCandidateSearchFailedError(index string, err error) *StandardError {
	return newError(ErrCodeCandidateSearchFailed, "Candidate search failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Candidate search timeout", fmt.Sprintf("index: %s", index), true)
}

func NewIndexNotFoundError(index string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Elasticsearch index not found", fmt.Sprintf("index: %s", index), false)
}

func NewScoringFailedError(err error) *StandardError {
	return newError(ErrCodeScoringFailed, "Candidate scoring failed", err.Error(), false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' failed", service), err.Error(), true)
}

func NewTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Operation '%s' timed out", operation), err.Error(), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// Conversion
// ==========================

// GetRetryCount returns how many times the engine should retry a job that
// failed with code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeReferenceDataUnavailable,
		ErrCodeCandidateSearchFailed,
		ErrCodeExternalService:
		return 3
	case ErrCodeSearchTimeout, ErrCodeTimeout:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError maps a StandardError to the BPMN error thrown on the job.
// Internal codes and BPMN codes are identical.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// AsStandardError unwraps err into a *StandardError, wrapping unknown errors
// as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "REFERENCE_DATA"):
		return "REFERENCE_DATA"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SCORING"):
		return "SCORING"
	default:
		return "OTHER"
	}
}
