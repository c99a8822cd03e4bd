package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		retryable bool
		retries   int
		category  string
	}{
		{"invalid preferences", NewInvalidPreferencesError("levels.0: unknown"), false, 0, "VALIDATION"},
		{"reference data not ready", NewReferenceDataUnavailableError("loading"), true, 3, "REFERENCE_DATA"},
		{"search failed", NewCandidateSearchFailedError("school_majors", fmt.Errorf("boom")), true, 3, "SEARCH"},
		{"search timeout", NewSearchTimeoutError("school_majors"), true, 2, "SEARCH"},
		{"index missing", NewIndexNotFoundError("school_majors"), false, 0, "SEARCH"},
		{"scoring failed", NewScoringFailedError(fmt.Errorf("bad thresholds")), false, 0, "SCORING"},
		{"timeout", NewTimeoutError("score-candidates", fmt.Errorf("deadline")), true, 2, "OTHER"},
		{"internal", NewInternalError(fmt.Errorf("nil map")), false, 0, "OTHER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, string(tt.err.Code), bpmn.Code)
			assert.Equal(t, tt.retryable, bpmn.Retryable)
			assert.Equal(t, tt.retries, bpmn.Retries)
			assert.Equal(t, tt.category, GetErrorCategory(tt.err.Code))

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, bpmn.Code, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_NonRetryableOverridesCode(t *testing.T) {
	err := newError(ErrCodeExternalService, "down", "", false)
	assert.Equal(t, 0, ConvertToBPMNError(err).Retries)
	assert.True(t, IsRetryableErrorCode(ErrCodeExternalService))
}

func TestAsStandardError(t *testing.T) {
	orig := NewIndexNotFoundError("school_majors")
	wrapped := fmt.Errorf("search: %w", orig)
	assert.Same(t, orig, AsStandardError(wrapped))

	plain := AsStandardError(stderrors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestStandardError_Error(t *testing.T) {
	assert.Equal(t, "SCORING_FAILED: Candidate scoring failed (x)", NewScoringFailedError(fmt.Errorf("x")).Error())
	assert.Equal(t, "INTERNAL_ERROR: oops", newError(ErrCodeInternal, "oops", "", false).Error())
}
