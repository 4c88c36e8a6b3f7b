package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorCategoriesAndStatuses(t *testing.T) {
	cases := []struct {
		name     string
		err      *AppError
		category ErrorCategory
		status   int
	}{
		{"validation", NewValidationError("bad input"), CategoryValidation, 400},
		{"storage", NewStorageError("db down", errors.New("conn refused")), CategoryStorage, 503},
		{"training", NewTrainingError("model failed", nil), CategoryTraining, 200},
		{"rate limit", NewRateLimitError("60"), CategoryRateLimit, 429},
		{"timeout", NewTimeoutError("slow", nil), CategoryTimeout, 504},
		{"internal", NewInternalError("boom", nil), CategoryInternal, 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.category, tc.err.Category)
			assert.Equal(t, tc.status, tc.err.HTTPStatus)
			assert.False(t, tc.err.Timestamp.IsZero())
		})
	}
}

func TestErrorStringIncludesCode(t *testing.T) {
	assert.Equal(t, "[VALIDATION_ERROR] bad input", NewValidationError("bad input").Error())
	assert.Equal(t, "[STORAGE_ERROR] db down", NewStorageError("db down", nil).Error())
	assert.Equal(t, "[RATE_LIMIT_EXCEEDED] Rate limit exceeded", NewRateLimitError("30").Error())
	assert.Equal(t, "[TIMEOUT_ERROR] slow", NewTimeoutError("slow", nil).Error())
	assert.Equal(t, "[INTERNAL_ERROR] Internal server error", NewInternalError("boom", nil).Error())
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("disk full")
	appErr := NewStorageError("write failed", cause)

	assert.ErrorIs(t, appErr, cause)
	assert.Equal(t, cause, appErr.Unwrap())
}

func TestToAppErrorPassesThrough(t *testing.T) {
	original := NewValidationError("already wrapped")
	converted := ToAppError(original)

	assert.Same(t, original, converted)
}

func TestToAppErrorNil(t *testing.T) {
	assert.Nil(t, ToAppError(nil))
}

func TestToAppErrorClassification(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category ErrorCategory
	}{
		{"sql error", errors.New("sql: no rows in result set"), CategoryStorage},
		{"database error", errors.New("database is locked"), CategoryStorage},
		{"prepared statement", errors.New("prepared statement missing"), CategoryStorage},
		{"timeout message", errors.New("operation timeout"), CategoryTimeout},
		{"deadline message", fmt.Errorf("query: %w", errors.New("deadline exceeded")), CategoryTimeout},
		{"context canceled", context.Canceled, CategoryTimeout},
		{"context deadline", context.DeadlineExceeded, CategoryTimeout},
		{"unknown", errors.New("something odd"), CategoryInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := ToAppError(tc.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.category, appErr.Category)
			assert.ErrorIs(t, appErr, tc.err)
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	appErr := NewValidationError("business_value out of range", "must be between 0 and 10")

	assert.Equal(t, CategoryValidation, appErr.Category)
	assert.Contains(t, appErr.Error(), "business_value out of range")
}
