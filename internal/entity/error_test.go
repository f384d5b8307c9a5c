package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanonicalErrorCopiesDetails(t *testing.T) {
	details := map[string]any{"field": "targets"}
	err := NewCanonicalError(ErrCodeValidation, "bad request", 400, false, details)
	details["field"] = "changed"
	assert.Equal(t, "targets", err.Details["field"])
}

func TestWithContextKeepsExistingKeys(t *testing.T) {
	err := NewRateLimitedError("platform rate limit exhausted", 30)
	enriched := err.WithContext(map[string]any{
		"retryAfter": 999,
		"platform":   "tg",
	})
	// существующий ключ не перезаписывается, новый добавляется
	assert.Equal(t, 30, enriched.Details["retryAfter"])
	assert.Equal(t, "tg", enriched.Details["platform"])
	// исходная ошибка не изменилась
	_, hasPlatform := err.Details["platform"]
	assert.False(t, hasPlatform)
}

func TestWithContextReturnsCopy(t *testing.T) {
	err := NewValidationError("bad", "content")
	enriched := err.WithContext(map[string]any{"userId": "u1"})
	require.NotSame(t, err, enriched)
	assert.Equal(t, err.Code, enriched.Code)
	assert.Equal(t, err.Status, enriched.Status)
	assert.Equal(t, err.Message, enriched.Message)
}

func TestCanonicalErrorImplementsError(t *testing.T) {
	var err error = NewValidationError("at least one target is required", "targets")
	assert.Equal(t, "VALIDATION_ERROR: at least one target is required", err.Error())
}
