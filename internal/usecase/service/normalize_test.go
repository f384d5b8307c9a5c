package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"crosspost-backend/internal/entity"

	"github.com/SevereCloud/vksdk/v3/api"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// codedError — ошибка, сама сообщающая свой нативный код
type codedError struct {
	code       string
	retryAfter int
}

func (e *codedError) Error() string           { return "native error " + e.code }
func (e *codedError) NativeErrorCode() string { return e.code }
func (e *codedError) RetryAfterSeconds() int  { return e.retryAfter }

// timeoutError имитирует сетевую ошибку
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "dial tcp: i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func newTestNormalizer() *Normalizer {
	return &Normalizer{table: DefaultNativeCodeTable()}
}

func TestNormalizeNonErrorValue(t *testing.T) {
	normalized := newTestNormalizer().Normalize("panic payload", entity.PlatformTelegram, "u1")
	assert.Equal(t, entity.ErrCodeUnknown, normalized.Code)
	assert.Equal(t, http.StatusInternalServerError, normalized.Status)
	assert.Equal(t, "unknown error during dispatch", normalized.Message)
	assert.Equal(t, "tg", normalized.Details["platform"])
	assert.Equal(t, "u1", normalized.Details["userId"])
}

func TestNormalizeNilValue(t *testing.T) {
	normalized := newTestNormalizer().Normalize(nil, entity.PlatformVkontakte, "u2")
	assert.Equal(t, entity.ErrCodeUnknown, normalized.Code)
}

// повторная нормализация канонической ошибки сохраняет код и статус
func TestNormalizeIdempotent(t *testing.T) {
	normalizer := newTestNormalizer()
	first := normalizer.Normalize(&codedError{code: "187"}, entity.PlatformTwitter, "u1")
	require.Equal(t, entity.ErrCodeDuplicateContent, first.Code)

	second := normalizer.Normalize(first, entity.PlatformTwitter, "u1")
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Message, second.Message)
	assert.Equal(t, first.Details["nativeErrorCode"], second.Details["nativeErrorCode"])
}

func TestNormalizeWrappedCanonicalError(t *testing.T) {
	canonical := entity.NewValidationError("bad ref", "ref")
	wrapped := fmt.Errorf("call failed: %w", canonical)
	normalized := newTestNormalizer().Normalize(wrapped, entity.PlatformTelegram, "u1")
	assert.Equal(t, entity.ErrCodeValidation, normalized.Code)
	assert.Equal(t, "ref", normalized.Details["field"])
	assert.Equal(t, "tg", normalized.Details["platform"])
}

func TestNormalizePlatformPrefixedCode(t *testing.T) {
	normalized := newTestNormalizer().Normalize(&codedError{code: "226"}, entity.PlatformTwitter, "u1")
	assert.Equal(t, entity.ErrCodeContentPolicy, normalized.Code)
	assert.Equal(t, http.StatusBadRequest, normalized.Status)
	assert.False(t, normalized.Recoverable)
	assert.Equal(t, "226", normalized.Details["nativeErrorCode"])
}

// код без платформенного префикса находится по общей записи таблицы
func TestNormalizeBareCodeFallback(t *testing.T) {
	normalized := newTestNormalizer().Normalize(&codedError{code: "503"}, entity.PlatformTwitter, "u1")
	assert.Equal(t, entity.ErrCodePlatformUnavailable, normalized.Code)
	assert.True(t, normalized.Recoverable)
}

func TestNormalizeVKError(t *testing.T) {
	vkErr := &api.Error{Code: 214, Message: "access to adding post denied"}
	normalized := newTestNormalizer().Normalize(vkErr, entity.PlatformVkontakte, "group1")
	assert.Equal(t, entity.ErrCodeForbidden, normalized.Code)
	assert.Equal(t, http.StatusForbidden, normalized.Status)
	assert.Equal(t, "214", normalized.Details["nativeErrorCode"])
}

func TestNormalizeTelegramFloodError(t *testing.T) {
	tgErr := &tgbotapi.Error{
		Code:    429,
		Message: "Too Many Requests: retry after 17",
		ResponseParameters: tgbotapi.ResponseParameters{
			RetryAfter: 17,
		},
	}
	normalized := newTestNormalizer().Normalize(tgErr, entity.PlatformTelegram, "u1")
	assert.Equal(t, entity.ErrCodeRateLimited, normalized.Code)
	assert.Equal(t, http.StatusTooManyRequests, normalized.Status)
	assert.Equal(t, 17, normalized.Details["retryAfter"])
}

// RATE_LIMITED без подсказки платформы получает подсказку по умолчанию
func TestNormalizeRateLimitedDefaultRetryAfter(t *testing.T) {
	normalized := newTestNormalizer().Normalize(&codedError{code: "88"}, entity.PlatformTwitter, "u1")
	assert.Equal(t, entity.ErrCodeRateLimited, normalized.Code)
	assert.Equal(t, 60, normalized.Details["retryAfter"])
}

func TestNormalizeNetworkError(t *testing.T) {
	normalized := newTestNormalizer().Normalize(&timeoutError{}, entity.PlatformTwitter, "u1")
	assert.Equal(t, entity.ErrCodeNetwork, normalized.Code)
	assert.Equal(t, http.StatusBadGateway, normalized.Status)
	assert.True(t, normalized.Recoverable)
}

func TestNormalizeContextDeadline(t *testing.T) {
	wrapped := fmt.Errorf("request: %w", context.DeadlineExceeded)
	normalized := newTestNormalizer().Normalize(wrapped, entity.PlatformVkontakte, "u1")
	assert.Equal(t, entity.ErrCodeNetwork, normalized.Code)
}

func TestNormalizeUnknownError(t *testing.T) {
	normalized := newTestNormalizer().Normalize(errors.New("something odd"), entity.PlatformTelegram, "u1")
	assert.Equal(t, entity.ErrCodeUnknown, normalized.Code)
	assert.Equal(t, "something odd", normalized.Message)
	assert.False(t, normalized.Recoverable)
}

// неизвестный нативный код не находит соответствия и остается UNKNOWN_ERROR
func TestNormalizeUnmappedNativeCode(t *testing.T) {
	normalized := newTestNormalizer().Normalize(&codedError{code: "99999"}, entity.PlatformTwitter, "u1")
	assert.Equal(t, entity.ErrCodeUnknown, normalized.Code)
}
