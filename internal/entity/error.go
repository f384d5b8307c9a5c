package entity

import (
	"fmt"
	"net/http"
)

// ErrorCode — стабильный код канонической таксономии ошибок
type ErrorCode string

const (
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeRateLimited         ErrorCode = "RATE_LIMITED"
	ErrCodePlatform            ErrorCode = "PLATFORM_ERROR"
	ErrCodePlatformUnavailable ErrorCode = "PLATFORM_UNAVAILABLE"
	ErrCodeDuplicateContent    ErrorCode = "DUPLICATE_CONTENT"
	ErrCodeContentPolicy       ErrorCode = "CONTENT_POLICY_VIOLATION"
	ErrCodeMediaUpload         ErrorCode = "MEDIA_UPLOAD_FAILED"
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeNetwork             ErrorCode = "NETWORK_ERROR"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
	ErrCodeUnknown             ErrorCode = "UNKNOWN_ERROR"
)

// CanonicalError — нормализованная ошибка, не зависящая от формата ошибок платформы.
// После создания не мутируется: добавление контекста возвращает копию.
type CanonicalError struct {
	Code        ErrorCode      `json:"code" msgpack:"code"`
	Message     string         `json:"message" msgpack:"message"`
	Status      int            `json:"status" msgpack:"status"`
	Recoverable bool           `json:"recoverable" msgpack:"recoverable"`
	Details     map[string]any `json:"details,omitempty" msgpack:"details"`
}

func (e *CanonicalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCanonicalError создает каноническую ошибку с копией переданных details
func NewCanonicalError(code ErrorCode, message string, status int, recoverable bool, details map[string]any) *CanonicalError {
	detailsCopy := make(map[string]any, len(details))
	for k, v := range details {
		detailsCopy[k] = v
	}
	return &CanonicalError{
		Code:        code,
		Message:     message,
		Status:      status,
		Recoverable: recoverable,
		Details:     detailsCopy,
	}
}

// NewValidationError создает VALIDATION_ERROR с указанием поля, не прошедшего проверку
func NewValidationError(message, field string) *CanonicalError {
	return NewCanonicalError(ErrCodeValidation, message, http.StatusBadRequest, false, map[string]any{
		"field": field,
	})
}

// NewRateLimitedError создает RATE_LIMITED с подсказкой retryAfter в секундах
func NewRateLimitedError(message string, retryAfterSeconds int) *CanonicalError {
	return NewCanonicalError(ErrCodeRateLimited, message, http.StatusTooManyRequests, true, map[string]any{
		"retryAfter": retryAfterSeconds,
	})
}

// WithContext возвращает копию ошибки, в details которой добавлены недостающие ключи.
// Уже существующие ключи не перезаписываются.
func (e *CanonicalError) WithContext(context map[string]any) *CanonicalError {
	merged := make(map[string]any, len(e.Details)+len(context))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range context {
		if _, exists := merged[k]; !exists {
			merged[k] = v
		}
	}
	return &CanonicalError{
		Code:        e.Code,
		Message:     e.Message,
		Status:      e.Status,
		Recoverable: e.Recoverable,
		Details:     merged,
	}
}
