package usecase

import (
	"context"

	"crosspost-backend/internal/entity"
)

// Dispatcher — ядро раздачи одной логической операции по всем целям запроса
type Dispatcher interface {
	// Dispatch валидирует запрос, проверяет лимиты и конкурентно выполняет операцию
	// на каждой цели. Возвращает мульти-статус и общий HTTP-статус классификации.
	// Ошибка возвращается только для отказов до раздачи (валидация, квота приложения):
	// это всегда *entity.CanonicalError, и ни одна цель при этом не обрабатывается.
	// Отказы отдельных целей никогда не возвращаются ошибкой — они попадают
	// в MultiStatusData.Errors.
	Dispatch(ctx context.Context, request *entity.PostRequest) (*entity.MultiStatusData, int, error)
}

// ErrorNormalizer приводит любую ошибку платформы к канонической форме
type ErrorNormalizer interface {
	// Normalize возвращает каноническую ошибку для любого значения, полученного
	// из вызова платформы: канонической ошибки, нативной ошибки SDK, обычной
	// ошибки или значения из recover. Функция чистая и идемпотентная.
	Normalize(value any, platform entity.Platform, userID string) *entity.CanonicalError
}

// RateLimitGate решает, может ли запрос или отдельная цель пройти к раздаче
type RateLimitGate interface {
	// CheckAppQuota проверяет суточную квоту приложения для пары (подписант, эндпоинт).
	// Выполняется один раз на запрос. Превышение — RATE_LIMITED с details.retryAfter.
	CheckAppQuota(ctx context.Context, signerID, endpoint string) *entity.CanonicalError
	// CheckPlatformLimit проверяет последний известный лимит платформы для цели.
	// Выполняется для каждой цели. Исчерпание — RATE_LIMITED только для этой цели.
	CheckPlatformLimit(ctx context.Context, target entity.Target, endpoint string) *entity.CanonicalError
	// ConsumeQuota увеличивает счетчик использования ровно один раз на запрос.
	// Ошибки хранилища логируются и не прерывают раздачу.
	ConsumeQuota(ctx context.Context, signerID, endpoint string)
}
