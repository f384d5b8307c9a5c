package repo

import (
	"context"
	"errors"

	"crosspost-backend/internal/entity"
)

var ErrUsageNotFound = errors.New("usage record not found")

// Usage — хранилище счетчиков использования эндпоинтов подписантами.
// Инкремент обязан быть атомарным на стороне хранилища: конкурентные запросы
// одного подписанта не должны терять обновления.
type Usage interface {
	// Get возвращает текущий счетчик или ErrUsageNotFound, если окно еще не открыто
	Get(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error)
	// Increment атомарно увеличивает счетчик и возвращает новое значение.
	// Если окно истекло или не существует, открывает новое суточное окно со счетчиком 1.
	Increment(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error)
}
