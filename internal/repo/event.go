package repo

import (
	"context"

	"crosspost-backend/internal/entity"
)

// OutcomeEvent — шина событий об исходах операций
type OutcomeEvent interface {
	// Publish публикует событие
	Publish(ctx context.Context, event *entity.PostOutcomeEvent) error
	// Subscribe читает события и передает их обработчику до отмены контекста.
	// Ошибка обработчика не прерывает чтение: событие логируется и пропускается.
	Subscribe(ctx context.Context, handler func(event *entity.PostOutcomeEvent) error) error
	// Close освобождает ресурсы подключения
	Close() error
}
