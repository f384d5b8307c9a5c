package repo

import (
	"errors"

	"crosspost-backend/internal/entity"
)

var ErrRateLimitUnknown = errors.New("no rate limit snapshot for account")

// RateLimit — хранилище последних известных снимков лимитов платформ.
// Снимки записываются платформенными реализациями после обращений к API,
// ядро их только читает.
type RateLimit interface {
	// GetStatus возвращает последний снимок или ErrRateLimitUnknown
	GetStatus(platform entity.Platform, userID, endpoint string) (*entity.RateLimitStatus, error)
	// SaveStatus сохраняет снимок, перезаписывая предыдущий для той же тройки ключей
	SaveStatus(status *entity.RateLimitStatus) error
}
