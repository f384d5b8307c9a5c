package usecase

import (
	"errors"

	"crosspost-backend/internal/entity"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Stats отдает накопленную статистику исходов по аккаунтам платформ
type Stats interface {
	// AccountStats возвращает статистику одного аккаунта
	AccountStats(platform entity.Platform, userID string) (*entity.AccountStats, error)
	// TopAccounts возвращает аккаунты с наибольшим числом успешных публикаций
	TopAccounts(limit int) ([]*entity.AccountStats, error)
}
