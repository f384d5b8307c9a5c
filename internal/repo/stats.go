package repo

import "crosspost-backend/internal/entity"

// Stats — накопленная статистика исходов по аккаунтам платформ
type Stats interface {
	// ApplyOutcome увеличивает счетчик успехов или отказов аккаунта
	ApplyOutcome(event *entity.PostOutcomeEvent) error
	// GetAccountStats возвращает статистику аккаунта (нулевую, если записей не было)
	GetAccountStats(platform entity.Platform, userID string) (*entity.AccountStats, error)
	// TopAccounts возвращает аккаунты с наибольшим числом успешных публикаций
	TopAccounts(limit int) ([]*entity.AccountStats, error)
}
