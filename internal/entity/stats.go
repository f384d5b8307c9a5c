package entity

import "time"

// AccountStats — накопленная статистика успехов и отказов по аккаунту платформы
type AccountStats struct {
	Platform  Platform  `json:"platform" db:"platform"`
	UserID    string    `json:"user_id" db:"user_id"`
	Succeeded int       `json:"succeeded" db:"succeeded"`
	Failed    int       `json:"failed" db:"failed"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
