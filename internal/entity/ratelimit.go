package entity

import "time"

// UsageRecord — счетчик использования эндпоинта подписантом в пределах суточного окна
type UsageRecord struct {
	SignerID string    `db:"signer_id"`
	Endpoint string    `db:"endpoint"`
	Count    int       `db:"count"`
	ResetAt  time.Time `db:"reset_at"`
}

// ResetSeconds возвращает число секунд до сброса окна (не меньше нуля)
func (r *UsageRecord) ResetSeconds(now time.Time) int {
	seconds := int(r.ResetAt.Sub(now).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}

// RateLimitStatus — последний известный снимок лимита, сообщенного платформой.
// Ядро его только читает, записывают снимки сами платформенные реализации.
type RateLimitStatus struct {
	Platform     Platform  `db:"platform"`
	UserID       string    `db:"user_id"`
	Endpoint     string    `db:"endpoint"`
	Limit        int       `db:"limit_total"`
	Remaining    int       `db:"remaining"`
	Reset        time.Time `db:"reset_at"`
	ResetSeconds int       `db:"reset_seconds"`
}
