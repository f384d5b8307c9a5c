package entity

import "time"

// PostOutcomeEvent — событие об исходе операции для одной цели.
// Публикуется после агрегации и потребляется статистикой.
type PostOutcomeEvent struct {
	EventID    string    `json:"-" msgpack:"event_id"`
	SignerID   string    `json:"-" msgpack:"signer_id"`
	Operation  Operation `json:"operation" msgpack:"operation"`
	Platform   Platform  `json:"platform" msgpack:"platform"`
	UserID     string    `json:"user_id" msgpack:"user_id"`
	Success    bool      `json:"success" msgpack:"success"`
	ErrorCode  ErrorCode `json:"error_code,omitempty" msgpack:"error_code"`
	PostID     string    `json:"post_id,omitempty" msgpack:"post_id"`
	OccurredAt time.Time `json:"-" msgpack:"occurred_at"`
}
