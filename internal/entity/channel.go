package entity

import "time"

// TGChannel — привязка аккаунта к каналу Telegram
type TGChannel struct {
	UserID      string    `db:"user_id"`
	ChatID      int64     `db:"chat_id"`
	LastUpdated time.Time `db:"last_updated_timestamp"`
}

// VKChannel — привязка аккаунта к группе ВКонтакте
type VKChannel struct {
	UserID      string    `db:"user_id"`
	GroupID     int       `db:"group_id"`
	AdminAPIKey string    `db:"admin_api_key"`
	LastUpdated time.Time `db:"last_updated_timestamp"`
}

// TwitterAccount — привязка аккаунта к профилю Twitter
type TwitterAccount struct {
	UserID      string    `db:"user_id"`
	AccountID   string    `db:"account_id"`
	AccessToken string    `db:"access_token"`
	LastUpdated time.Time `db:"last_updated_timestamp"`
}
