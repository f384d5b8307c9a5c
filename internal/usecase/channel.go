package usecase

import (
	"errors"

	"crosspost-backend/internal/entity"
)

var (
	ErrChatIDIsRequired      = errors.New("chat id is required")
	ErrGroupIDIsRequired     = errors.New("group id is required")
	ErrAPIKeyIsRequired      = errors.New("admin api key is required")
	ErrAccountIDIsRequired   = errors.New("account id is required")
	ErrAccessTokenIsRequired = errors.New("access token is required")
)

// Channel управляет привязками аккаунтов к каналам и профилям платформ
type Channel interface {
	LinkTG(channel *entity.TGChannel) error
	LinkVK(channel *entity.VKChannel) error
	LinkTwitter(account *entity.TwitterAccount) error
}
