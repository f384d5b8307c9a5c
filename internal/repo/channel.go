package repo

import (
	"errors"

	"crosspost-backend/internal/entity"
)

var ErrChannelNotFound = errors.New("channel not found")

// Channel — хранилище привязок аккаунтов к каналам и профилям платформ
type Channel interface {
	// GetTGChannel возвращает канал Telegram для аккаунта или ErrChannelNotFound
	GetTGChannel(userID string) (*entity.TGChannel, error)
	// AddTGChannel добавляет или заменяет привязку канала Telegram
	AddTGChannel(channel *entity.TGChannel) error
	// GetVKChannel возвращает группу ВКонтакте для аккаунта или ErrChannelNotFound
	GetVKChannel(userID string) (*entity.VKChannel, error)
	// AddVKChannel добавляет или заменяет привязку группы ВКонтакте
	AddVKChannel(channel *entity.VKChannel) error
	// GetTwitterAccount возвращает профиль Twitter для аккаунта или ErrChannelNotFound
	GetTwitterAccount(userID string) (*entity.TwitterAccount, error)
	// AddTwitterAccount добавляет или заменяет привязку профиля Twitter
	AddTwitterAccount(account *entity.TwitterAccount) error
}
