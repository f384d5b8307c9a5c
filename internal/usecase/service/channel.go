package service

import (
	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"
)

type Channel struct {
	channelRepo repo.Channel
}

func NewChannel(channelRepo repo.Channel) usecase.Channel {
	return &Channel{channelRepo: channelRepo}
}

func (ch *Channel) LinkTG(channel *entity.TGChannel) error {
	if channel.ChatID == 0 {
		return usecase.ErrChatIDIsRequired
	}
	return ch.channelRepo.AddTGChannel(channel)
}

func (ch *Channel) LinkVK(channel *entity.VKChannel) error {
	if channel.GroupID == 0 {
		return usecase.ErrGroupIDIsRequired
	}
	if channel.AdminAPIKey == "" {
		return usecase.ErrAPIKeyIsRequired
	}
	return ch.channelRepo.AddVKChannel(channel)
}

func (ch *Channel) LinkTwitter(account *entity.TwitterAccount) error {
	if account.AccountID == "" {
		return usecase.ErrAccountIDIsRequired
	}
	if account.AccessToken == "" {
		return usecase.ErrAccessTokenIsRequired
	}
	return ch.channelRepo.AddTwitterAccount(account)
}
