package cockroach

import (
	"database/sql"
	"errors"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"

	"github.com/jmoiron/sqlx"
)

type ChannelDB struct {
	db *sqlx.DB
}

func NewChannel(db *sqlx.DB) repo.Channel {
	return &ChannelDB{db: db}
}

func (c *ChannelDB) GetTGChannel(userID string) (*entity.TGChannel, error) {
	channel := &entity.TGChannel{}
	query := `SELECT user_id, chat_id, last_updated_timestamp FROM tg_channel WHERE user_id = $1`
	if err := c.db.Get(channel, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrChannelNotFound
		}
		return nil, err
	}
	return channel, nil
}

func (c *ChannelDB) AddTGChannel(channel *entity.TGChannel) error {
	query := `
		INSERT INTO tg_channel (user_id, chat_id, last_updated_timestamp)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET chat_id = $2, last_updated_timestamp = now()
	`
	_, err := c.db.Exec(query, channel.UserID, channel.ChatID)
	return err
}

func (c *ChannelDB) GetVKChannel(userID string) (*entity.VKChannel, error) {
	channel := &entity.VKChannel{}
	query := `SELECT user_id, group_id, admin_api_key, last_updated_timestamp FROM vk_channel WHERE user_id = $1`
	if err := c.db.Get(channel, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrChannelNotFound
		}
		return nil, err
	}
	return channel, nil
}

func (c *ChannelDB) AddVKChannel(channel *entity.VKChannel) error {
	query := `
		INSERT INTO vk_channel (user_id, group_id, admin_api_key, last_updated_timestamp)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET group_id = $2, admin_api_key = $3, last_updated_timestamp = now()
	`
	_, err := c.db.Exec(query, channel.UserID, channel.GroupID, channel.AdminAPIKey)
	return err
}

func (c *ChannelDB) GetTwitterAccount(userID string) (*entity.TwitterAccount, error) {
	account := &entity.TwitterAccount{}
	query := `SELECT user_id, account_id, access_token, last_updated_timestamp FROM twitter_account WHERE user_id = $1`
	if err := c.db.Get(account, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrChannelNotFound
		}
		return nil, err
	}
	return account, nil
}

func (c *ChannelDB) AddTwitterAccount(account *entity.TwitterAccount) error {
	query := `
		INSERT INTO twitter_account (user_id, account_id, access_token, last_updated_timestamp)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET account_id = $2, access_token = $3, last_updated_timestamp = now()
	`
	_, err := c.db.Exec(query, account.UserID, account.AccountID, account.AccessToken)
	return err
}
