package http

import (
	"net/http"

	"crosspost-backend/internal/delivery/http/utils"
	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

type Channel struct {
	channelUseCase usecase.Channel
	authManager    utils.Auth
}

func NewChannel(channelUseCase usecase.Channel, authManager utils.Auth) *Channel {
	return &Channel{
		channelUseCase: channelUseCase,
		authManager:    authManager,
	}
}

func (ch *Channel) Configure(server *echo.Group) {
	server.PUT("/tg", ch.LinkTG)
	server.PUT("/vk", ch.LinkVK)
	server.PUT("/twitter", ch.LinkTwitter)
}

type linkTGRequest struct {
	UserID string `json:"user_id"`
	ChatID int64  `json:"chat_id"`
}

func (ch *Channel) LinkTG(c echo.Context) error {
	if _, err := ch.authManager.CheckAuthFromContext(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &linkTGRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	err := ch.channelUseCase.LinkTG(&entity.TGChannel{
		UserID: request.UserID,
		ChatID: request.ChatID,
	})
	if err != nil {
		return linkError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

type linkVKRequest struct {
	UserID      string `json:"user_id"`
	GroupID     int    `json:"group_id"`
	AdminAPIKey string `json:"admin_api_key"`
}

func (ch *Channel) LinkVK(c echo.Context) error {
	if _, err := ch.authManager.CheckAuthFromContext(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &linkVKRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	err := ch.channelUseCase.LinkVK(&entity.VKChannel{
		UserID:      request.UserID,
		GroupID:     request.GroupID,
		AdminAPIKey: request.AdminAPIKey,
	})
	if err != nil {
		return linkError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

type linkTwitterRequest struct {
	UserID      string `json:"user_id"`
	AccountID   string `json:"account_id"`
	AccessToken string `json:"access_token"`
}

func (ch *Channel) LinkTwitter(c echo.Context) error {
	if _, err := ch.authManager.CheckAuthFromContext(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	request := &linkTwitterRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	err := ch.channelUseCase.LinkTwitter(&entity.TwitterAccount{
		UserID:      request.UserID,
		AccountID:   request.AccountID,
		AccessToken: request.AccessToken,
	})
	if err != nil {
		return linkError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func linkError(c echo.Context, err error) error {
	switch err {
	case usecase.ErrChatIDIsRequired,
		usecase.ErrGroupIDIsRequired,
		usecase.ErrAPIKeyIsRequired,
		usecase.ErrAccountIDIsRequired,
		usecase.ErrAccessTokenIsRequired:
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": err.Error(),
	})
}
