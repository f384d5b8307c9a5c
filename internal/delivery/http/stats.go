package http

import (
	"errors"
	"net/http"
	"strconv"

	"crosspost-backend/internal/delivery/http/utils"
	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

type Stats struct {
	statsUseCase usecase.Stats
	authManager  utils.Auth
}

func NewStats(statsUseCase usecase.Stats, authManager utils.Auth) *Stats {
	return &Stats{
		statsUseCase: statsUseCase,
		authManager:  authManager,
	}
}

func (s *Stats) Configure(server *echo.Group) {
	server.GET("/account", s.AccountStats)
	server.GET("/top", s.TopAccounts)
}

func (s *Stats) AccountStats(c echo.Context) error {
	if _, err := s.authManager.CheckAuthFromContext(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	platform := entity.Platform(c.QueryParam("platform"))
	userID := c.QueryParam("user_id")
	stats, err := s.statsUseCase.AccountStats(platform, userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUnsupportedPlatform) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Stats) TopAccounts(c echo.Context) error {
	if _, err := s.authManager.CheckAuthFromContext(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	stats, err := s.statsUseCase.TopAccounts(limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, stats)
}
