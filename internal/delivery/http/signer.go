package http

import (
	"errors"
	"net/http"

	"crosspost-backend/internal/delivery/http/utils"
	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

type Signer struct {
	signerUseCase usecase.Signer
	authManager   utils.Auth
}

func NewSigner(signerUseCase usecase.Signer, authManager utils.Auth) *Signer {
	return &Signer{
		signerUseCase: signerUseCase,
		authManager:   authManager,
	}
}

func (s *Signer) Configure(server *echo.Group) {
	server.POST("/register", s.Register)
	server.POST("/login", s.Login)
	server.GET("/me", s.Me)
}

func (s *Signer) Register(c echo.Context) error {
	request := &entity.RegisterSignerRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	signerID, err := s.signerUseCase.Register(request)
	if err != nil {
		if errors.Is(err, usecase.ErrSignerNameIsRequired) || errors.Is(err, usecase.ErrSecretTooShort) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"signer_id": signerID,
	})
}

func (s *Signer) Login(c echo.Context) error {
	request := &entity.LoginSignerRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	signerID, err := s.signerUseCase.Login(request)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidSecret) {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "Неверный идентификатор или секрет",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	token, err := s.authManager.CreateToken(signerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"token":  token,
	})
}

func (s *Signer) Me(c echo.Context) error {
	signerID, err := s.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	signer, err := s.signerUseCase.GetSigner(signerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, signer)
}
