package http

import (
	"errors"
	"net/http"

	"crosspost-backend/internal/delivery/http/utils"
	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

type Post struct {
	authManager utils.Auth
	dispatcher  usecase.Dispatcher
}

func NewPost(authManager utils.Auth, dispatcher usecase.Dispatcher) *Post {
	return &Post{
		authManager: authManager,
		dispatcher:  dispatcher,
	}
}

func (p *Post) Configure(server *echo.Group) {
	server.POST("/add", p.handle(entity.OpCreatePost))
	server.POST("/repost", p.handle(entity.OpRepost))
	server.POST("/quote", p.handle(entity.OpQuotePost))
	server.POST("/reply", p.handle(entity.OpReplyToPost))
	server.POST("/like", p.handle(entity.OpLikePost))
	server.POST("/unlike", p.handle(entity.OpUnlikePost))
	server.POST("/delete", p.handle(entity.OpDeletePost))
}

// handle возвращает обработчик одной операции. Все операции проходят через
// один и тот же конвейер раздачи и отличаются только именем операции.
func (p *Post) handle(operation entity.Operation) echo.HandlerFunc {
	return func(c echo.Context) error {
		signerID, err := p.authManager.CheckAuthFromContext(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "Пользователь не авторизован",
			})
		}

		request := &entity.PostRequest{}
		if err := utils.ReadJSON(c, request); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "Неверный формат запроса",
			})
		}
		request.SignerID = signerID
		request.Operation = operation

		data, status, err := p.dispatcher.Dispatch(c.Request().Context(), request)
		if err != nil {
			// отказ до раздачи: валидация или квота приложения
			var canonicalErr *entity.CanonicalError
			if errors.As(err, &canonicalErr) {
				return utils.WriteCanonicalError(c, canonicalErr)
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": err.Error(),
			})
		}
		return utils.WriteMultiStatus(c, status, data)
	}
}
