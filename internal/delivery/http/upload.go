package http

import (
	"errors"
	"net/http"
	"path/filepath"

	"crosspost-backend/internal/delivery/http/utils"
	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Upload struct {
	uploadUseCase usecase.Upload
	authManager   utils.Auth
}

func NewUpload(uploadUseCase usecase.Upload, authManager utils.Auth) *Upload {
	return &Upload{
		uploadUseCase: uploadUseCase,
		authManager:   authManager,
	}
}

func (u *Upload) Configure(server *echo.Group) {
	server.POST("/add", u.AddUpload)
}

func (u *Upload) AddUpload(c echo.Context) error {
	signerID, err := u.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Файл не найден в запросе",
		})
	}
	fileType := c.FormValue("file_type")

	source, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	defer func() { _ = source.Close() }()

	upload := &entity.Upload{
		RawBytes: source,
		Size:     file.Size,
		// к имени файла добавляется uuid, чтобы загрузки не перетирали друг друга
		FilePath: uuid.New().String() + filepath.Ext(file.Filename),
		FileType: fileType,
		SignerID: signerID,
	}
	uploadID, err := u.uploadUseCase.UploadFile(upload)
	if err != nil {
		if errors.Is(err, usecase.ErrUnsupportedFileType) || errors.Is(err, usecase.ErrUploadFileIsRequired) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": err.Error(),
			})
		}
		if errors.Is(err, usecase.ErrFileIsTooBig) {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"media_id": uploadID,
	})
}
