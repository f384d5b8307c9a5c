package usecase

import (
	"errors"

	"crosspost-backend/internal/entity"
)

var (
	ErrFileIsTooBig         = errors.New("file is too big")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrUploadFileIsRequired = errors.New("upload file is required")
)

type Upload interface {
	// UploadFile загружает файл и возвращает его идентификатор
	UploadFile(upload *entity.Upload) (int, error)
	// GetUploadInfo возвращает информацию о загрузке без содержимого
	GetUploadInfo(uploadID int) (*entity.Upload, error)
}
