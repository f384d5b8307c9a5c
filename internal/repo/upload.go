package repo

import (
	"errors"

	"crosspost-backend/internal/entity"
)

var ErrUploadNotFound = errors.New("upload not found")

type Upload interface {
	// GetUpload возвращает загрузку по ID, включая файл
	GetUpload(id int) (*entity.Upload, error)
	// GetUploadInfo возвращает информацию о загрузке по ID, не включая файл
	GetUploadInfo(id int) (*entity.Upload, error)
	// UploadFile загружает файл
	UploadFile(upload *entity.Upload) (int, error)
}
