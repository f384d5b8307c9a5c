package service

import (
	"strings"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"
)

// maxUploadSize совпадает с BodyLimit на шлюзе
const maxUploadSize = 10 << 20

type Upload struct {
	uploadRepo repo.Upload
}

func NewUpload(uploadRepo repo.Upload) usecase.Upload {
	return &Upload{uploadRepo: uploadRepo}
}

func (u *Upload) UploadFile(upload *entity.Upload) (int, error) {
	if upload.RawBytes == nil {
		return 0, usecase.ErrUploadFileIsRequired
	}
	if upload.Size > maxUploadSize {
		return 0, usecase.ErrFileIsTooBig
	}
	// платформы умеют публиковать только фото и видео
	if !strings.HasPrefix(upload.FileType, "photo") && !strings.HasPrefix(upload.FileType, "video") {
		return 0, usecase.ErrUnsupportedFileType
	}
	return u.uploadRepo.UploadFile(upload)
}

func (u *Upload) GetUploadInfo(uploadID int) (*entity.Upload, error) {
	return u.uploadRepo.GetUploadInfo(uploadID)
}
