package service

import (
	"bytes"
	"testing"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFileRepo struct {
	mockUploadRepo
	uploadFn func(upload *entity.Upload) (int, error)
}

func (m *mockFileRepo) UploadFile(upload *entity.Upload) (int, error) {
	if m.uploadFn != nil {
		return m.uploadFn(upload)
	}
	return 1, nil
}

func TestUploadFileRequiresBytes(t *testing.T) {
	uploadUseCase := NewUpload(&mockFileRepo{})
	_, err := uploadUseCase.UploadFile(&entity.Upload{FileType: "photo"})
	assert.ErrorIs(t, err, usecase.ErrUploadFileIsRequired)
}

func TestUploadFileRejectsUnknownType(t *testing.T) {
	uploadUseCase := NewUpload(&mockFileRepo{})
	_, err := uploadUseCase.UploadFile(&entity.Upload{
		RawBytes: bytes.NewBufferString("data"),
		FileType: "document",
	})
	assert.ErrorIs(t, err, usecase.ErrUnsupportedFileType)
}

// файл крупнее лимита тела запроса отклоняется до обращения к хранилищу
func TestUploadFileRejectsTooBig(t *testing.T) {
	repoCalled := false
	uploadUseCase := NewUpload(&mockFileRepo{
		uploadFn: func(upload *entity.Upload) (int, error) {
			repoCalled = true
			return 1, nil
		},
	})
	_, err := uploadUseCase.UploadFile(&entity.Upload{
		RawBytes: bytes.NewBufferString("data"),
		FileType: "photo",
		Size:     maxUploadSize + 1,
	})
	assert.ErrorIs(t, err, usecase.ErrFileIsTooBig)
	assert.False(t, repoCalled)
}

func TestUploadFileOK(t *testing.T) {
	uploadUseCase := NewUpload(&mockFileRepo{
		uploadFn: func(upload *entity.Upload) (int, error) {
			return 7, nil
		},
	})
	id, err := uploadUseCase.UploadFile(&entity.Upload{
		RawBytes: bytes.NewBufferString("data"),
		FileType: "video",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}
