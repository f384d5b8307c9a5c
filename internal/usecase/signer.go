package usecase

import (
	"errors"

	"crosspost-backend/internal/entity"
)

var (
	ErrSignerNameIsRequired = errors.New("signer name is required")
	ErrSecretTooShort       = errors.New("secret too short, minimum length is 16 characters")
)

type Signer interface {
	// Register регистрирует подписанта и возвращает его идентификатор
	Register(request *entity.RegisterSignerRequest) (string, error)
	// Login проверяет секрет и возвращает идентификатор подписанта
	Login(request *entity.LoginSignerRequest) (string, error)
	// GetSigner возвращает профиль подписанта
	GetSigner(signerID string) (*entity.Signer, error)
}
