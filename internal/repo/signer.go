package repo

import (
	"errors"

	"crosspost-backend/internal/entity"
)

var (
	ErrSignerNotFound = errors.New("signer not found")
	ErrInvalidSecret  = errors.New("invalid secret")
)

// Signer — хранилище зарегистрированных подписантов (внешних приложений)
type Signer interface {
	// AddSigner добавляет подписанта и возвращает его идентификатор
	AddSigner(signer *entity.Signer) (string, error)
	// GetSigner возвращает подписанта по ID или ErrSignerNotFound
	GetSigner(signerID string) (*entity.Signer, error)
}
