package service

import (
	"strings"
	"testing"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockSignerRepo struct {
	addFn func(signer *entity.Signer) (string, error)
	getFn func(signerID string) (*entity.Signer, error)
}

func (m *mockSignerRepo) AddSigner(signer *entity.Signer) (string, error) {
	if m.addFn != nil {
		return m.addFn(signer)
	}
	return "signer1", nil
}

func (m *mockSignerRepo) GetSigner(signerID string) (*entity.Signer, error) {
	if m.getFn != nil {
		return m.getFn(signerID)
	}
	return nil, repo.ErrSignerNotFound
}

func TestSignerRegisterRequiresName(t *testing.T) {
	signerUseCase := NewSigner(&mockSignerRepo{})
	_, err := signerUseCase.Register(&entity.RegisterSignerRequest{Secret: strings.Repeat("s", 16)})
	assert.ErrorIs(t, err, usecase.ErrSignerNameIsRequired)
}

func TestSignerRegisterRequiresLongSecret(t *testing.T) {
	signerUseCase := NewSigner(&mockSignerRepo{})
	_, err := signerUseCase.Register(&entity.RegisterSignerRequest{Name: "app", Secret: "short"})
	assert.ErrorIs(t, err, usecase.ErrSecretTooShort)
}

// в хранилище попадает bcrypt-хеш, а не сам секрет
func TestSignerRegisterHashesSecret(t *testing.T) {
	secret := strings.Repeat("s", 20)
	var stored *entity.Signer
	signerRepo := &mockSignerRepo{
		addFn: func(signer *entity.Signer) (string, error) {
			stored = signer
			return "signer1", nil
		},
	}
	signerUseCase := NewSigner(signerRepo)
	signerID, err := signerUseCase.Register(&entity.RegisterSignerRequest{Name: "app", Secret: secret})
	require.NoError(t, err)
	assert.Equal(t, "signer1", signerID)
	require.NotNil(t, stored)
	assert.NotEqual(t, secret, stored.SecretHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.SecretHash), []byte(secret)))
}

func TestSignerLoginWrongSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(strings.Repeat("s", 20)), bcrypt.MinCost)
	require.NoError(t, err)
	signerRepo := &mockSignerRepo{
		getFn: func(signerID string) (*entity.Signer, error) {
			return &entity.Signer{ID: signerID, SecretHash: string(hash)}, nil
		},
	}
	signerUseCase := NewSigner(signerRepo)
	_, err = signerUseCase.Login(&entity.LoginSignerRequest{SignerID: "signer1", Secret: "wrong"})
	assert.ErrorIs(t, err, repo.ErrInvalidSecret)
}

// неизвестный подписант неотличим от неверного секрета
func TestSignerLoginUnknownSigner(t *testing.T) {
	signerUseCase := NewSigner(&mockSignerRepo{})
	_, err := signerUseCase.Login(&entity.LoginSignerRequest{SignerID: "missing", Secret: "whatever"})
	assert.ErrorIs(t, err, repo.ErrInvalidSecret)
}

func TestSignerLoginOK(t *testing.T) {
	secret := strings.Repeat("s", 20)
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	signerRepo := &mockSignerRepo{
		getFn: func(signerID string) (*entity.Signer, error) {
			return &entity.Signer{ID: signerID, SecretHash: string(hash)}, nil
		},
	}
	signerUseCase := NewSigner(signerRepo)
	signerID, err := signerUseCase.Login(&entity.LoginSignerRequest{SignerID: "signer1", Secret: secret})
	require.NoError(t, err)
	assert.Equal(t, "signer1", signerID)
}
