package service

import (
	"errors"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"

	"golang.org/x/crypto/bcrypt"
)

type Signer struct {
	signerRepo repo.Signer
}

func NewSigner(signerRepo repo.Signer) usecase.Signer {
	return &Signer{signerRepo: signerRepo}
}

func (s *Signer) Register(request *entity.RegisterSignerRequest) (string, error) {
	if request.Name == "" {
		return "", usecase.ErrSignerNameIsRequired
	}
	if len(request.Secret) < 16 {
		return "", usecase.ErrSecretTooShort
	}
	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(request.Secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return s.signerRepo.AddSigner(&entity.Signer{
		Name:       request.Name,
		SecretHash: string(hashedSecret),
	})
}

func (s *Signer) Login(request *entity.LoginSignerRequest) (string, error) {
	signer, err := s.signerRepo.GetSigner(request.SignerID)
	if err != nil {
		if errors.Is(err, repo.ErrSignerNotFound) {
			return "", repo.ErrInvalidSecret
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(signer.SecretHash), []byte(request.Secret)); err != nil {
		return "", repo.ErrInvalidSecret
	}
	return signer.ID, nil
}

func (s *Signer) GetSigner(signerID string) (*entity.Signer, error) {
	return s.signerRepo.GetSigner(signerID)
}
