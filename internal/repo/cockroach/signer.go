package cockroach

import (
	"database/sql"
	"errors"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SignerDB struct {
	db *sqlx.DB
}

func NewSigner(db *sqlx.DB) repo.Signer {
	return &SignerDB{db: db}
}

func (s *SignerDB) AddSigner(signer *entity.Signer) (string, error) {
	id := uuid.New().String()
	query := `INSERT INTO signer (id, name, secret_hash, created_at) VALUES ($1, $2, $3, now())`
	if _, err := s.db.Exec(query, id, signer.Name, signer.SecretHash); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SignerDB) GetSigner(signerID string) (*entity.Signer, error) {
	signer := &entity.Signer{}
	query := `SELECT id, name, secret_hash, created_at FROM signer WHERE id = $1`
	if err := s.db.Get(signer, query, signerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrSignerNotFound
		}
		return nil, err
	}
	return signer, nil
}
