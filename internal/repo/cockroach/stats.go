package cockroach

import (
	"database/sql"
	"errors"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type StatsDB struct {
	db *sqlx.DB
}

func NewStats(db *sqlx.DB) repo.Stats {
	return &StatsDB{db: db}
}

func (s *StatsDB) ApplyOutcome(event *entity.PostOutcomeEvent) error {
	succeeded := 0
	failed := 0
	if event.Success {
		succeeded = 1
	} else {
		failed = 1
	}
	query := `
		INSERT INTO account_stats (platform, user_id, succeeded, failed, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (platform, user_id) DO UPDATE SET
			succeeded = account_stats.succeeded + $3,
			failed = account_stats.failed + $4,
			updated_at = now()
	`
	_, err := s.db.Exec(query, string(event.Platform), event.UserID, succeeded, failed)
	return err
}

func (s *StatsDB) GetAccountStats(platform entity.Platform, userID string) (*entity.AccountStats, error) {
	query, args, err := sq.Select("platform", "user_id", "succeeded", "failed", "updated_at").
		From("account_stats").
		Where(sq.Eq{"platform": string(platform), "user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	stats := &entity.AccountStats{}
	if err := s.db.Get(stats, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &entity.AccountStats{Platform: platform, UserID: userID}, nil
		}
		return nil, err
	}
	return stats, nil
}

func (s *StatsDB) TopAccounts(limit int) ([]*entity.AccountStats, error) {
	query, args, err := sq.Select("platform", "user_id", "succeeded", "failed", "updated_at").
		From("account_stats").
		OrderBy("succeeded DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	var stats []*entity.AccountStats
	if err := s.db.Select(&stats, query, args...); err != nil {
		return nil, err
	}
	return stats, nil
}
