package cockroach

import (
	"database/sql"
	"errors"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type RateLimitDB struct {
	db *sqlx.DB
}

func NewRateLimit(db *sqlx.DB) repo.RateLimit {
	return &RateLimitDB{db: db}
}

func (r *RateLimitDB) GetStatus(platform entity.Platform, userID, endpoint string) (*entity.RateLimitStatus, error) {
	query, args, err := sq.Select("platform", "user_id", "endpoint", "limit_total", "remaining", "reset_at", "reset_seconds").
		From("platform_rate_limit").
		Where(sq.Eq{"platform": string(platform), "user_id": userID, "endpoint": endpoint}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	status := &entity.RateLimitStatus{}
	if err := r.db.Get(status, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrRateLimitUnknown
		}
		return nil, err
	}
	return status, nil
}

func (r *RateLimitDB) SaveStatus(status *entity.RateLimitStatus) error {
	query := `
		INSERT INTO platform_rate_limit (platform, user_id, endpoint, limit_total, remaining, reset_at, reset_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (platform, user_id, endpoint) DO UPDATE SET
			limit_total = $4,
			remaining = $5,
			reset_at = $6,
			reset_seconds = $7
	`
	_, err := r.db.Exec(query,
		string(status.Platform),
		status.UserID,
		status.Endpoint,
		status.Limit,
		status.Remaining,
		status.Reset,
		status.ResetSeconds,
	)
	return err
}
