package cockroach

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// UsageDB — резервное хранилище счетчиков использования поверх CockroachDB.
// Основное хранилище — redis; это используется, когда redis не сконфигурирован.
type UsageDB struct {
	db *sqlx.DB
}

func NewUsage(db *sqlx.DB) repo.Usage {
	return &UsageDB{db: db}
}

func (u *UsageDB) Get(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error) {
	query, args, err := sq.Select("signer_id", "endpoint", "count", "reset_at").
		From("app_usage").
		Where(sq.Eq{"signer_id": signerID, "endpoint": endpoint}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	record := &entity.UsageRecord{}
	if err := u.db.GetContext(ctx, record, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrUsageNotFound
		}
		return nil, err
	}
	// истекшее окно равносильно отсутствию записи
	if !record.ResetAt.After(time.Now()) {
		return nil, repo.ErrUsageNotFound
	}
	return record, nil
}

func (u *UsageDB) Increment(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error) {
	// атомарный upsert: конкурентные инкременты не теряются, истекшее окно
	// открывается заново со счетчиком 1
	query := `
		INSERT INTO app_usage (signer_id, endpoint, count, reset_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (signer_id, endpoint) DO UPDATE SET
			count = CASE WHEN app_usage.reset_at <= now() THEN 1 ELSE app_usage.count + 1 END,
			reset_at = CASE WHEN app_usage.reset_at <= now() THEN $3 ELSE app_usage.reset_at END
		RETURNING signer_id, endpoint, count, reset_at
	`
	record := &entity.UsageRecord{}
	err := u.db.GetContext(ctx, record, query, signerID, endpoint, nextDailyReset(time.Now()))
	if err != nil {
		return nil, err
	}
	return record, nil
}

// nextDailyReset возвращает ближайшую полночь UTC
func nextDailyReset(now time.Time) time.Time {
	year, month, day := now.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}
