package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"

	"github.com/redis/go-redis/v9"
)

// UsageRedis — основное хранилище счетчиков использования.
// Атомарность инкремента обеспечивает INCR, суточное окно — EXPIREAT.
type UsageRedis struct {
	client *redis.Client
}

func NewUsage(client *redis.Client) repo.Usage {
	return &UsageRedis{client: client}
}

func usageKey(signerID, endpoint string) string {
	return fmt.Sprintf("usage:%s:%s", signerID, endpoint)
}

func (u *UsageRedis) Get(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error) {
	key := usageKey(signerID, endpoint)
	count, err := u.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repo.ErrUsageNotFound
		}
		return nil, err
	}
	ttl, err := u.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if ttl < 0 {
		// ключ без TTL: окно уже должно было закрыться
		return nil, repo.ErrUsageNotFound
	}
	return &entity.UsageRecord{
		SignerID: signerID,
		Endpoint: endpoint,
		Count:    count,
		ResetAt:  time.Now().Add(ttl),
	}, nil
}

func (u *UsageRedis) Increment(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error) {
	key := usageKey(signerID, endpoint)
	count, err := u.client.Incr(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	resetAt := nextDailyReset(time.Now())
	if count == 1 {
		// первое обращение в окне задает срок его жизни
		if err := u.client.ExpireAt(ctx, key, resetAt).Err(); err != nil {
			return nil, err
		}
	} else if ttl, err := u.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		resetAt = time.Now().Add(ttl)
	}
	return &entity.UsageRecord{
		SignerID: signerID,
		Endpoint: endpoint,
		Count:    int(count),
		ResetAt:  resetAt,
	}, nil
}

// nextDailyReset возвращает ближайшую полночь UTC
func nextDailyReset(now time.Time) time.Time {
	year, month, day := now.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}
