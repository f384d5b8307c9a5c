package service

import (
	"context"
	"errors"
	"time"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"
	"crosspost-backend/pkg/retry"

	"github.com/labstack/gommon/log"
)

// RateLimitGate проверяет две независимые квоты: суточную квоту приложения
// на пару (подписант, эндпоинт) и последний известный лимит самой платформы
// на пару (платформа, аккаунт).
type RateLimitGate struct {
	usageRepo     repo.Usage
	rateLimitRepo repo.RateLimit
	dailyQuota    int
}

func NewRateLimitGate(usageRepo repo.Usage, rateLimitRepo repo.RateLimit, dailyQuota int) usecase.RateLimitGate {
	return &RateLimitGate{
		usageRepo:     usageRepo,
		rateLimitRepo: rateLimitRepo,
		dailyQuota:    dailyQuota,
	}
}

// CheckAppQuota выполняется один раз на запрос, до любой раздачи.
// Превышение квоты прерывает весь запрос целиком.
func (g *RateLimitGate) CheckAppQuota(ctx context.Context, signerID, endpoint string) *entity.CanonicalError {
	record, err := g.usageRepo.Get(ctx, signerID, endpoint)
	if err != nil {
		if errors.Is(err, repo.ErrUsageNotFound) {
			// окно еще не открыто — квота точно не исчерпана
			return nil
		}
		log.Errorf("error reading usage for signer %s: %v", signerID, err)
		return entity.NewCanonicalError(entity.ErrCodeInternal, "usage store unavailable", 500, true, nil)
	}
	if record.Count >= g.dailyQuota {
		rateErr := entity.NewRateLimitedError("daily app quota exceeded", record.ResetSeconds(time.Now()))
		rateErr.Details["endpoint"] = endpoint
		return rateErr
	}
	return nil
}

// CheckPlatformLimit выполняется для каждой цели. Исчерпанный лимит платформы
// отсекает только эту цель, остальные цели запроса не затрагиваются.
func (g *RateLimitGate) CheckPlatformLimit(ctx context.Context, target entity.Target, endpoint string) *entity.CanonicalError {
	status, err := g.rateLimitRepo.GetStatus(target.Platform, target.UserID, endpoint)
	if err != nil {
		if !errors.Is(err, repo.ErrRateLimitUnknown) {
			log.Errorf("error reading rate limit snapshot for %s/%s: %v", target.Platform, target.UserID, err)
		}
		// нет данных о лимите — пропускаем цель, платформа сама откажет при необходимости
		return nil
	}
	if status.Remaining > 0 {
		return nil
	}
	// окно лимита уже закрылось — снимок устарел, платформа могла выдать
	// новое окно; цель пропускаем, иначе исчерпанный снимок никогда не обновится
	if !status.Reset.After(time.Now()) {
		return nil
	}
	retryAfter := status.ResetSeconds
	if retryAfter <= 0 {
		retryAfter = int(time.Until(status.Reset).Seconds())
	}
	rateErr := entity.NewRateLimitedError("platform rate limit exhausted", retryAfter)
	rateErr.Details["platform"] = string(target.Platform)
	rateErr.Details["userId"] = target.UserID
	rateErr.Details["endpoint"] = endpoint
	return rateErr
}

// ConsumeQuota увеличивает счетчик использования ровно один раз на запрос.
// Счетчик — единственное разделяемое состояние раздачи, его атомарность
// обеспечивает само хранилище.
func (g *RateLimitGate) ConsumeQuota(ctx context.Context, signerID, endpoint string) {
	err := retry.Retry(func() error {
		_, err := g.usageRepo.Increment(ctx, signerID, endpoint)
		return err
	})
	if err != nil {
		log.Errorf("error incrementing usage for signer %s: %v", signerID, err)
	}
}
