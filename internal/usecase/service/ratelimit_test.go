package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUsageRepo struct {
	getFn       func(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error)
	incrementFn func(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error)

	incrementCalls int
}

func (m *mockUsageRepo) Get(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error) {
	if m.getFn != nil {
		return m.getFn(ctx, signerID, endpoint)
	}
	return nil, repo.ErrUsageNotFound
}

func (m *mockUsageRepo) Increment(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error) {
	m.incrementCalls++
	if m.incrementFn != nil {
		return m.incrementFn(ctx, signerID, endpoint)
	}
	return &entity.UsageRecord{SignerID: signerID, Endpoint: endpoint, Count: 1}, nil
}

type mockRateLimitRepo struct {
	getStatusFn func(platform entity.Platform, userID, endpoint string) (*entity.RateLimitStatus, error)
	saveCalls   int
}

func (m *mockRateLimitRepo) GetStatus(platform entity.Platform, userID, endpoint string) (*entity.RateLimitStatus, error) {
	if m.getStatusFn != nil {
		return m.getStatusFn(platform, userID, endpoint)
	}
	return nil, repo.ErrRateLimitUnknown
}

func (m *mockRateLimitRepo) SaveStatus(status *entity.RateLimitStatus) error {
	m.saveCalls++
	return nil
}

func TestCheckAppQuotaNoUsageYet(t *testing.T) {
	gate := NewRateLimitGate(&mockUsageRepo{}, &mockRateLimitRepo{}, 300)
	assert.Nil(t, gate.CheckAppQuota(context.Background(), "signer1", "create_post"))
}

func TestCheckAppQuotaUnderLimit(t *testing.T) {
	usageRepo := &mockUsageRepo{
		getFn: func(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error) {
			return &entity.UsageRecord{Count: 299, ResetAt: time.Now().Add(time.Hour)}, nil
		},
	}
	gate := NewRateLimitGate(usageRepo, &mockRateLimitRepo{}, 300)
	assert.Nil(t, gate.CheckAppQuota(context.Background(), "signer1", "create_post"))
}

func TestCheckAppQuotaExceeded(t *testing.T) {
	usageRepo := &mockUsageRepo{
		getFn: func(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error) {
			return &entity.UsageRecord{Count: 300, ResetAt: time.Now().Add(time.Hour)}, nil
		},
	}
	gate := NewRateLimitGate(usageRepo, &mockRateLimitRepo{}, 300)
	quotaErr := gate.CheckAppQuota(context.Background(), "signer1", "create_post")
	require.NotNil(t, quotaErr)
	assert.Equal(t, entity.ErrCodeRateLimited, quotaErr.Code)
	assert.Equal(t, http.StatusTooManyRequests, quotaErr.Status)
	assert.Equal(t, "create_post", quotaErr.Details["endpoint"])
	retryAfter, ok := quotaErr.Details["retryAfter"].(int)
	require.True(t, ok)
	assert.Greater(t, retryAfter, 0)
}

func TestCheckAppQuotaStoreUnavailable(t *testing.T) {
	usageRepo := &mockUsageRepo{
		getFn: func(ctx context.Context, signerID, endpoint string) (*entity.UsageRecord, error) {
			return nil, errors.New("connection refused")
		},
	}
	gate := NewRateLimitGate(usageRepo, &mockRateLimitRepo{}, 300)
	quotaErr := gate.CheckAppQuota(context.Background(), "signer1", "create_post")
	require.NotNil(t, quotaErr)
	assert.Equal(t, entity.ErrCodeInternal, quotaErr.Code)
	assert.True(t, quotaErr.Recoverable)
}

// отсутствие снимка лимита платформы пропускает цель
func TestCheckPlatformLimitUnknown(t *testing.T) {
	gate := NewRateLimitGate(&mockUsageRepo{}, &mockRateLimitRepo{}, 300)
	target := entity.Target{Platform: entity.PlatformTwitter, UserID: "u1"}
	assert.Nil(t, gate.CheckPlatformLimit(context.Background(), target, "create_post"))
}

func TestCheckPlatformLimitStoreErrorPassesTarget(t *testing.T) {
	rateLimitRepo := &mockRateLimitRepo{
		getStatusFn: func(platform entity.Platform, userID, endpoint string) (*entity.RateLimitStatus, error) {
			return nil, errors.New("connection refused")
		},
	}
	gate := NewRateLimitGate(&mockUsageRepo{}, rateLimitRepo, 300)
	target := entity.Target{Platform: entity.PlatformTwitter, UserID: "u1"}
	assert.Nil(t, gate.CheckPlatformLimit(context.Background(), target, "create_post"))
}

func TestCheckPlatformLimitRemaining(t *testing.T) {
	rateLimitRepo := &mockRateLimitRepo{
		getStatusFn: func(platform entity.Platform, userID, endpoint string) (*entity.RateLimitStatus, error) {
			return &entity.RateLimitStatus{Remaining: 5}, nil
		},
	}
	gate := NewRateLimitGate(&mockUsageRepo{}, rateLimitRepo, 300)
	target := entity.Target{Platform: entity.PlatformTwitter, UserID: "u1"}
	assert.Nil(t, gate.CheckPlatformLimit(context.Background(), target, "create_post"))
}

func TestCheckPlatformLimitExhausted(t *testing.T) {
	rateLimitRepo := &mockRateLimitRepo{
		getStatusFn: func(platform entity.Platform, userID, endpoint string) (*entity.RateLimitStatus, error) {
			return &entity.RateLimitStatus{
				Platform:     platform,
				UserID:       userID,
				Remaining:    0,
				Reset:        time.Now().Add(2 * time.Minute),
				ResetSeconds: 120,
			}, nil
		},
	}
	gate := NewRateLimitGate(&mockUsageRepo{}, rateLimitRepo, 300)
	target := entity.Target{Platform: entity.PlatformTwitter, UserID: "u1"}
	limitErr := gate.CheckPlatformLimit(context.Background(), target, "create_post")
	require.NotNil(t, limitErr)
	assert.Equal(t, entity.ErrCodeRateLimited, limitErr.Code)
	assert.Equal(t, 120, limitErr.Details["retryAfter"])
	assert.Equal(t, "twitter", limitErr.Details["platform"])
	assert.Equal(t, "u1", limitErr.Details["userId"])
}

// без reset_seconds подсказка вычисляется из времени сброса
func TestCheckPlatformLimitRetryAfterFromReset(t *testing.T) {
	rateLimitRepo := &mockRateLimitRepo{
		getStatusFn: func(platform entity.Platform, userID, endpoint string) (*entity.RateLimitStatus, error) {
			return &entity.RateLimitStatus{Remaining: 0, Reset: time.Now().Add(90 * time.Second)}, nil
		},
	}
	gate := NewRateLimitGate(&mockUsageRepo{}, rateLimitRepo, 300)
	target := entity.Target{Platform: entity.PlatformVkontakte, UserID: "u1"}
	limitErr := gate.CheckPlatformLimit(context.Background(), target, "create_post")
	require.NotNil(t, limitErr)
	retryAfter, ok := limitErr.Details["retryAfter"].(int)
	require.True(t, ok)
	assert.InDelta(t, 89, retryAfter, 2)
}

// закрывшееся окно лимита не блокирует цель: платформа могла выдать новое
// окно, а обновить снимок может только сам вызов capability
func TestCheckPlatformLimitExpiredSnapshotPassesTarget(t *testing.T) {
	rateLimitRepo := &mockRateLimitRepo{
		getStatusFn: func(platform entity.Platform, userID, endpoint string) (*entity.RateLimitStatus, error) {
			return &entity.RateLimitStatus{
				Remaining:    0,
				Reset:        time.Now().Add(-10 * time.Minute),
				ResetSeconds: 60,
			}, nil
		},
	}
	gate := NewRateLimitGate(&mockUsageRepo{}, rateLimitRepo, 300)
	target := entity.Target{Platform: entity.PlatformTwitter, UserID: "u1"}
	assert.Nil(t, gate.CheckPlatformLimit(context.Background(), target, "create_post"))
}

// снимок без времени сброса не дает понять, когда окно закроется — пропускаем
func TestCheckPlatformLimitNoResetTimePassesTarget(t *testing.T) {
	rateLimitRepo := &mockRateLimitRepo{
		getStatusFn: func(platform entity.Platform, userID, endpoint string) (*entity.RateLimitStatus, error) {
			return &entity.RateLimitStatus{Remaining: 0}, nil
		},
	}
	gate := NewRateLimitGate(&mockUsageRepo{}, rateLimitRepo, 300)
	target := entity.Target{Platform: entity.PlatformTelegram, UserID: "u1"}
	assert.Nil(t, gate.CheckPlatformLimit(context.Background(), target, "create_post"))
}

func TestConsumeQuotaIncrementsOnce(t *testing.T) {
	usageRepo := &mockUsageRepo{}
	gate := NewRateLimitGate(usageRepo, &mockRateLimitRepo{}, 300)
	gate.ConsumeQuota(context.Background(), "signer1", "create_post")
	assert.Equal(t, 1, usageRepo.incrementCalls)
}
