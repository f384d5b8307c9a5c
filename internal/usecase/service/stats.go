package service

import (
	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"
)

const defaultTopAccountsLimit = 10

type Stats struct {
	statsRepo repo.Stats
}

func NewStats(statsRepo repo.Stats) usecase.Stats {
	return &Stats{statsRepo: statsRepo}
}

func (s *Stats) AccountStats(platform entity.Platform, userID string) (*entity.AccountStats, error) {
	if !platform.IsSupported() {
		return nil, usecase.ErrUnsupportedPlatform
	}
	return s.statsRepo.GetAccountStats(platform, userID)
}

func (s *Stats) TopAccounts(limit int) ([]*entity.AccountStats, error) {
	if limit <= 0 {
		limit = defaultTopAccountsLimit
	}
	return s.statsRepo.TopAccounts(limit)
}
