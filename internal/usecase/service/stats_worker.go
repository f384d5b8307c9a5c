package service

import (
	"context"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/pkg/retry"

	"github.com/labstack/gommon/log"
)

// StatsWorker потребляет события об исходах и накапливает статистику аккаунтов.
// Это нижестоящий потребитель результатов раздачи, на сам ответ он не влияет.
type StatsWorker struct {
	outcomeRepo repo.OutcomeEvent
	statsRepo   repo.Stats
}

func NewStatsWorker(outcomeRepo repo.OutcomeEvent, statsRepo repo.Stats) *StatsWorker {
	return &StatsWorker{
		outcomeRepo: outcomeRepo,
		statsRepo:   statsRepo,
	}
}

// Run блокируется до отмены контекста
func (w *StatsWorker) Run(ctx context.Context) error {
	return w.outcomeRepo.Subscribe(ctx, func(event *entity.PostOutcomeEvent) error {
		err := retry.Retry(func() error {
			return w.statsRepo.ApplyOutcome(event)
		})
		if err != nil {
			log.Errorf("error applying outcome %s: %v", event.EventID, err)
			return err
		}
		return nil
	})
}
