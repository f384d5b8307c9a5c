package service

import (
	"net/http"

	"crosspost-backend/internal/entity"
)

// Aggregator сворачивает результаты по целям в единый мульти-статус.
// Отказы целей на этом уровне не исключительны: агрегатор всегда возвращает
// данные и никогда не возвращает ошибку.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate возвращает мульти-статус и общий HTTP-статус классификации:
// все цели успешны — 200; все неуспешны с одним кодом — статус этого кода;
// все неуспешны с разными кодами — 502; смешанный исход — 207.
func (a *Aggregator) Aggregate(outcomes []*entity.DispatchOutcome) (*entity.MultiStatusData, int) {
	data := &entity.MultiStatusData{
		Summary: entity.MultiStatusSummary{Total: len(outcomes)},
		Results: []*entity.PlatformPostResult{},
		Errors:  []*entity.CanonicalError{},
	}

	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			data.Summary.Succeeded++
			data.Results = append(data.Results, outcome.Result)
		} else {
			data.Summary.Failed++
			data.Errors = append(data.Errors, outcome.Err)
		}
	}

	switch {
	case data.Summary.Failed == 0:
		return data, http.StatusOK
	case data.Summary.Succeeded > 0:
		return data, http.StatusMultiStatus
	}

	// все цели неуспешны: при едином коде возвращаем его статус,
	// иначе — обобщенный статус отказа вышестоящих платформ
	uniform := true
	for _, failure := range data.Errors[1:] {
		if failure.Code != data.Errors[0].Code {
			uniform = false
			break
		}
	}
	if uniform {
		return data, data.Errors[0].Status
	}
	return data, http.StatusBadGateway
}
