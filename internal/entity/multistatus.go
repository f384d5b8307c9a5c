package entity

// DispatchOutcome — результат операции для одной цели: либо Result, либо Err
type DispatchOutcome struct {
	Platform Platform
	UserID   string
	Result   *PlatformPostResult
	Err      *CanonicalError
}

// Succeeded возвращает true, если цель обработана успешно
func (o *DispatchOutcome) Succeeded() bool {
	return o.Err == nil
}

// NewSuccessOutcome создает успешный результат для цели
func NewSuccessOutcome(target Target, result *PlatformPostResult) *DispatchOutcome {
	return &DispatchOutcome{
		Platform: target.Platform,
		UserID:   target.UserID,
		Result:   result,
	}
}

// NewFailureOutcome создает неуспешный результат для цели
func NewFailureOutcome(target Target, err *CanonicalError) *DispatchOutcome {
	return &DispatchOutcome{
		Platform: target.Platform,
		UserID:   target.UserID,
		Err:      err,
	}
}

type MultiStatusSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// MultiStatusData — агрегированный ответ по всем целям одного запроса.
// Инварианты: Summary.Total == Succeeded + Failed,
// len(Results) == Succeeded, len(Errors) == Failed.
type MultiStatusData struct {
	Summary MultiStatusSummary    `json:"summary"`
	Results []*PlatformPostResult `json:"results"`
	Errors  []*CanonicalError     `json:"errors"`
}
