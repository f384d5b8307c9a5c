package utils

import (
	"time"

	"crosspost-backend/internal/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Meta — служебная часть конверта ответа
type Meta struct {
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

// ResponseEnvelope — единый конверт всех ответов шлюза
type ResponseEnvelope struct {
	Success bool                     `json:"success"`
	Data    *entity.MultiStatusData  `json:"data,omitempty"`
	Errors  []*entity.CanonicalError `json:"errors,omitempty"`
	Meta    Meta                     `json:"meta"`
}

// WriteMultiStatus пишет мульти-статус с транспортным статусом классификации
func WriteMultiStatus(c echo.Context, status int, data *entity.MultiStatusData) error {
	return c.JSON(status, ResponseEnvelope{
		Success: status < 400,
		Data:    data,
		Meta:    meta(c),
	})
}

// WriteCanonicalError пишет единственную каноническую ошибку (отказ до раздачи)
func WriteCanonicalError(c echo.Context, canonicalErr *entity.CanonicalError) error {
	return c.JSON(canonicalErr.Status, ResponseEnvelope{
		Success: false,
		Errors:  []*entity.CanonicalError{canonicalErr},
		Meta:    meta(c),
	})
}

func meta(c echo.Context) Meta {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return Meta{
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	}
}
