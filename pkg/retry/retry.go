package retry

import (
	"time"

	"github.com/labstack/gommon/log"
)

const (
	maxAttempts  = 5
	initialDelay = time.Millisecond * 100
	// Задержка удваивается после каждой неудачной попытки:
	// 100ms, 200ms, 400ms, 800ms, 1600ms, потом завершение.
)

// Retry выполняет операцию с экспоненциальной задержкой между попытками.
// Возвращает nil при первом успехе или последнюю ошибку, если все попытки исчерпаны.
func Retry(operation func() error) error {
	delay := initialDelay
	var err error
	for attempt := 0; ; attempt++ {
		err = operation()
		if err == nil {
			return nil
		}
		if attempt >= maxAttempts {
			return err
		}
		log.Errorf("error during retry %d: %v", attempt, err)
		time.Sleep(delay)
		delay *= 2
	}
}
