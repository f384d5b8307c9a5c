package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/usecase"

	"github.com/SevereCloud/vksdk/v3/api"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NativeErrorMapping — каноническое представление одного нативного кода платформы
type NativeErrorMapping struct {
	Code        entity.ErrorCode
	Status      int
	Recoverable bool
	// Message используется вместо текста исходной ошибки; пустое значение
	// сохраняет исходный текст
	Message string
}

// NativeCodeTable — таблица соответствия нативных кодов платформ канонической
// таксономии. Ключ — "<платформа>:<код>", либо просто "<код>" для кодов,
// одинаковых на всех платформах.
type NativeCodeTable map[string]NativeErrorMapping

// DefaultNativeCodeTable возвращает таблицу для всех поддерживаемых платформ.
// Таблица передается нормализатору при создании и может быть заменена в тестах.
func DefaultNativeCodeTable() NativeCodeTable {
	return NativeCodeTable{
		// Twitter: числовые коды из тела ошибки API
		"twitter:187": {Code: entity.ErrCodeDuplicateContent, Status: http.StatusBadRequest, Recoverable: true, Message: "duplicate content"},
		"twitter:226": {Code: entity.ErrCodeContentPolicy, Status: http.StatusBadRequest, Recoverable: false, Message: "request looks like automation and violates platform policy"},
		"twitter:34":  {Code: entity.ErrCodeNotFound, Status: http.StatusNotFound, Recoverable: false, Message: "resource does not exist"},
		"twitter:144": {Code: entity.ErrCodeNotFound, Status: http.StatusNotFound, Recoverable: false, Message: "post does not exist"},
		"twitter:64":  {Code: entity.ErrCodeForbidden, Status: http.StatusForbidden, Recoverable: false, Message: "account is suspended"},
		"twitter:130": {Code: entity.ErrCodePlatformUnavailable, Status: http.StatusServiceUnavailable, Recoverable: true, Message: "platform is over capacity"},
		"twitter:324": {Code: entity.ErrCodeMediaUpload, Status: http.StatusBadRequest, Recoverable: true, Message: "invalid or too large media"},
		"twitter:89":  {Code: entity.ErrCodeUnauthorized, Status: http.StatusUnauthorized, Recoverable: true, Message: "invalid or expired token"},
		"twitter:88":  {Code: entity.ErrCodeRateLimited, Status: http.StatusTooManyRequests, Recoverable: true, Message: "platform rate limit exceeded"},

		// ВКонтакте: error_code из ответа API
		"vk:5":   {Code: entity.ErrCodeUnauthorized, Status: http.StatusUnauthorized, Recoverable: true, Message: "invalid or expired access token"},
		"vk:6":   {Code: entity.ErrCodeRateLimited, Status: http.StatusTooManyRequests, Recoverable: true, Message: "too many requests per second"},
		"vk:9":   {Code: entity.ErrCodeRateLimited, Status: http.StatusTooManyRequests, Recoverable: true, Message: "flood control"},
		"vk:10":  {Code: entity.ErrCodePlatformUnavailable, Status: http.StatusServiceUnavailable, Recoverable: true, Message: "internal platform error"},
		"vk:15":  {Code: entity.ErrCodeForbidden, Status: http.StatusForbidden, Recoverable: false, Message: "access denied"},
		"vk:18":  {Code: entity.ErrCodeForbidden, Status: http.StatusForbidden, Recoverable: false, Message: "page is deleted or banned"},
		"vk:214": {Code: entity.ErrCodeForbidden, Status: http.StatusForbidden, Recoverable: false, Message: "posting to this wall is denied"},

		// Telegram Bot API: коды совпадают с HTTP-статусами ответа
		"tg:400": {Code: entity.ErrCodePlatform, Status: http.StatusBadRequest, Recoverable: false},
		"tg:401": {Code: entity.ErrCodeUnauthorized, Status: http.StatusUnauthorized, Recoverable: true, Message: "invalid bot token"},
		"tg:403": {Code: entity.ErrCodeForbidden, Status: http.StatusForbidden, Recoverable: false, Message: "bot has no access to the chat"},
		"tg:404": {Code: entity.ErrCodeNotFound, Status: http.StatusNotFound, Recoverable: false, Message: "chat or message not found"},
		"tg:420": {Code: entity.ErrCodeRateLimited, Status: http.StatusTooManyRequests, Recoverable: true, Message: "flood control"},
		"tg:429": {Code: entity.ErrCodeRateLimited, Status: http.StatusTooManyRequests, Recoverable: true, Message: "platform rate limit exceeded"},

		// общие HTTP-статусы: используются, когда платформа не прислала
		// собственный код и реализация подставила статус ответа
		"401": {Code: entity.ErrCodeUnauthorized, Status: http.StatusUnauthorized, Recoverable: true},
		"403": {Code: entity.ErrCodeForbidden, Status: http.StatusForbidden, Recoverable: false},
		"404": {Code: entity.ErrCodeNotFound, Status: http.StatusNotFound, Recoverable: false},
		"429": {Code: entity.ErrCodeRateLimited, Status: http.StatusTooManyRequests, Recoverable: true},
		"500": {Code: entity.ErrCodePlatformUnavailable, Status: http.StatusServiceUnavailable, Recoverable: true},
		"502": {Code: entity.ErrCodePlatformUnavailable, Status: http.StatusServiceUnavailable, Recoverable: true},
		"503": {Code: entity.ErrCodePlatformUnavailable, Status: http.StatusServiceUnavailable, Recoverable: true},
	}
}

// NativeCoder — ошибка платформы, которая сама сообщает свой нативный код
type NativeCoder interface {
	NativeErrorCode() string
}

// retryAfterHinter — ошибка платформы с подсказкой времени повтора
type retryAfterHinter interface {
	RetryAfterSeconds() int
}

const (
	defaultUnknownMessage    = "unknown error during dispatch"
	defaultRetryAfterSeconds = 60
)

// Normalizer приводит любые ошибки платформ к канонической таксономии.
// Таблица кодов — инжектируемая конфигурация, а не глобальное состояние.
type Normalizer struct {
	table NativeCodeTable
}

func NewNormalizer(table NativeCodeTable) usecase.ErrorNormalizer {
	if table == nil {
		table = DefaultNativeCodeTable()
	}
	return &Normalizer{table: table}
}

// Normalize идемпотентна: повторная нормализация канонической ошибки сохраняет
// код и статус, добавляя только недостающие ключи контекста.
func (n *Normalizer) Normalize(value any, platform entity.Platform, userID string) *entity.CanonicalError {
	targetContext := map[string]any{
		"platform": string(platform),
		"userId":   userID,
	}

	err, isErr := value.(error)
	if !isErr || err == nil {
		// значение из recover или nil — фиксированное сообщение по умолчанию
		return entity.NewCanonicalError(entity.ErrCodeUnknown, defaultUnknownMessage, http.StatusInternalServerError, false, targetContext)
	}

	var canonical *entity.CanonicalError
	if errors.As(err, &canonical) {
		return canonical.WithContext(targetContext)
	}

	if code, retryAfter, ok := nativeErrorCode(err); ok {
		if mapping, ok := n.lookup(platform, code); ok {
			details := map[string]any{"nativeErrorCode": code}
			for k, v := range targetContext {
				details[k] = v
			}
			if mapping.Code == entity.ErrCodeRateLimited {
				if retryAfter <= 0 {
					retryAfter = defaultRetryAfterSeconds
				}
				details["retryAfter"] = retryAfter
			}
			message := mapping.Message
			if message == "" {
				message = err.Error()
			}
			return entity.NewCanonicalError(mapping.Code, message, mapping.Status, mapping.Recoverable, details)
		}
	}

	if isNetworkError(err) {
		return entity.NewCanonicalError(entity.ErrCodeNetwork, err.Error(), http.StatusBadGateway, true, targetContext)
	}

	return entity.NewCanonicalError(entity.ErrCodeUnknown, err.Error(), http.StatusInternalServerError, false, targetContext)
}

// lookup сначала ищет код с префиксом платформы, затем общий код
func (n *Normalizer) lookup(platform entity.Platform, code string) (NativeErrorMapping, bool) {
	if mapping, ok := n.table[string(platform)+":"+code]; ok {
		return mapping, true
	}
	mapping, ok := n.table[code]
	return mapping, ok
}

// nativeErrorCode извлекает нативный код платформы из цепочки ошибок.
// Вторым значением возвращается подсказка retry after в секундах, если она есть.
func nativeErrorCode(err error) (string, int, bool) {
	var coder NativeCoder
	if errors.As(err, &coder) {
		retryAfter := 0
		var hinter retryAfterHinter
		if errors.As(err, &hinter) {
			retryAfter = hinter.RetryAfterSeconds()
		}
		return coder.NativeErrorCode(), retryAfter, true
	}

	var vkErrPtr *api.Error
	if errors.As(err, &vkErrPtr) {
		return strconv.Itoa(int(vkErrPtr.Code)), 0, true
	}
	var vkErr api.Error
	if errors.As(err, &vkErr) {
		return strconv.Itoa(int(vkErr.Code)), 0, true
	}

	var tgErrPtr *tgbotapi.Error
	if errors.As(err, &tgErrPtr) {
		return strconv.Itoa(tgErrPtr.Code), tgErrPtr.RetryAfter, true
	}
	var tgErr tgbotapi.Error
	if errors.As(err, &tgErr) {
		return strconv.Itoa(tgErr.Code), tgErr.RetryAfter, true
	}

	return "", 0, false
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
