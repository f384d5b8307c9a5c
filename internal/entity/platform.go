package entity

// Platform — поддерживаемая платформа публикации
type Platform string

const (
	PlatformTelegram  Platform = "tg"
	PlatformVkontakte Platform = "vk"
	PlatformTwitter   Platform = "twitter"
)

// SupportedPlatforms возвращает список всех поддерживаемых платформ
func SupportedPlatforms() []Platform {
	return []Platform{PlatformTelegram, PlatformVkontakte, PlatformTwitter}
}

// IsSupported проверяет, что платформа входит в список поддерживаемых
func (p Platform) IsSupported() bool {
	switch p {
	case PlatformTelegram, PlatformVkontakte, PlatformTwitter:
		return true
	}
	return false
}

// Operation — тип операции над постом, выполняемой на платформах
type Operation string

const (
	OpCreatePost  Operation = "create_post"
	OpRepost      Operation = "repost"
	OpQuotePost   Operation = "quote_post"
	OpReplyToPost Operation = "reply_to_post"
	OpLikePost    Operation = "like_post"
	OpUnlikePost  Operation = "unlike_post"
	OpDeletePost  Operation = "delete_post"
)

// RequiresContent возвращает true, если операция требует непустой контент
func (o Operation) RequiresContent() bool {
	switch o {
	case OpCreatePost, OpQuotePost, OpReplyToPost:
		return true
	}
	return false
}

// RequiresRef возвращает true, если операция требует ссылку на существующий пост
func (o Operation) RequiresRef() bool {
	switch o {
	case OpRepost, OpQuotePost, OpReplyToPost, OpLikePost, OpUnlikePost, OpDeletePost:
		return true
	}
	return false
}

// PlatformPostResult — успешный результат операции на конкретной платформе
type PlatformPostResult struct {
	Platform Platform `json:"platform" msgpack:"platform"`
	UserID   string   `json:"user_id" msgpack:"user_id"`
	PostID   string   `json:"post_id,omitempty" msgpack:"post_id"`
	PostURL  string   `json:"post_url,omitempty" msgpack:"post_url"`
	// ThreadIDs заполняется для тредов: идентификаторы всех постов цепочки по порядку
	ThreadIDs []string `json:"thread_ids,omitempty" msgpack:"thread_ids"`
}
