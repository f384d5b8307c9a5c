package usecase

import (
	"context"
	"sync"

	"crosspost-backend/internal/entity"
)

// PlatformCapability — контракт одной платформы публикации.
// Ядро не знает, как реализация общается со своей платформой: ошибки могут
// быть нативными ошибками SDK, обычными ошибками или уже каноническими.
type PlatformCapability interface {
	// CreatePost публикует пост или тред (элементы цепочки по порядку)
	CreatePost(ctx context.Context, userID string, thread entity.Thread, attachments []*entity.Upload) (*entity.PlatformPostResult, error)
	// Repost делает репост существующего поста по ссылке ref
	Repost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error)
	// QuotePost цитирует существующий пост с собственным комментарием
	QuotePost(ctx context.Context, userID, ref string, content entity.PostContent) (*entity.PlatformPostResult, error)
	// ReplyToPost отвечает на существующий пост
	ReplyToPost(ctx context.Context, userID, ref string, content entity.PostContent) (*entity.PlatformPostResult, error)
	// LikePost ставит отметку "нравится"
	LikePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error)
	// UnlikePost снимает отметку "нравится"
	UnlikePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error)
	// DeletePost удаляет существующий пост
	DeletePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error)
}

// CapabilityRegistry — таблица платформенных реализаций по имени платформы.
// Новая платформа добавляется регистрацией, без наследования.
type CapabilityRegistry struct {
	mu           sync.RWMutex
	capabilities map[entity.Platform]PlatformCapability
}

func NewCapabilityRegistry() *CapabilityRegistry {
	return &CapabilityRegistry{
		capabilities: make(map[entity.Platform]PlatformCapability),
	}
}

// Register регистрирует реализацию платформы, заменяя предыдущую
func (r *CapabilityRegistry) Register(platform entity.Platform, capability PlatformCapability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[platform] = capability
}

// Get возвращает реализацию платформы, если она зарегистрирована
func (r *CapabilityRegistry) Get(platform entity.Platform) (PlatformCapability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	capability, ok := r.capabilities[platform]
	return capability, ok
}

// Platforms возвращает список зарегистрированных платформ
func (r *CapabilityRegistry) Platforms() []entity.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	platforms := make([]entity.Platform, 0, len(r.capabilities))
	for platform := range r.capabilities {
		platforms = append(platforms, platform)
	}
	return platforms
}
