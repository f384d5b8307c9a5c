package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

// Dispatcher — координатор раздачи. На один входящий запрос выполняет:
// валидацию, проверку квоты приложения, конкурентный вызов платформ по целям,
// нормализацию отказов и агрегацию в мульти-статус.
type Dispatcher struct {
	registry    *usecase.CapabilityRegistry
	gate        usecase.RateLimitGate
	normalizer  usecase.ErrorNormalizer
	aggregator  *Aggregator
	uploadRepo  repo.Upload
	outcomeRepo repo.OutcomeEvent
	// maxParallel ограничивает число одновременных вызовов платформ;
	// значение <= 0 снимает ограничение
	maxParallel int
}

func NewDispatcher(
	registry *usecase.CapabilityRegistry,
	gate usecase.RateLimitGate,
	normalizer usecase.ErrorNormalizer,
	uploadRepo repo.Upload,
	outcomeRepo repo.OutcomeEvent,
	maxParallel int,
) usecase.Dispatcher {
	return &Dispatcher{
		registry:    registry,
		gate:        gate,
		normalizer:  normalizer,
		aggregator:  NewAggregator(),
		uploadRepo:  uploadRepo,
		outcomeRepo: outcomeRepo,
		maxParallel: maxParallel,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, request *entity.PostRequest) (*entity.MultiStatusData, int, error) {
	// отказы до раздачи прерывают запрос целиком: ни одна платформа не вызывается
	if validationErr := request.IsValid(); validationErr != nil {
		return nil, validationErr.Status, validationErr
	}
	if attachErr := d.resolveAttachments(request); attachErr != nil {
		return nil, attachErr.Status, attachErr
	}

	endpoint := string(request.Operation)
	if quotaErr := d.gate.CheckAppQuota(ctx, request.SignerID, endpoint); quotaErr != nil {
		return nil, quotaErr.Status, quotaErr
	}
	// счетчик использования увеличивается ровно один раз на запрос, не на цель
	d.gate.ConsumeQuota(ctx, request.SignerID, endpoint)

	outcomes := make([]*entity.DispatchOutcome, len(request.Targets))

	group := &errgroup.Group{}
	if d.maxParallel > 0 {
		group.SetLimit(d.maxParallel)
	}
	for i, target := range request.Targets {
		// цели, не прошедшие предпроверку лимита платформы, становятся отказами
		// сразу, без вызова платформы; остальные цели не затрагиваются
		if gateErr := d.gate.CheckPlatformLimit(ctx, target, endpoint); gateErr != nil {
			outcomes[i] = entity.NewFailureOutcome(target, gateErr.WithContext(map[string]any{
				"platform": string(target.Platform),
				"userId":   target.UserID,
			}))
			continue
		}
		group.Go(func() error {
			// замыкание никогда не возвращает ошибку: отказ одной цели
			// не отменяет и не блокирует остальные
			outcomes[i] = d.dispatchTarget(ctx, request, target)
			return nil
		})
	}
	_ = group.Wait()

	data, status := d.aggregator.Aggregate(outcomes)
	d.publishOutcomes(ctx, request, outcomes)
	return data, status, nil
}

// resolveAttachments подставляет вложения по MediaIDs. Неизвестный ID —
// ошибка валидации, запрос не раздается.
func (d *Dispatcher) resolveAttachments(request *entity.PostRequest) *entity.CanonicalError {
	if len(request.MediaIDs) == 0 {
		return nil
	}
	attachments := make([]*entity.Upload, len(request.MediaIDs))
	for i, mediaID := range request.MediaIDs {
		upload, err := d.uploadRepo.GetUploadInfo(mediaID)
		if err != nil {
			if errors.Is(err, repo.ErrUploadNotFound) {
				validationErr := entity.NewValidationError("unknown media id", "media_ids")
				validationErr.Details["value"] = mediaID
				return validationErr
			}
			log.Errorf("error resolving media %d: %v", mediaID, err)
			return entity.NewCanonicalError(entity.ErrCodeInternal, "media store unavailable", http.StatusInternalServerError, true, nil)
		}
		attachments[i] = upload
	}
	request.Attachments = attachments
	return nil
}

// dispatchTarget выполняет ровно одну попытку операции для одной цели.
// Паника внутри вызова платформы не роняет запрос: она нормализуется
// в UNKNOWN_ERROR как нештатное значение.
func (d *Dispatcher) dispatchTarget(ctx context.Context, request *entity.PostRequest, target entity.Target) (outcome *entity.DispatchOutcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Errorf("panic during dispatch to %s/%s: %v", target.Platform, target.UserID, recovered)
			outcome = entity.NewFailureOutcome(target, d.normalizer.Normalize(recovered, target.Platform, target.UserID))
		}
	}()

	capability, ok := d.registry.Get(target.Platform)
	if !ok {
		noCapability := entity.NewCanonicalError(
			entity.ErrCodeInternal,
			fmt.Sprintf("no capability registered for platform %s", target.Platform),
			http.StatusInternalServerError,
			false,
			map[string]any{"platform": string(target.Platform), "userId": target.UserID},
		)
		return entity.NewFailureOutcome(target, noCapability)
	}

	result, err := d.callCapability(ctx, capability, request, target)
	if err != nil {
		return entity.NewFailureOutcome(target, d.normalizer.Normalize(err, target.Platform, target.UserID))
	}
	if result == nil {
		result = &entity.PlatformPostResult{}
	}
	result.Platform = target.Platform
	result.UserID = target.UserID
	return entity.NewSuccessOutcome(target, result)
}

func (d *Dispatcher) callCapability(
	ctx context.Context,
	capability usecase.PlatformCapability,
	request *entity.PostRequest,
	target entity.Target,
) (*entity.PlatformPostResult, error) {
	switch request.Operation {
	case entity.OpCreatePost:
		return capability.CreatePost(ctx, target.UserID, request.Content, request.Attachments)
	case entity.OpRepost:
		return capability.Repost(ctx, target.UserID, request.Ref)
	case entity.OpQuotePost:
		return capability.QuotePost(ctx, target.UserID, request.Ref, request.Content[0])
	case entity.OpReplyToPost:
		return capability.ReplyToPost(ctx, target.UserID, request.Ref, request.Content[0])
	case entity.OpLikePost:
		return capability.LikePost(ctx, target.UserID, request.Ref)
	case entity.OpUnlikePost:
		return capability.UnlikePost(ctx, target.UserID, request.Ref)
	case entity.OpDeletePost:
		return capability.DeletePost(ctx, target.UserID, request.Ref)
	}
	return nil, entity.NewCanonicalError(
		entity.ErrCodeValidation,
		fmt.Sprintf("unsupported operation %s", request.Operation),
		http.StatusBadRequest,
		false,
		nil,
	)
}

// publishOutcomes отправляет события об исходах для последующей статистики.
// Публикация выполняется по возможности и не влияет на ответ клиенту.
func (d *Dispatcher) publishOutcomes(ctx context.Context, request *entity.PostRequest, outcomes []*entity.DispatchOutcome) {
	if d.outcomeRepo == nil {
		return
	}
	now := time.Now()
	for _, outcome := range outcomes {
		event := &entity.PostOutcomeEvent{
			EventID:    uuid.New().String(),
			SignerID:   request.SignerID,
			Operation:  request.Operation,
			Platform:   outcome.Platform,
			UserID:     outcome.UserID,
			Success:    outcome.Succeeded(),
			OccurredAt: now,
		}
		if outcome.Succeeded() {
			event.PostID = outcome.Result.PostID
		} else {
			event.ErrorCode = outcome.Err.Code
		}
		if err := d.outcomeRepo.Publish(ctx, event); err != nil {
			log.Errorf("error publishing outcome event: %v", err)
		}
	}
}
