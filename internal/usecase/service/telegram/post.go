package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/gommon/log"
)

// Capability публикует посты в каналы Telegram через Bot API.
// Ссылка на пост (ref) имеет вид "<chat_id>:<message_id>".
type Capability struct {
	bot           *tgbotapi.BotAPI
	channelRepo   repo.Channel
	uploadRepo    repo.Upload
	rateLimitRepo repo.RateLimit
}

func NewCapability(
	token string,
	channelRepo repo.Channel,
	uploadRepo repo.Upload,
	rateLimitRepo repo.RateLimit,
) (usecase.PlatformCapability, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Capability{
		bot:           bot,
		channelRepo:   channelRepo,
		uploadRepo:    uploadRepo,
		rateLimitRepo: rateLimitRepo,
	}, nil
}

func (c *Capability) CreatePost(ctx context.Context, userID string, thread entity.Thread, attachments []*entity.Upload) (*entity.PlatformPostResult, error) {
	chatID, err := c.chatID(userID)
	if err != nil {
		return nil, err
	}

	var messageIDs []int
	replyTo := 0
	for i, content := range thread {
		var messageID int
		var sendErr error
		if i == 0 && len(attachments) > 0 {
			messageID, sendErr = c.sendWithAttachments(chatID, content.Text, replyTo, attachments)
		} else {
			messageID, sendErr = c.sendText(chatID, content.Text, replyTo)
		}
		if sendErr != nil {
			c.recordFloodLimit(userID, string(entity.OpCreatePost), sendErr)
			// частично опубликованный тред не откатываем: возвращаем ошибку платформы
			return nil, sendErr
		}
		messageIDs = append(messageIDs, messageID)
		// следующий элемент треда отвечает на предыдущий
		replyTo = messageID
	}

	result := &entity.PlatformPostResult{
		PostID: formatRef(chatID, messageIDs[0]),
	}
	for _, id := range messageIDs {
		result.ThreadIDs = append(result.ThreadIDs, formatRef(chatID, id))
	}
	return result, nil
}

func (c *Capability) Repost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	chatID, err := c.chatID(userID)
	if err != nil {
		return nil, err
	}
	fromChatID, messageID, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	sent, err := c.bot.Send(tgbotapi.NewForward(chatID, fromChatID, messageID))
	if err != nil {
		c.recordFloodLimit(userID, string(entity.OpRepost), err)
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: formatRef(chatID, sent.MessageID)}, nil
}

func (c *Capability) QuotePost(ctx context.Context, userID, ref string, content entity.PostContent) (*entity.PlatformPostResult, error) {
	chatID, err := c.chatID(userID)
	if err != nil {
		return nil, err
	}
	fromChatID, messageID, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	// сначала пересылаем цитируемый пост, затем комментарий к нему
	forwarded, err := c.bot.Send(tgbotapi.NewForward(chatID, fromChatID, messageID))
	if err != nil {
		c.recordFloodLimit(userID, string(entity.OpQuotePost), err)
		return nil, err
	}
	sentID, err := c.sendText(chatID, content.Text, forwarded.MessageID)
	if err != nil {
		c.recordFloodLimit(userID, string(entity.OpQuotePost), err)
		return nil, err
	}
	return &entity.PlatformPostResult{
		PostID:    formatRef(chatID, sentID),
		ThreadIDs: []string{formatRef(chatID, forwarded.MessageID), formatRef(chatID, sentID)},
	}, nil
}

func (c *Capability) ReplyToPost(ctx context.Context, userID, ref string, content entity.PostContent) (*entity.PlatformPostResult, error) {
	chatID, messageID, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	sentID, err := c.sendText(chatID, content.Text, messageID)
	if err != nil {
		c.recordFloodLimit(userID, string(entity.OpReplyToPost), err)
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: formatRef(chatID, sentID)}, nil
}

func (c *Capability) LikePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	return nil, errUnsupportedOperation("like_post")
}

func (c *Capability) UnlikePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	return nil, errUnsupportedOperation("unlike_post")
}

func (c *Capability) DeletePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	chatID, messageID, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	if _, err := c.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		c.recordFloodLimit(userID, string(entity.OpDeletePost), err)
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: ref}, nil
}

func (c *Capability) chatID(userID string) (int64, error) {
	channel, err := c.channelRepo.GetTGChannel(userID)
	if err != nil {
		if errors.Is(err, repo.ErrChannelNotFound) {
			return 0, entity.NewCanonicalError(
				entity.ErrCodeNotFound,
				"no telegram channel linked to account",
				http.StatusNotFound,
				false,
				nil,
			)
		}
		return 0, err
	}
	return channel.ChatID, nil
}

func (c *Capability) sendText(chatID int64, text string, replyTo int) (int, error) {
	message := tgbotapi.NewMessage(chatID, text)
	if replyTo != 0 {
		message.ReplyToMessageID = replyTo
	}
	sent, err := c.bot.Send(message)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Capability) sendWithAttachments(chatID int64, text string, replyTo int, attachments []*entity.Upload) (int, error) {
	if len(attachments) == 1 {
		return c.sendSingleAttachment(chatID, text, replyTo, attachments[0])
	}
	return c.sendMediaGroup(chatID, text, replyTo, attachments)
}

func (c *Capability) sendSingleAttachment(chatID int64, text string, replyTo int, attachment *entity.Upload) (int, error) {
	file, err := c.attachmentFile(attachment)
	if err != nil {
		return 0, err
	}
	switch {
	case strings.HasPrefix(attachment.FileType, "photo"):
		photo := tgbotapi.NewPhoto(chatID, file)
		photo.Caption = text
		if replyTo != 0 {
			photo.ReplyToMessageID = replyTo
		}
		sent, err := c.bot.Send(photo)
		if err != nil {
			return 0, err
		}
		return sent.MessageID, nil
	case strings.HasPrefix(attachment.FileType, "video"):
		video := tgbotapi.NewVideo(chatID, file)
		video.Caption = text
		if replyTo != 0 {
			video.ReplyToMessageID = replyTo
		}
		sent, err := c.bot.Send(video)
		if err != nil {
			return 0, err
		}
		return sent.MessageID, nil
	}
	return 0, entity.NewCanonicalError(
		entity.ErrCodeMediaUpload,
		fmt.Sprintf("unsupported attachment type %s", attachment.FileType),
		http.StatusBadRequest,
		true,
		nil,
	)
}

func (c *Capability) sendMediaGroup(chatID int64, text string, replyTo int, attachments []*entity.Upload) (int, error) {
	var media []interface{}
	for i, attachment := range attachments {
		file, err := c.attachmentFile(attachment)
		if err != nil {
			return 0, err
		}
		switch {
		case strings.HasPrefix(attachment.FileType, "photo"):
			photo := tgbotapi.NewInputMediaPhoto(file)
			if i == 0 {
				photo.Caption = text
			}
			media = append(media, photo)
		case strings.HasPrefix(attachment.FileType, "video"):
			video := tgbotapi.NewInputMediaVideo(file)
			if i == 0 {
				video.Caption = text
			}
			media = append(media, video)
		}
	}
	group := tgbotapi.NewMediaGroup(chatID, media)
	if replyTo != 0 {
		group.ReplyToMessageID = replyTo
	}
	messages, err := c.bot.SendMediaGroup(group)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, errors.New("empty media group response")
	}
	return messages[0].MessageID, nil
}

func (c *Capability) attachmentFile(attachment *entity.Upload) (tgbotapi.RequestFileData, error) {
	upload, err := c.uploadRepo.GetUpload(attachment.ID)
	if err != nil {
		return nil, err
	}
	return tgbotapi.FileReader{
		Name:   upload.FilePath,
		Reader: upload.RawBytes,
	}, nil
}

// recordFloodLimit сохраняет снимок лимита, если Bot API попросил подождать.
// Следующие запросы к этому аккаунту отсекаются предпроверкой без вызова API.
func (c *Capability) recordFloodLimit(userID, endpoint string, err error) {
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) || tgErr.RetryAfter <= 0 {
		return
	}
	saveErr := c.rateLimitRepo.SaveStatus(&entity.RateLimitStatus{
		Platform:     entity.PlatformTelegram,
		UserID:       userID,
		Endpoint:     endpoint,
		Remaining:    0,
		Reset:        time.Now().Add(time.Duration(tgErr.RetryAfter) * time.Second),
		ResetSeconds: tgErr.RetryAfter,
	})
	if saveErr != nil {
		log.Errorf("error saving telegram rate limit snapshot: %v", saveErr)
	}
}

func errUnsupportedOperation(operation string) *entity.CanonicalError {
	return entity.NewCanonicalError(
		entity.ErrCodePlatform,
		fmt.Sprintf("operation %s is not supported by telegram", operation),
		http.StatusBadRequest,
		false,
		nil,
	)
}

func formatRef(chatID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}

func parseRef(ref string) (int64, int, error) {
	parts := strings.SplitN(ref, ":", 2)
	if len(parts) != 2 {
		return 0, 0, invalidRef(ref)
	}
	chatID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, invalidRef(ref)
	}
	messageID, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, invalidRef(ref)
	}
	return chatID, messageID, nil
}

func invalidRef(ref string) *entity.CanonicalError {
	validationErr := entity.NewValidationError("telegram ref must look like <chat_id>:<message_id>", "ref")
	validationErr.Details["value"] = ref
	return validationErr
}
