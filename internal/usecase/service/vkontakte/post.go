package vkontakte

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"

	"github.com/SevereCloud/vksdk/v3/api"
)

// Capability публикует посты на стены групп ВКонтакте.
// Ссылка на пост (ref) имеет вид "<owner_id>_<post_id>".
type Capability struct {
	channelRepo repo.Channel
	uploadRepo  repo.Upload
}

func NewCapability(channelRepo repo.Channel, uploadRepo repo.Upload) usecase.PlatformCapability {
	return &Capability{
		channelRepo: channelRepo,
		uploadRepo:  uploadRepo,
	}
}

func (c *Capability) CreatePost(ctx context.Context, userID string, thread entity.Thread, attachments []*entity.Upload) (*entity.PlatformPostResult, error) {
	vk, groupID, err := c.client(userID)
	if err != nil {
		return nil, err
	}

	// у ВКонтакте нет тредов: цепочка публикуется одним постом
	texts := make([]string, 0, len(thread))
	for _, content := range thread {
		if content.Text != "" {
			texts = append(texts, content.Text)
		}
	}
	params := api.Params{
		"owner_id":   -groupID, // для групп используются отрицательные ID
		"message":    strings.Join(texts, "\n\n"),
		"from_group": 1,
	}

	if len(attachments) > 0 {
		attachmentsStr, err := c.uploadAttachments(vk, groupID, attachments)
		if err != nil {
			return nil, err
		}
		if attachmentsStr != "" {
			params["attachments"] = attachmentsStr
		}
	}

	response, err := vk.WallPost(params)
	if err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{
		PostID:  formatRef(-groupID, response.PostID),
		PostURL: fmt.Sprintf("https://vk.com/wall%s", formatRef(-groupID, response.PostID)),
	}, nil
}

func (c *Capability) Repost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	return c.repost(userID, ref, "")
}

func (c *Capability) QuotePost(ctx context.Context, userID, ref string, content entity.PostContent) (*entity.PlatformPostResult, error) {
	return c.repost(userID, ref, content.Text)
}

func (c *Capability) ReplyToPost(ctx context.Context, userID, ref string, content entity.PostContent) (*entity.PlatformPostResult, error) {
	vk, _, err := c.client(userID)
	if err != nil {
		return nil, err
	}
	ownerID, postID, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	response, err := vk.WallCreateComment(api.Params{
		"owner_id": ownerID,
		"post_id":  postID,
		"message":  content.Text,
	})
	if err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{
		PostID: formatRef(ownerID, response.CommentID),
	}, nil
}

func (c *Capability) LikePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	vk, _, err := c.client(userID)
	if err != nil {
		return nil, err
	}
	ownerID, postID, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	if _, err := vk.LikesAdd(api.Params{
		"type":     "post",
		"owner_id": ownerID,
		"item_id":  postID,
	}); err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: ref}, nil
}

func (c *Capability) UnlikePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	vk, _, err := c.client(userID)
	if err != nil {
		return nil, err
	}
	ownerID, postID, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	if _, err := vk.LikesDelete(api.Params{
		"type":     "post",
		"owner_id": ownerID,
		"item_id":  postID,
	}); err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: ref}, nil
}

func (c *Capability) DeletePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	vk, _, err := c.client(userID)
	if err != nil {
		return nil, err
	}
	ownerID, postID, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	if _, err := vk.WallDelete(api.Params{
		"owner_id": ownerID,
		"post_id":  postID,
	}); err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: ref}, nil
}

func (c *Capability) repost(userID, ref, message string) (*entity.PlatformPostResult, error) {
	vk, groupID, err := c.client(userID)
	if err != nil {
		return nil, err
	}
	ownerID, postID, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	params := api.Params{
		"object":   fmt.Sprintf("wall%d_%d", ownerID, postID),
		"group_id": groupID,
	}
	if message != "" {
		params["message"] = message
	}
	response, err := vk.WallRepost(params)
	if err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{
		PostID: formatRef(-groupID, response.PostID),
	}, nil
}

func (c *Capability) client(userID string) (*api.VK, int, error) {
	channel, err := c.channelRepo.GetVKChannel(userID)
	if err != nil {
		if errors.Is(err, repo.ErrChannelNotFound) {
			return nil, 0, entity.NewCanonicalError(
				entity.ErrCodeNotFound,
				"no vkontakte group linked to account",
				http.StatusNotFound,
				false,
				nil,
			)
		}
		return nil, 0, err
	}
	// используем админский токен группы
	return api.NewVK(channel.AdminAPIKey), channel.GroupID, nil
}

func (c *Capability) uploadAttachments(vk *api.VK, groupID int, attachments []*entity.Upload) (string, error) {
	var attachmentStrings []string
	for _, attachment := range attachments {
		upload, err := c.uploadRepo.GetUpload(attachment.ID)
		if err != nil {
			return "", err
		}
		switch {
		case strings.HasPrefix(attachment.FileType, "photo"):
			photoAttachment, err := c.uploadPhoto(vk, groupID, upload)
			if err != nil {
				return "", err
			}
			attachmentStrings = append(attachmentStrings, photoAttachment)
		case strings.HasPrefix(attachment.FileType, "video"):
			videoAttachment, err := c.uploadVideo(vk, groupID, upload)
			if err != nil {
				return "", err
			}
			attachmentStrings = append(attachmentStrings, videoAttachment)
		}
	}
	return strings.Join(attachmentStrings, ","), nil
}

func (c *Capability) uploadPhoto(vk *api.VK, groupID int, upload *entity.Upload) (string, error) {
	uploadResponse, err := vk.UploadGroupWallPhoto(groupID, upload.RawBytes)
	if err != nil {
		return "", err
	}
	if len(uploadResponse) == 0 {
		return "", errors.New("no photos uploaded")
	}
	// Формат: photo{owner_id}_{media_id}
	return fmt.Sprintf("photo%d_%d", uploadResponse[0].OwnerID, uploadResponse[0].ID), nil
}

func (c *Capability) uploadVideo(vk *api.VK, groupID int, upload *entity.Upload) (string, error) {
	videoSaveResponse, err := vk.UploadVideo(api.Params{
		"group_id": groupID,
	}, upload.RawBytes)
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}
	// Формат: video{owner_id}_{video_id}
	return fmt.Sprintf("video%d_%d", videoSaveResponse.OwnerID, videoSaveResponse.VideoID), nil
}

func formatRef(ownerID, postID int) string {
	return fmt.Sprintf("%d_%d", ownerID, postID)
}

func parseRef(ref string) (int, int, error) {
	parts := strings.SplitN(ref, "_", 2)
	if len(parts) != 2 {
		return 0, 0, invalidRef(ref)
	}
	ownerID, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, invalidRef(ref)
	}
	postID, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, invalidRef(ref)
	}
	return ownerID, postID, nil
}

func invalidRef(ref string) *entity.CanonicalError {
	validationErr := entity.NewValidationError("vkontakte ref must look like <owner_id>_<post_id>", "ref")
	validationErr.Details["value"] = ref
	return validationErr
}
