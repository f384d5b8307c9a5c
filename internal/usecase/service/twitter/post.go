package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/usecase"

	"github.com/labstack/gommon/log"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.twitter.com"

// Capability публикует посты в Twitter через API v2.
// Ссылка на пост (ref) — идентификатор твита.
type Capability struct {
	channelRepo   repo.Channel
	rateLimitRepo repo.RateLimit
	baseURL       string
	// клиент без токена; авторизация добавляется через oauth2 per-аккаунт
	httpClient *http.Client
}

func NewCapability(channelRepo repo.Channel, rateLimitRepo repo.RateLimit, baseURL string) usecase.PlatformCapability {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Capability{
		channelRepo:   channelRepo,
		rateLimitRepo: rateLimitRepo,
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

type tweetRequest struct {
	Text         string      `json:"text,omitempty"`
	QuoteTweetID string      `json:"quote_tweet_id,omitempty"`
	Reply        *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func (c *Capability) CreatePost(ctx context.Context, userID string, thread entity.Thread, attachments []*entity.Upload) (*entity.PlatformPostResult, error) {
	if len(attachments) > 0 {
		// загрузка медиа в twitter пока не подключена
		return nil, entity.NewCanonicalError(
			entity.ErrCodeMediaUpload,
			"media attachments are not supported for twitter targets",
			http.StatusBadRequest,
			true,
			nil,
		)
	}
	account, client, err := c.client(ctx, userID)
	if err != nil {
		return nil, err
	}

	var tweetIDs []string
	replyTo := ""
	for _, content := range thread {
		body := tweetRequest{Text: content.Text}
		if replyTo != "" {
			body.Reply = &tweetReply{InReplyToTweetID: replyTo}
		}
		var response tweetResponse
		if err := c.call(ctx, client, userID, string(entity.OpCreatePost), http.MethodPost, "/2/tweets", body, &response); err != nil {
			return nil, err
		}
		tweetIDs = append(tweetIDs, response.Data.ID)
		replyTo = response.Data.ID
	}

	return &entity.PlatformPostResult{
		PostID:    tweetIDs[0],
		PostURL:   fmt.Sprintf("https://twitter.com/%s/status/%s", account.AccountID, tweetIDs[0]),
		ThreadIDs: tweetIDs,
	}, nil
}

func (c *Capability) Repost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	account, client, err := c.client(ctx, userID)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/2/users/%s/retweets", account.AccountID)
	if err := c.call(ctx, client, userID, string(entity.OpRepost), http.MethodPost, path, map[string]string{"tweet_id": ref}, nil); err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: ref}, nil
}

func (c *Capability) QuotePost(ctx context.Context, userID, ref string, content entity.PostContent) (*entity.PlatformPostResult, error) {
	_, client, err := c.client(ctx, userID)
	if err != nil {
		return nil, err
	}
	var response tweetResponse
	body := tweetRequest{Text: content.Text, QuoteTweetID: ref}
	if err := c.call(ctx, client, userID, string(entity.OpQuotePost), http.MethodPost, "/2/tweets", body, &response); err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: response.Data.ID}, nil
}

func (c *Capability) ReplyToPost(ctx context.Context, userID, ref string, content entity.PostContent) (*entity.PlatformPostResult, error) {
	_, client, err := c.client(ctx, userID)
	if err != nil {
		return nil, err
	}
	var response tweetResponse
	body := tweetRequest{Text: content.Text, Reply: &tweetReply{InReplyToTweetID: ref}}
	if err := c.call(ctx, client, userID, string(entity.OpReplyToPost), http.MethodPost, "/2/tweets", body, &response); err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: response.Data.ID}, nil
}

func (c *Capability) LikePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	account, client, err := c.client(ctx, userID)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/2/users/%s/likes", account.AccountID)
	if err := c.call(ctx, client, userID, string(entity.OpLikePost), http.MethodPost, path, map[string]string{"tweet_id": ref}, nil); err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: ref}, nil
}

func (c *Capability) UnlikePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	account, client, err := c.client(ctx, userID)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/2/users/%s/likes/%s", account.AccountID, ref)
	if err := c.call(ctx, client, userID, string(entity.OpUnlikePost), http.MethodDelete, path, nil, nil); err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: ref}, nil
}

func (c *Capability) DeletePost(ctx context.Context, userID, ref string) (*entity.PlatformPostResult, error) {
	_, client, err := c.client(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.call(ctx, client, userID, string(entity.OpDeletePost), http.MethodDelete, "/2/tweets/"+ref, nil, nil); err != nil {
		return nil, err
	}
	return &entity.PlatformPostResult{PostID: ref}, nil
}

func (c *Capability) client(ctx context.Context, userID string) (*entity.TwitterAccount, *http.Client, error) {
	account, err := c.channelRepo.GetTwitterAccount(userID)
	if err != nil {
		if errors.Is(err, repo.ErrChannelNotFound) {
			return nil, nil, entity.NewCanonicalError(
				entity.ErrCodeNotFound,
				"no twitter account linked",
				http.StatusNotFound,
				false,
				nil,
			)
		}
		return nil, nil, err
	}
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: account.AccessToken})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return account, oauth2.NewClient(ctx, tokenSource), nil
}

// call выполняет один запрос к API, сохраняет снимок лимита из заголовков
// под именем операции и преобразует тело ошибки в apiError с нативным кодом
func (c *Capability) call(ctx context.Context, client *http.Client, userID, endpoint, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.Do(request)
	if err != nil {
		return err
	}
	defer func() { _ = response.Body.Close() }()

	c.recordRateLimit(userID, endpoint, response)

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return parseAPIError(response.StatusCode, responseBody)
	}
	if out != nil {
		if err := json.Unmarshal(responseBody, out); err != nil {
			return err
		}
	}
	return nil
}

// recordRateLimit сохраняет снимок из заголовков x-rate-limit-*
func (c *Capability) recordRateLimit(userID, endpoint string, response *http.Response) {
	remaining := response.Header.Get("x-rate-limit-remaining")
	if remaining == "" {
		return
	}
	remainingN, err := strconv.Atoi(remaining)
	if err != nil {
		return
	}
	status := &entity.RateLimitStatus{
		Platform:  entity.PlatformTwitter,
		UserID:    userID,
		Endpoint:  endpoint,
		Remaining: remainingN,
	}
	if limit, err := strconv.Atoi(response.Header.Get("x-rate-limit-limit")); err == nil {
		status.Limit = limit
	}
	if reset, err := strconv.ParseInt(response.Header.Get("x-rate-limit-reset"), 10, 64); err == nil {
		status.Reset = time.Unix(reset, 0)
		seconds := int(time.Until(status.Reset).Seconds())
		if seconds > 0 {
			status.ResetSeconds = seconds
		}
	}
	if err := c.rateLimitRepo.SaveStatus(status); err != nil {
		log.Errorf("error saving twitter rate limit snapshot: %v", err)
	}
}
