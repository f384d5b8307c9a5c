package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crosspost-backend/internal/delivery/http/utils"
	"crosspost-backend/internal/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuth struct {
	signerID string
	err      error
}

func (m *mockAuth) CheckAuth(tokenString string) (string, error) {
	return m.signerID, m.err
}

func (m *mockAuth) CheckAuthFromContext(c echo.Context) (string, error) {
	return m.signerID, m.err
}

func (m *mockAuth) CreateToken(signerID string) (string, error) {
	return "token", nil
}

type mockDispatcher struct {
	dispatchFn func(ctx context.Context, request *entity.PostRequest) (*entity.MultiStatusData, int, error)
	requests   []*entity.PostRequest
}

func (m *mockDispatcher) Dispatch(ctx context.Context, request *entity.PostRequest) (*entity.MultiStatusData, int, error) {
	m.requests = append(m.requests, request)
	if m.dispatchFn != nil {
		return m.dispatchFn(ctx, request)
	}
	return &entity.MultiStatusData{
		Summary: entity.MultiStatusSummary{Total: len(request.Targets), Succeeded: len(request.Targets)},
		Results: []*entity.PlatformPostResult{},
		Errors:  []*entity.CanonicalError{},
	}, http.StatusOK, nil
}

func newPostServer(auth utils.Auth, dispatcher *mockDispatcher) *echo.Echo {
	server := echo.New()
	NewPost(auth, dispatcher).Configure(server.Group("/api/posts"))
	return server
}

func TestPostHandlerUnauthorized(t *testing.T) {
	server := newPostServer(&mockAuth{err: utils.ErrUnauthorized}, &mockDispatcher{})
	request := httptest.NewRequest(http.MethodPost, "/api/posts/add", strings.NewReader(`{}`))
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestPostHandlerBadJSON(t *testing.T) {
	server := newPostServer(&mockAuth{signerID: "signer1"}, &mockDispatcher{})
	request := httptest.NewRequest(http.MethodPost, "/api/posts/add", strings.NewReader(`{not json`))
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// слой delivery сам выставляет подписанта и операцию, клиент их не задает
func TestPostHandlerSetsSignerAndOperation(t *testing.T) {
	dispatcher := &mockDispatcher{}
	server := newPostServer(&mockAuth{signerID: "signer1"}, dispatcher)

	body := `{"targets":[{"platform":"tg","user_id":"u1"}],"content":{"text":"пост"}}`
	request := httptest.NewRequest(http.MethodPost, "/api/posts/add", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Len(t, dispatcher.requests, 1)
	assert.Equal(t, "signer1", dispatcher.requests[0].SignerID)
	assert.Equal(t, entity.OpCreatePost, dispatcher.requests[0].Operation)
	require.Len(t, dispatcher.requests[0].Targets, 1)
	assert.Equal(t, entity.PlatformTelegram, dispatcher.requests[0].Targets[0].Platform)
}

func TestPostHandlerOperationPerRoute(t *testing.T) {
	routes := map[string]entity.Operation{
		"/api/posts/add":    entity.OpCreatePost,
		"/api/posts/repost": entity.OpRepost,
		"/api/posts/quote":  entity.OpQuotePost,
		"/api/posts/reply":  entity.OpReplyToPost,
		"/api/posts/like":   entity.OpLikePost,
		"/api/posts/unlike": entity.OpUnlikePost,
		"/api/posts/delete": entity.OpDeletePost,
	}
	for route, operation := range routes {
		dispatcher := &mockDispatcher{}
		server := newPostServer(&mockAuth{signerID: "signer1"}, dispatcher)
		request := httptest.NewRequest(http.MethodPost, route, strings.NewReader(`{}`))
		recorder := httptest.NewRecorder()
		server.ServeHTTP(recorder, request)
		require.Len(t, dispatcher.requests, 1, route)
		assert.Equal(t, operation, dispatcher.requests[0].Operation, route)
	}
}

func TestPostHandlerMultiStatusEnvelope(t *testing.T) {
	dispatcher := &mockDispatcher{
		dispatchFn: func(ctx context.Context, request *entity.PostRequest) (*entity.MultiStatusData, int, error) {
			return &entity.MultiStatusData{
				Summary: entity.MultiStatusSummary{Total: 2, Succeeded: 1, Failed: 1},
				Results: []*entity.PlatformPostResult{{Platform: entity.PlatformTelegram, UserID: "u1", PostID: "1"}},
				Errors:  []*entity.CanonicalError{entity.NewRateLimitedError("platform rate limit exhausted", 60)},
			}, http.StatusMultiStatus, nil
		},
	}
	server := newPostServer(&mockAuth{signerID: "signer1"}, dispatcher)

	request := httptest.NewRequest(http.MethodPost, "/api/posts/add", strings.NewReader(`{}`))
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusMultiStatus, recorder.Code)
	var envelope utils.ResponseEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Data)
	assert.Equal(t, 2, envelope.Data.Summary.Total)
	assert.NotEmpty(t, envelope.Meta.RequestID)
	assert.False(t, envelope.Meta.Timestamp.IsZero())
}

// отказ до раздачи приходит единственной канонической ошибкой в конверте
func TestPostHandlerPreDispatchFailure(t *testing.T) {
	dispatcher := &mockDispatcher{
		dispatchFn: func(ctx context.Context, request *entity.PostRequest) (*entity.MultiStatusData, int, error) {
			validationErr := entity.NewValidationError("at least one target is required", "targets")
			return nil, validationErr.Status, validationErr
		},
	}
	server := newPostServer(&mockAuth{signerID: "signer1"}, dispatcher)

	request := httptest.NewRequest(http.MethodPost, "/api/posts/add", strings.NewReader(`{}`))
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var envelope utils.ResponseEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Nil(t, envelope.Data)
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, entity.ErrCodeValidation, envelope.Errors[0].Code)
}
