package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRoundTrip(t *testing.T) {
	manager := NewAuthManager([]byte("test-secret"), time.Hour)
	token, err := manager.CreateToken("signer1")
	require.NoError(t, err)

	signerID, err := manager.CheckAuth(token)
	require.NoError(t, err)
	assert.Equal(t, "signer1", signerID)
}

func TestAuthRejectsForeignKey(t *testing.T) {
	manager := NewAuthManager([]byte("test-secret"), time.Hour)
	token, err := manager.CreateToken("signer1")
	require.NoError(t, err)

	other := NewAuthManager([]byte("other-secret"), time.Hour)
	_, err = other.CheckAuth(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	manager := NewAuthManager([]byte("test-secret"), -time.Minute)
	token, err := manager.CreateToken("signer1")
	require.NoError(t, err)

	_, err = manager.CheckAuth(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthFromContextBearerHeader(t *testing.T) {
	manager := NewAuthManager([]byte("test-secret"), time.Hour)
	token, err := manager.CreateToken("signer1")
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	c := echo.New().NewContext(request, httptest.NewRecorder())

	signerID, err := manager.CheckAuthFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "signer1", signerID)
}

func TestAuthFromContextSessionCookie(t *testing.T) {
	manager := NewAuthManager([]byte("test-secret"), time.Hour)
	token, err := manager.CreateToken("signer1")
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "session", Value: token})
	c := echo.New().NewContext(request, httptest.NewRecorder())

	signerID, err := manager.CheckAuthFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "signer1", signerID)
}

func TestAuthFromContextMissingCredentials(t *testing.T) {
	manager := NewAuthManager([]byte("test-secret"), time.Hour)
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	c := echo.New().NewContext(request, httptest.NewRecorder())

	_, err := manager.CheckAuthFromContext(c)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
