package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth проверяет личность подписанта. Ядро доверяет проверенному
// идентификатору и не перепроверяет его.
type Auth interface {
	CheckAuth(tokenString string) (string, error)
	CheckAuthFromContext(c echo.Context) (string, error)
	CreateToken(signerID string) (string, error)
}

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type jwtSignerClaims struct {
	SignerID string `json:"signer_id"`
	jwt.RegisteredClaims
}

type AuthManager struct {
	jwtSecretKey  []byte
	tokenLifetime time.Duration
}

func NewAuthManager(jwtSecretKey []byte, tokenLifetime time.Duration) *AuthManager {
	return &AuthManager{
		jwtSecretKey:  jwtSecretKey,
		tokenLifetime: tokenLifetime,
	}
}

// CheckAuth проверяет токен и возвращает ID подписанта, если токен валиден.
// Если токен невалиден, то возвращается ErrUnauthorized.
func (a *AuthManager) CheckAuth(tokenString string) (string, error) {
	claims := jwtSignerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return a.jwtSecretKey, nil
	})
	if err != nil {
		return "", ErrUnauthorized
	}
	if !token.Valid || claims.SignerID == "" {
		return "", ErrUnauthorized
	}
	return claims.SignerID, nil
}

// CheckAuthFromContext достает токен из заголовка Authorization или cookie session
func (a *AuthManager) CheckAuthFromContext(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return a.CheckAuth(strings.TrimPrefix(header, "Bearer "))
	}
	cookie, err := c.Cookie("session")
	if err != nil {
		return "", ErrUnauthorized
	}
	return a.CheckAuth(cookie.Value)
}

// CreateToken создает токен для подписанта
func (a *AuthManager) CreateToken(signerID string) (string, error) {
	claims := jwtSignerClaims{
		SignerID: signerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecretKey)
}
