package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"crackthecode/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Auth проверяет JWT игрока (HS256, sub = username).
// Выдача токенов - забота внешнего сервиса входа; IssueToken нужен для
// локальной разработки и тестов.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Enabled - секрет задан, токены можно проверять
func (a *Auth) Enabled() bool {
	return a != nil && len(a.secret) > 0
}

// ParseJWT возвращает username из токена
func (a *Auth) ParseJWT(tokenString string) (string, error) {
	if !a.Enabled() {
		return "", ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (a *Auth) IssueToken(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// PlayerFromRequest ищет токен в Authorization: Bearer или в ?token=.
// Без токена (или без секрета) игрок анонимный.
func (a *Auth) PlayerFromRequest(r *http.Request) (domain.Player, error) {
	token := r.URL.Query().Get("token")
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if token == "" || !a.Enabled() {
		return domain.Player{}, nil
	}
	username, err := a.ParseJWT(token)
	if err != nil {
		return domain.Player{}, err
	}
	return domain.Player{Username: username}, nil
}
