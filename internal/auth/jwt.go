package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims - содержимое access-токена
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

const issuer = "findtern"

var (
	mu        sync.RWMutex
	jwtSecret = []byte("dev-secret-change-me")
	accessTTL = time.Hour
)

// Setup задает секрет и время жизни access-токена. Вызывается один раз при старте.
func Setup(secret string, ttl time.Duration) {
	mu.Lock()
	defer mu.Unlock()

	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		accessTTL = ttl
	}
}

// AccessTTL - текущее время жизни access-токена
func AccessTTL() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return accessTTL
}

// GenerateToken выпускает HS256 access-токен
func GenerateToken(userID, role string) (string, error) {
	mu.RLock()
	secret, ttl := jwtSecret, accessTTL
	mu.RUnlock()

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken проверяет подпись и срок действия
func ParseToken(tokenStr string) (*Claims, error) {
	mu.RLock()
	secret := jwtSecret
	mu.RUnlock()

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateRefreshToken - случайный непрозрачный токен; в БД хранится только его хеш
func GenerateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken - sha256 в hex
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
