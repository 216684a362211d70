package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidState = errors.New("invalid oauth state")

// StateTTL - сколько живет ссылка на подключение календаря
const StateTTL = 15 * time.Minute

// access-токен с тем же секретом не проходит как state
const stateAudience = "calendar-connect"

type stateClaims struct {
	EmployerID string `json:"employer_id"`
	jwt.RegisteredClaims
}

// GenerateOAuthState подписывает id работодателя для OAuth-callback
func GenerateOAuthState(employerID string) (string, error) {
	mu.RLock()
	secret := jwtSecret
	mu.RUnlock()

	now := time.Now()
	claims := stateClaims{
		EmployerID: employerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{stateAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(StateTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseOAuthState возвращает id работодателя из подписанного state
func ParseOAuthState(state string) (string, error) {
	mu.RLock()
	secret := jwtSecret
	mu.RUnlock()

	claims := &stateClaims{}
	token, err := jwt.ParseWithClaims(state, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(stateAudience), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.EmployerID == "" {
		return "", ErrInvalidState
	}
	return claims.EmployerID, nil
}
