package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and resolves the bearer tokens the API hands out.
// One token kind only: a fixed validity window from issuance, no refresh.
type TokenService struct {
	Secret []byte
	TTL    time.Duration
}

const DefaultTTL = 24 * time.Hour

func (t *TokenService) ttl() time.Duration {
	if t.TTL > 0 {
		return t.TTL
	}
	return DefaultTTL
}

func (t *TokenService) Sign(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(t.ttl()).Unix(),
		"jti":  uuid.NewString(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.Secret)
}

func (t *TokenService) Parse(raw string) (uint, string, error) {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", tok.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil || !tok.Valid {
		return 0, "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("cannot parse claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("token missing subject")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return 0, "", fmt.Errorf("token missing role")
	}
	return uint(sub), role, nil
}
