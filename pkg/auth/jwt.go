package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Role       string `json:"role"`
	BusinessID string `json:"business_id,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewTokenManager(secret string, tokenTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (m *TokenManager) Issue(actor Actor) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.tokenTTL)

	claims := Claims{
		Role:       actor.Role,
		BusinessID: actor.BusinessID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

func (m *TokenManager) Parse(tokenString string) (Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Actor{}, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Actor{}, fmt.Errorf("invalid token claims")
	}

	return Actor{
		ID:         claims.Subject,
		Role:       claims.Role,
		BusinessID: claims.BusinessID,
	}, nil
}
