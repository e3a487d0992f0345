package auth

import (
	"fmt"
	"time"

	"codeberg.org/algopatterns/forge/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 30 * 24 * time.Hour

// creates a signed API client token for subject
func GenerateToken(secret config.Secret, subject string, ttl time.Duration) (string, error) {
	if !secret.IsSet() {
		return "", fmt.Errorf("API_JWT_SECRET not set")
	}

	if subject == "" {
		return "", fmt.Errorf("token subject is required")
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := time.Now()
	claims := Claims{
		Scope: ScopeGenerate,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret.Value()))
}

// validates an API client token and returns its claims
func ValidateToken(secret config.Secret, tokenString string) (*Claims, error) {
	if !secret.IsSet() {
		return nil, fmt.Errorf("API_JWT_SECRET not set")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret.Value()), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.Scope != ScopeGenerate {
		return nil, fmt.Errorf("token scope %q not allowed", claims.Scope)
	}

	return claims, nil
}
