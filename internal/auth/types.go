package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "forge"

	// the only scope an API client token carries today
	ScopeGenerate = "generate"

	contextKeySubject = "client_subject"
)

// represents API client token claims
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}
