package main

import (
	"codeberg.org/algopatterns/forge/internal/auth"
	"codeberg.org/algopatterns/forge/internal/config"
)

func MintToken(flags config.TokenFlags) (string, error) {
	secret, err := config.LoadAPIJWTSecret()
	if err != nil {
		return "", err
	}

	return auth.GenerateToken(secret, flags.Subject, flags.TTL)
}
