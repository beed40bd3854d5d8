package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenInvalid = errors.New("token invalid")

// Claims is the identity extracted from a verified access token. Token
// issuance belongs to the external identity provider; this service only
// verifies.
type Claims struct {
	UserID string
}

// TokenService validates bearer tokens signed with a shared secret.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	if secret == "" {
		return nil
	}
	return &TokenService{secret: []byte(secret)}
}

// ParseAccessToken verifies the token signature and expiry and returns the
// subject as the user identity.
func (s *TokenService) ParseAccessToken(token string) (Claims, error) {
	if s == nil {
		return Claims{}, ErrTokenInvalid
	}

	var registered jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &registered, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || registered.Subject == "" {
		return Claims{}, ErrTokenInvalid
	}

	return Claims{UserID: registered.Subject}, nil
}
