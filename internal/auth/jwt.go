package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of the session cookie.
// The ID claim (jti) names the server-side session row.
type SessionClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenSigner signs and validates session cookie values
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner creates a signer using the given HMAC secret
func NewTokenSigner(secret string) (*TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	return &TokenSigner{secret: []byte(secret)}, nil
}

// Sign creates a token referencing sessionID that expires at expiresAt
func (s *TokenSigner) Sign(sessionID string, isAdmin bool, issuedAt, expiresAt time.Time) (string, error) {
	claims := SessionClaims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates signature and expiry and returns the claims
func (s *TokenSigner) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid && claims.ID != "" {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
