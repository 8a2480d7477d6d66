package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any rejected login, whichever field was wrong
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier decides whether an email/password pair identifies the admin
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) error
}

// StaticCredentials accepts exactly one configured email/password pair
type StaticCredentials struct {
	email        string
	passwordHash string
}

// NewStaticCredentials builds a verifier for a single admin account.
// passwordHash, when set, must be a bcrypt hash and wins over password.
func NewStaticCredentials(email, password, passwordHash string) (*StaticCredentials, error) {
	if email == "" {
		return nil, errors.New("admin email is empty")
	}

	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
	} else {
		if password == "" {
			return nil, errors.New("admin password is empty")
		}
		hash, err := HashPassword(password)
		if err != nil {
			return nil, err
		}
		passwordHash = hash
	}

	return &StaticCredentials{
		email:        email,
		passwordHash: passwordHash,
	}, nil
}

// Verify returns ErrInvalidCredentials unless both fields match exactly.
// The password hash is always compared so timing does not reveal whether the email was right.
func (s *StaticCredentials) Verify(_ context.Context, email, password string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	passwordOK := VerifyPassword(password, s.passwordHash) == nil

	if !emailOK || !passwordOK {
		return ErrInvalidCredentials
	}
	return nil
}
