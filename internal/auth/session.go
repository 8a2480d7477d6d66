package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/megaplex/realestate/internal/models"
)

// ErrUnauthorized is returned when a token does not reference a live admin session
var ErrUnauthorized = errors.New("unauthorized")

// SessionData represents the authenticated session context for a request
type SessionData struct {
	SessionID string    `json:"session_id"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager issues, checks and destroys admin sessions
type Manager struct {
	db       *gorm.DB
	verifier CredentialVerifier
	signer   *TokenSigner
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewManager creates a session manager
func NewManager(db *gorm.DB, verifier CredentialVerifier, signer *TokenSigner, ttl time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		db:       db,
		verifier: verifier,
		signer:   signer,
		ttl:      ttl,
		logger:   logger.With().Str("component", "auth").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// TTL returns the lifetime of new sessions
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Login verifies the credentials and, on success, stores a new admin session
// and returns it with the signed cookie value
func (m *Manager) Login(ctx context.Context, email, password string) (*SessionData, string, error) {
	if err := m.verifier.Verify(ctx, email, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			m.logger.Warn().Msg("Rejected admin login")
		}
		return nil, "", err
	}

	now := m.now()
	session := &models.Session{
		IsAdmin:   true,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := m.signer.Sign(session.ID, session.IsAdmin, now, session.ExpiresAt)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session: %w", err)
	}

	m.logger.Info().Str("session_id", session.ID).Msg("Admin logged in")

	return &SessionData{
		SessionID: session.ID,
		IsAdmin:   session.IsAdmin,
		ExpiresAt: session.ExpiresAt,
	}, token, nil
}

// Authenticate resolves a cookie value to a live admin session
func (m *Manager) Authenticate(ctx context.Context, token string) (*SessionData, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := m.signer.Parse(token)
	if err != nil {
		m.logger.Debug().Err(err).Msg("Rejected session token")
		return nil, ErrUnauthorized
	}

	var session models.Session
	if err := models.FindByID(m.db.WithContext(ctx), claims.ID, &session); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Expired(m.now()) || !session.IsAdmin {
		return nil, ErrUnauthorized
	}

	return &SessionData{
		SessionID: session.ID,
		IsAdmin:   session.IsAdmin,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Status reports whether token belongs to an authenticated admin
func (m *Manager) Status(ctx context.Context, token string) (bool, error) {
	_, err := m.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Logout destroys the session behind token. Tokens that are malformed,
// expired or already logged out are ignored.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := m.signer.Parse(token)
	if err != nil {
		return nil
	}

	if err := m.db.WithContext(ctx).Where("id = ?", claims.ID).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	m.logger.Info().Str("session_id", claims.ID).Msg("Admin logged out")
	return nil
}

// PurgeExpired deletes session rows past their expiry
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	result := m.db.WithContext(ctx).Where("expires_at <= ?", m.now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
