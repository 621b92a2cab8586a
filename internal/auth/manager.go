package auth

import (
	"context"
	"errors"
	"time"

	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
	"github.com/sekhonkennels/kennel-portal/internal/models"
)

// Default session parameters.
const (
	DefaultSessionLifetime = 30 * 24 * time.Hour
	DefaultCacheWindow     = 5 * time.Minute
	DefaultCacheMaxEntries = 4096
)

// ManagerConfig configures the session lifecycle manager.
type ManagerConfig struct {
	// Lifetime is the absolute session lifetime granted at creation and on
	// each renewal.
	Lifetime time.Duration
	// CacheWindow bounds how long a cached lookup is trusted before
	// revalidation against the store.
	CacheWindow time.Duration
	// CacheMaxEntries bounds the in-process cache.
	CacheMaxEntries int
}

func (c ManagerConfig) withDefaults() ManagerConfig {
	if c.Lifetime <= 0 {
		c.Lifetime = DefaultSessionLifetime
	}
	if c.CacheWindow <= 0 {
		c.CacheWindow = DefaultCacheWindow
	}
	if c.CacheMaxEntries <= 0 {
		c.CacheMaxEntries = DefaultCacheMaxEntries
	}
	return c
}

// Manager orchestrates the session lifecycle: creation, validation with
// sliding half-life renewal, and revocation. Reads go through the cache
// first; the store is the source of truth.
type Manager struct {
	cfg    ManagerConfig
	store  interfaces.SessionStore
	cache  *SessionCache
	logger *common.Logger

	now func() time.Time
}

// NewManager creates a session lifecycle manager.
func NewManager(cfg ManagerConfig, store interfaces.SessionStore, logger *common.Logger) *Manager {
	cfg = cfg.withDefaults()
	m := &Manager{
		cfg:    cfg,
		store:  store,
		cache:  NewSessionCache(cfg.CacheWindow, cfg.CacheMaxEntries),
		logger: logger,
		now:    time.Now,
	}
	m.cache.now = func() time.Time { return m.now() }
	return m
}

// Lifetime returns the configured session lifetime.
func (m *Manager) Lifetime() time.Duration {
	return m.cfg.Lifetime
}

// CreateSession generates a fresh session for the user and persists it.
// It returns the raw secret token together with the expiration; the raw
// token is never stored, only handed to the client. A store failure here
// is fatal to the caller: without a durable session the user cannot be
// authenticated.
func (m *Manager) CreateSession(ctx context.Context, userID int64) (token string, expiresAt time.Time, err error) {
	token, err = GenerateToken(TokenLength)
	if err != nil {
		return "", time.Time{}, err
	}

	now := m.now()
	expiresAt = now.Add(m.cfg.Lifetime)

	sess := &models.Session{
		ID:        HashToken(token),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Insert(ctx, sess); err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// CurrentSession resolves the session for a raw client token.
//
// A nil session means not authenticated; whether the token was never
// issued, the session expired, or it was revoked is deliberately not
// distinguished at this interface. renewed is true when the sliding-window
// renewal fired, in which case the caller should re-issue the session
// cookie with the extended lifetime. Only store read failures are returned
// as errors; renewal and cleanup failures are absorbed.
func (m *Manager) CurrentSession(ctx context.Context, rawToken string) (session *models.Session, renewed bool, err error) {
	if rawToken == "" {
		return nil, false, nil
	}

	digest := HashToken(rawToken)

	if cached, expired, ok := m.cache.Get(digest); ok {
		if expired {
			// Cached positive past its own expiry: end of life detected
			// at read time, clean up the store row.
			m.deleteExpired(ctx, digest)
			return nil, false, nil
		}
		if cached == nil {
			return nil, false, nil
		}
		return m.maybeRenew(ctx, digest, cached)
	}

	sess, err := m.store.Get(ctx, digest)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			m.cache.Put(digest, nil)
			return nil, false, nil
		}
		return nil, false, err
	}

	if sess.IsExpired(m.now()) {
		m.cache.Evict(digest)
		m.deleteExpired(ctx, digest)
		return nil, false, nil
	}

	m.cache.Put(digest, sess)

	return m.maybeRenew(ctx, digest, sess)
}

// DeleteSession revokes the session for a raw token. Idempotent: deleting
// an absent session is a no-op.
func (m *Manager) DeleteSession(ctx context.Context, rawToken string) error {
	digest := HashToken(rawToken)
	m.cache.Evict(digest)
	return m.store.Delete(ctx, digest)
}

// maybeRenew extends the session when more than half its lifetime has
// elapsed. Renewal is best-effort: a failed write leaves the session valid
// until its original expiry and is retried on the next read past the
// threshold.
func (m *Manager) maybeRenew(ctx context.Context, digest string, sess *models.Session) (*models.Session, bool, error) {
	now := m.now()
	halfway := sess.ExpiresAt.Add(-m.cfg.Lifetime / 2)
	if now.Before(halfway) {
		return sess, false, nil
	}

	newExpiresAt := now.Add(m.cfg.Lifetime)
	if err := m.store.UpdateExpiry(ctx, digest, newExpiresAt); err != nil {
		if m.logger != nil {
			m.logger.Warn().Str("error", err.Error()).Msg("session renewal failed, keeping current expiry")
		}
		return sess, false, nil
	}

	renewedSess := *sess
	renewedSess.ExpiresAt = newExpiresAt
	renewedSess.UpdatedAt = now
	m.cache.Put(digest, &renewedSess)

	return &renewedSess, true, nil
}

// deleteExpired removes an expired session row. Failure is non-fatal to the
// read (the caller already reports not authenticated) but is logged since
// it can leave stale rows behind.
func (m *Manager) deleteExpired(ctx context.Context, digest string) {
	if err := m.store.Delete(ctx, digest); err != nil {
		if m.logger != nil {
			m.logger.Warn().Str("error", err.Error()).Msg("failed to delete expired session")
		}
	}
}
