package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/session"
	"github.com/google/uuid"
)

// SessionManager logs users in and out and answers authentication and
// authorization questions for a request. A session is bound to the user
// agent and client address it was created from.
type SessionManager struct {
	secretKey string
	keyName   string
	users     *UserRepository
	hasher    *cryptox.Hasher
	store     session.Store
	log       logging.Logger
	newID     func() string

	dummyOnce sync.Once
	dummyHash string
}

// NewSessionManager fails with common.ErrMissingSecretKey when secretKey is
// empty.
func NewSessionManager(secretKey, keyName string, users *UserRepository, hasher *cryptox.Hasher, store session.Store, log logging.Logger) (*SessionManager, error) {
	if secretKey == "" {
		return nil, common.ErrMissingSecretKey
	}
	return &SessionManager{
		secretKey: secretKey,
		keyName:   keyName,
		users:     users,
		hasher:    hasher,
		store:     store,
		log:       log.With("module", "sessions"),
		newID:     uuid.NewString,
	}, nil
}

// WithIDGenerator replaces the generator of the session ids issued on login.
func (m *SessionManager) WithIDGenerator(gen func() string) *SessionManager {
	m.newID = gen
	return m
}

func (m *SessionManager) key(req *session.Request) string {
	return m.keyName + ":" + req.SessionID
}

// Login checks the credentials and, when they match, logs the session in
// under a fresh id: req.SessionID is replaced and any record under the old id
// is dropped. Unknown users and wrong passwords both return false with a nil
// error and leave req untouched.
func (m *SessionManager) Login(ctx context.Context, req *session.Request, username, password string) (bool, error) {
	if req == nil || req.SessionID == "" {
		return false, common.ErrNoSession
	}

	u, err := m.users.FindCredentials(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			m.hasher.Verify(password, m.dummy())
			metrics.RecordLogin(metrics.LoginFailure)
			return false, nil
		}
		m.log.Error(ctx, "credential lookup failed", "error", err)
		metrics.RecordLogin(metrics.LoginError)
		return false, fmt.Errorf("error finding user: %w", err)
	}

	if !m.hasher.Verify(password, u.PasswordHash) {
		metrics.RecordLogin(metrics.LoginFailure)
		return false, nil
	}

	if m.hasher.NeedsRehash(u.PasswordHash) {
		if err := m.users.ChangePassword(ctx, u.ID, password); err != nil {
			m.log.Warn(ctx, "password rehash failed", "user_id", u.ID, "error", err)
		}
	}

	s := &models.Session{
		Status:      true,
		LoggedInAt:  req.Time,
		UserID:      u.ID,
		Fingerprint: m.CurrentFingerprint(req),
	}
	fresh := *req
	fresh.SessionID = m.newID()
	if err := m.store.Save(ctx, m.key(&fresh), s); err != nil {
		m.log.Error(ctx, "saving session failed", "error", err)
		metrics.RecordLogin(metrics.LoginError)
		return false, fmt.Errorf("error saving session: %w", err)
	}
	if err := m.store.Clear(ctx, m.key(req)); err != nil {
		m.log.Warn(ctx, "clearing previous session failed", "error", err)
	}
	req.SessionID = fresh.SessionID

	m.log.Info(ctx, "user logged in", "user_id", u.ID)
	metrics.RecordLogin(metrics.LoginSuccess)
	return true, nil
}

// dummy is verified against for unknown usernames so they cost one hash
// verification too.
func (m *SessionManager) dummy() string {
	m.dummyOnce.Do(func() {
		pw, err := common.MakeRandHexString(16)
		if err == nil {
			m.dummyHash, _ = m.hasher.Hash(pw, "")
		}
	})
	return m.dummyHash
}

// CurrentFingerprint derives the fingerprint of the request's user agent and
// client address.
func (m *SessionManager) CurrentFingerprint(req *session.Request) string {
	return cryptox.Fingerprint(m.secretKey, req.UserAgent, req.ClientIP)
}

func (m *SessionManager) authenticated(ctx context.Context, req *session.Request) (*models.Session, bool) {
	if req == nil || req.SessionID == "" {
		return nil, false
	}

	s, ok, err := m.store.Load(ctx, m.key(req))
	if err != nil {
		m.log.Warn(ctx, "loading session failed", "error", err)
		return nil, false
	}
	if !ok || !s.Status {
		return nil, false
	}

	if subtle.ConstantTimeCompare([]byte(s.Fingerprint), []byte(m.CurrentFingerprint(req))) != 1 {
		return nil, false
	}
	return s, true
}

// IsAuthenticated reports whether the request's session is logged in and
// was created from the same user agent and client address.
func (m *SessionManager) IsAuthenticated(ctx context.Context, req *session.Request) bool {
	_, ok := m.authenticated(ctx, req)
	return ok
}

// CurrentUserID returns the logged-in user's id.
func (m *SessionManager) CurrentUserID(ctx context.Context, req *session.Request) (int64, bool) {
	s, ok := m.authenticated(ctx, req)
	if !ok {
		return 0, false
	}
	return s.UserID, true
}

// CurrentUser returns the logged-in user, or common.ErrorUnauthorized.
func (m *SessionManager) CurrentUser(ctx context.Context, req *session.Request) (*models.UserView, error) {
	id, ok := m.CurrentUserID(ctx, req)
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return m.users.Read(ctx, id)
}

// Logout clears the request's session. Logging out twice is not an error.
func (m *SessionManager) Logout(ctx context.Context, req *session.Request) error {
	if req == nil || req.SessionID == "" {
		return nil
	}
	return m.store.Clear(ctx, m.key(req))
}

// HasPermission reports whether the logged-in user's group grants key.
// Anonymous requests and lookup failures yield false.
func (m *SessionManager) HasPermission(ctx context.Context, req *session.Request, key string) bool {
	id, ok := m.CurrentUserID(ctx, req)
	if !ok {
		return false
	}

	u, err := m.users.Read(ctx, id)
	if err != nil {
		m.log.Warn(ctx, "reading user for permission check failed", "user_id", id, "error", err)
		return false
	}
	return u.HasPermission(key)
}
