// Package session holds the logged-in user, their roles and permissions and
// the bearer token, and keeps them in a Store between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/opalaxis/beamsolopex-companion/pkg/permissions"
	"go.uber.org/zap"
)

var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrTokenExpired = errors.New("session token has already expired")
)

type Session struct {
	Token       string      `json:"token"`
	User        models.User `json:"user"`
	Roles       []string    `json:"roles"`
	Permissions []string    `json:"permissions"`
}

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.LoginResponse, error)
}

// Manager is the process-wide session. It is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	store   Store
	current *Session
	logger  *zap.Logger
	now     func() time.Time
}

func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger, now: time.Now}
}

// Init restores the stored session. A token whose exp claim has passed is
// dropped together with the rest of the session.
func (m *Manager) Init(ctx context.Context) error {
	s, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("Discarding unreadable session", zap.Error(err))
		return m.clear(ctx)
	}
	if s == nil || s.Token == "" {
		return nil
	}
	if exp, ok := tokenExpiry(s.Token); ok && !m.now().Before(exp) {
		m.logger.Info("Stored session has expired", zap.Time("expired_at", exp))
		return m.clear(ctx)
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return nil
}

func (m *Manager) Login(ctx context.Context, auth Authenticator, email, password string) (Session, error) {
	resp, err := auth.Login(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	s := Session{
		Token:       resp.Token,
		User:        resp.User,
		Roles:       resp.Roles,
		Permissions: resp.Permissions,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()

	m.logger.Info("Logged in", zap.String("user", s.User.Email), zap.Strings("roles", s.Roles))
	return s, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	return m.clear(ctx)
}

// HandleUnauthorized tears the session down after the backend rejected the
// token. It is registered as the API client's 401 hook.
func (m *Manager) HandleUnauthorized() {
	m.logger.Warn("Backend rejected the session token, logging out")
	if err := m.clear(context.Background()); err != nil {
		m.logger.Error("Failed to clear session", zap.Error(err))
	}
}

func (m *Manager) clear(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return m.store.Clear(ctx)
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

func (m *Manager) Session() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, ErrNotLoggedIn
	}
	return *m.current, nil
}

func (m *Manager) CurrentUser() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return models.User{}, false
	}
	return m.current.User, true
}

func (m *Manager) HasPermission(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return false
	}
	return permissions.Set(m.current.Permissions).Has(permissions.Permission(name))
}

func (m *Manager) HasRole(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return false
	}
	return slices.Contains(m.current.Roles, name)
}

// tokenExpiry reads the exp claim without verifying the signature; only the
// backend can do that. Opaque tokens report no expiry.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
