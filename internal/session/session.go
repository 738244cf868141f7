// Package session holds the authenticated user's identity, role, and bearer
// token. It is the single read/write surface over session state: an in-memory
// scope for the running process and an encrypted file for reuse across runs.
package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"legallink_client/platform/apperr"
	"legallink_client/platform/filecrypto"
	"legallink_client/platform/logger"
	"legallink_client/platform/store"
)

// sessionKey is the canonical key in the in-memory scope.
const sessionKey = "session"

// Role identifies which screens a user may open.
type Role string

const (
	// RoleAnonymous is the zero role for unauthenticated users.
	RoleAnonymous Role = ""
	// RoleClient is a person looking for legal help.
	RoleClient Role = "client"
	// RoleLawyer is a registered lawyer.
	RoleLawyer Role = "lawyer"
	// RoleAdmin is a marketplace administrator.
	RoleAdmin Role = "admin"
)

// User is the identity snapshot stored alongside the token.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the canonical session record.
type Session struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
	User  User   `json:"user"`
}

// SecretConfig provides the session file location and encryption secret.
type SecretConfig interface {
	GetSessionFile() string
	GetSessionSecret() string
}

// Manager reads and writes the session through one typed surface.
// The in-memory scope is consulted before the file, so a token refreshed
// mid-run wins over whatever the previous run persisted.
type Manager struct {
	mem    store.Store
	path   string
	secret string
	log    *logger.Logger
}

// NewManager creates a session manager over the given in-memory scope.
func NewManager(mem store.Store, cfg SecretConfig, log *logger.Logger) *Manager {
	return &Manager{
		mem:    mem,
		path:   cfg.GetSessionFile(),
		secret: cfg.GetSessionSecret(),
		log:    log,
	}
}

// Current returns the active session. A missing record, an unreadable file,
// or an expired token all surface as apperr.KindUnauthorized.
func (m *Manager) Current(ctx context.Context) (Session, error) {
	sess, ok := m.load(ctx)
	if !ok {
		return Session{}, apperr.Unauthorized("not signed in")
	}

	if expired, err := tokenExpired(sess.Token); err == nil && expired {
		m.log.AuthEvent("session_check", sess.User.Email, false, "token expired")
		return Session{}, apperr.Unauthorized("session expired, sign in again")
	}

	return sess, nil
}

// Establish stores a new session in both scopes.
func (m *Manager) Establish(ctx context.Context, token string, role Role, user User) error {
	sess := Session{Token: token, Role: role, User: user}
	if sess.Role == RoleAnonymous {
		sess.Role = roleFromToken(token)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "encode session", err)
	}

	if err := m.mem.Set(ctx, sessionKey, data); err != nil {
		return apperr.Wrap(apperr.KindInternal, "store session", err)
	}

	if err := m.persist(data); err != nil {
		// The in-memory session is enough to keep working; the next run
		// will just require a fresh sign-in.
		m.log.CacheError("persist_session", sessionKey, err)
	}

	m.log.AuthEvent("session_established", user.Email, true, "")
	return nil
}

// Clear removes the session from both scopes.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.mem.Delete(ctx, sessionKey); err != nil {
		return apperr.Wrap(apperr.KindInternal, "clear session", err)
	}
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		m.log.CacheError("clear_session", sessionKey, err)
	}
	return nil
}

// BearerToken returns the token for Authorization headers, or "" when the
// user is anonymous. Session scope is preferred over the persistent file.
func (m *Manager) BearerToken(ctx context.Context) string {
	sess, err := m.Current(ctx)
	if err != nil {
		return ""
	}
	return sess.Token
}

// Role returns the active role, RoleAnonymous when not signed in.
func (m *Manager) Role(ctx context.Context) Role {
	sess, err := m.Current(ctx)
	if err != nil {
		return RoleAnonymous
	}
	return sess.Role
}

// RequireRole gates a screen on one of the given roles.
func (m *Manager) RequireRole(ctx context.Context, roles ...Role) (Session, error) {
	sess, err := m.Current(ctx)
	if err != nil {
		return Session{}, err
	}

	for _, role := range roles {
		if sess.Role == role {
			return sess, nil
		}
	}
	return Session{}, apperr.Forbidden("this screen requires a different role")
}

func (m *Manager) load(ctx context.Context) (Session, bool) {
	if data, err := m.mem.Get(ctx, sessionKey); err == nil {
		if sess, ok := decodeSession(data); ok {
			return sess, true
		}
	}

	encrypted, err := os.ReadFile(m.path)
	if err != nil {
		return Session{}, false
	}

	data, err := filecrypto.Decrypt(encrypted, m.secret)
	if err != nil {
		m.log.CacheError("decrypt_session", sessionKey, err)
		return Session{}, false
	}

	sess, ok := decodeSession(data)
	if !ok {
		return Session{}, false
	}

	// Warm the in-memory scope so later reads skip the file.
	if canonical, err := json.Marshal(sess); err == nil {
		_ = m.mem.Set(ctx, sessionKey, canonical)
	}
	return sess, true
}

func (m *Manager) persist(data []byte) error {
	encrypted, err := filecrypto.Encrypt(data, m.secret)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(m.path, encrypted, 0o600)
}
