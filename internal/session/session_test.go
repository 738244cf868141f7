package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
	"legallink_client/platform/store"
)

type testConfig struct {
	file   string
	secret string
}

func (c testConfig) GetSessionFile() string   { return c.file }
func (c testConfig) GetSessionSecret() string { return c.secret }

func newTestManager(t *testing.T) (*Manager, testConfig) {
	t.Helper()
	cfg := testConfig{
		file:   filepath.Join(t.TempDir(), "session.enc"),
		secret: "test-secret",
	}
	return NewManager(store.NewMemory(), cfg, logger.New("development")), cfg
}

func signedToken(t *testing.T, role string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"role": role}
	if !expiresAt.IsZero() {
		claims["exp"] = expiresAt.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestEstablishAndCurrent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	user := User{ID: "u1", Name: "Dana Cho", Email: "dana@example.com"}
	require.NoError(t, m.Establish(ctx, "opaque-token", RoleClient, user))

	sess, err := m.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, "opaque-token", sess.Token)
	require.Equal(t, RoleClient, sess.Role)
	require.Equal(t, user, sess.User)
	require.Equal(t, "opaque-token", m.BearerToken(ctx))
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	m, cfg := newTestManager(t)

	require.NoError(t, m.Establish(ctx, "opaque-token", RoleLawyer, User{ID: "u2", Email: "l@example.com"}))

	// A fresh manager with an empty memory scope models a new process.
	restarted := NewManager(store.NewMemory(), cfg, logger.New("development"))
	sess, err := restarted.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, RoleLawyer, sess.Role)
	require.Equal(t, "u2", sess.User.ID)
}

func TestCurrentWithoutSession(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Current(context.Background())
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))
	require.Equal(t, RoleAnonymous, m.Role(context.Background()))
}

func TestExpiredTokenIsAnonymous(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	expired := signedToken(t, "client", time.Now().Add(-time.Hour))
	require.NoError(t, m.Establish(ctx, expired, RoleClient, User{Email: "x@example.com"}))

	_, err := m.Current(ctx)
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))
	require.Empty(t, m.BearerToken(ctx))
}

func TestRoleFallsBackToTokenClaim(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	token := signedToken(t, "admin", time.Now().Add(time.Hour))
	require.NoError(t, m.Establish(ctx, token, RoleAnonymous, User{Email: "a@example.com"}))

	require.Equal(t, RoleAdmin, m.Role(ctx))
}

func TestRequireRole(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	require.NoError(t, m.Establish(ctx, "tok", RoleClient, User{}))

	_, err := m.RequireRole(ctx, RoleClient, RoleLawyer)
	require.NoError(t, err)

	_, err = m.RequireRole(ctx, RoleAdmin)
	require.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestClearRemovesBothScopes(t *testing.T) {
	ctx := context.Background()
	m, cfg := newTestManager(t)

	require.NoError(t, m.Establish(ctx, "tok", RoleClient, User{}))
	require.NoError(t, m.Clear(ctx))

	_, err := m.Current(ctx)
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))

	restarted := NewManager(store.NewMemory(), cfg, logger.New("development"))
	_, err = restarted.Current(ctx)
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestDecodeLegacyAliases(t *testing.T) {
	sess, ok := decodeSession([]byte(`{
		"authToken": "legacy-token",
		"userRole": "Attorney",
		"userId": "u9",
		"userName": "Priya Nair",
		"userEmail": "priya@example.com"
	}`))
	require.True(t, ok)
	require.Equal(t, "legacy-token", sess.Token)
	require.Equal(t, RoleLawyer, sess.Role)
	require.Equal(t, "Priya Nair", sess.User.Name)
}

func TestDecodeWithoutTokenIsAbsent(t *testing.T) {
	_, ok := decodeSession([]byte(`{"role":"client"}`))
	require.False(t, ok)
}
