// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wristband/go-service-auth/pkg/config"
)

func newTestStore(t *testing.T, mutate func(*config.SessionConfig)) *Store {
	t.Helper()

	cfg := config.SessionConfig{Secrets: []string{"test-secret-0123456789abcdef"}}
	if mutate != nil {
		mutate(&cfg)
	}

	store, err := NewStore(cfg)
	require.NoError(t, err)
	return store
}

// replay builds a new request carrying the cookies the recorder set.
func replay(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNewStoreRequiresSecrets(t *testing.T) {
	t.Parallel()

	_, err := NewStore(config.SessionConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret")
}

func TestNewStoreDefaults(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, nil)
	assert.Equal(t, config.DefaultCookieName, store.CookieName())
}

func TestLoadFreshSessionIsAnonymous(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, nil)
	sess := store.Load(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.AccessToken)
	assert.Empty(t, sess.CSRFToken)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, nil)
	expiresAt := time.Now().Add(time.Hour).UnixMilli()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess := store.Load(r)
	sess.SetTokens("at-123", "rt-456", expiresAt, "acme", "auth.acme.com")

	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(rec, r))

	restored := store.Load(replay(t, rec))
	assert.True(t, restored.Authenticated())
	assert.Equal(t, "at-123", restored.AccessToken)
	assert.Equal(t, "rt-456", restored.RefreshToken)
	assert.Equal(t, expiresAt, restored.ExpiresAt)
	assert.Equal(t, "acme", restored.TenantName)
	assert.Equal(t, "auth.acme.com", restored.TenantCustomDomain)
}

func TestSecretRotationKeepsOldCookiesValid(t *testing.T) {
	t.Parallel()

	oldStore := newTestStore(t, func(c *config.SessionConfig) {
		c.Secrets = []string{"old-signing-secret!!"}
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess := oldStore.Load(r)
	sess.SetTokens("at-rotated", "rt", time.Now().Add(time.Hour).UnixMilli(), "acme", "")

	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(rec, r))

	rotated := newTestStore(t, func(c *config.SessionConfig) {
		c.Secrets = []string{"new-signing-secret!!", "old-signing-secret!!"}
	})

	// The cookie issued under the old secret still verifies.
	restored := rotated.Load(replay(t, rec))
	require.True(t, restored.Authenticated())
	assert.Equal(t, "at-rotated", restored.AccessToken)

	// Saving through the rotated store re-signs under the first secret.
	rec2 := httptest.NewRecorder()
	require.NoError(t, restored.Save(rec2, replay(t, rec)))

	assert.True(t, rotated.Load(replay(t, rec2)).Authenticated())
	assert.False(t, oldStore.Load(replay(t, rec2)).Authenticated())
}

func TestTamperedCookieYieldsAnonymousSession(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: store.CookieName(), Value: "not-a-valid-payload"})

	sess := store.Load(r)
	assert.False(t, sess.Authenticated())
}

func TestCSRFTokenGeneratedWhenEnabled(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, func(c *config.SessionConfig) {
		c.CSRFProtectionEnabled = true
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess := store.Load(r)
	require.NotEmpty(t, sess.CSRFToken)

	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(rec, r))

	restored := store.Load(replay(t, rec))
	assert.Equal(t, sess.CSRFToken, restored.CSRFToken)
}

func TestCSRFTokenNotGeneratedWhenDisabled(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, nil)
	sess := store.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, sess.CSRFToken)
}

func TestDestroyExpiresCookieAndClearsState(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess := store.Load(r)
	sess.SetTokens("at", "rt", time.Now().Add(time.Hour).UnixMilli(), "acme", "")

	rec := httptest.NewRecorder()
	require.NoError(t, sess.Destroy(rec, r))

	assert.False(t, sess.Authenticated())

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, store.CookieName(), cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestExpired(t *testing.T) {
	t.Parallel()

	sess := &Session{}
	assert.False(t, sess.Expired())

	sess.ExpiresAt = time.Now().Add(-time.Minute).UnixMilli()
	assert.True(t, sess.Expired())

	sess.ExpiresAt = time.Now().Add(time.Hour).UnixMilli()
	assert.False(t, sess.Expired())
}

func TestMetadataOmitsTokens(t *testing.T) {
	t.Parallel()

	sess := &Session{
		AccessToken:  "super-secret-token",
		RefreshToken: "even-more-secret",
		TenantName:   "acme",
		CSRFToken:    "csrf-abc",
	}

	body, err := json.Marshal(sess.Metadata())
	require.NoError(t, err)

	assert.NotContains(t, string(body), "super-secret-token")
	assert.NotContains(t, string(body), "even-more-secret")
	assert.Contains(t, string(body), `"isAuthenticated":true`)
	assert.Contains(t, string(body), `"tenantName":"acme"`)
	assert.Contains(t, string(body), `"csrfToken":"csrf-abc"`)
}

func TestTokenResponse(t *testing.T) {
	t.Parallel()

	sess := &Session{AccessToken: "at", ExpiresAt: 12345}
	resp := sess.TokenResponse()
	assert.Equal(t, "at", resp.AccessToken)
	assert.Equal(t, int64(12345), resp.ExpiresAt)
}
