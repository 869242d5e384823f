// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package session persists the authenticated state between requests in a
// signed cookie. It wraps gorilla/sessions with a typed view of the values
// the auth flows actually store, so the rest of the code never touches the
// untyped Values map.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/wristband/go-service-auth/pkg/config"
)

// Keys under which session state is stored in the cookie payload.
const (
	keyAccessToken        = "access_token"
	keyRefreshToken       = "refresh_token"
	keyExpiresAt          = "expires_at"
	keyTenantName         = "tenant_name"
	keyTenantCustomDomain = "tenant_custom_domain"
	keyCSRFToken          = "csrf_token"
)

// Store issues and restores sessions backed by a signed cookie.
type Store struct {
	cookies     *sessions.CookieStore
	cookieName  string
	csrfEnabled bool
}

// NewStore builds a session store from configuration. The first secret signs
// new cookies; older secrets stay valid for verification so keys can rotate
// without logging everyone out.
func NewStore(cfg config.SessionConfig) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session configuration: %w", err)
	}

	// gorilla consumes variadic keys as (hash key, block key) pairs. The
	// secrets are signing keys only, so each is paired with a nil block key;
	// encryption would constrain secrets to valid AES key sizes.
	keys := make([][]byte, 0, len(cfg.Secrets)*2)
	for _, secret := range cfg.Secrets {
		keys = append(keys, []byte(secret), nil)
	}

	cookies := sessions.NewCookieStore(keys...)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAgeOrDefault(),
		HttpOnly: true,
		Secure:   cfg.SecureOrDefault(),
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{
		cookies:     cookies,
		cookieName:  cfg.CookieNameOrDefault(),
		csrfEnabled: cfg.CSRFProtectionEnabled,
	}, nil
}

// CookieName returns the name of the session cookie.
func (s *Store) CookieName() string {
	return s.cookieName
}

// Session is the typed authenticated state carried between requests.
//
// ExpiresAt is milliseconds since the Unix epoch; zero means no tokens are
// held. A session with an empty access token is anonymous.
type Session struct {
	AccessToken        string
	RefreshToken       string
	ExpiresAt          int64
	TenantName         string
	TenantCustomDomain string
	CSRFToken          string

	raw *sessions.Session
}

// Load restores the session for a request. A missing, expired, or tampered
// cookie yields a fresh anonymous session rather than an error. When CSRF
// protection is enabled, a session without a CSRF token is assigned one; the
// caller must Save for it to stick.
func (s *Store) Load(r *http.Request) *Session {
	// Get returns a new session alongside any decode error.
	raw, _ := s.cookies.Get(r, s.cookieName)

	sess := &Session{raw: raw}
	sess.AccessToken = stringValue(raw, keyAccessToken)
	sess.RefreshToken = stringValue(raw, keyRefreshToken)
	sess.ExpiresAt = int64Value(raw, keyExpiresAt)
	sess.TenantName = stringValue(raw, keyTenantName)
	sess.TenantCustomDomain = stringValue(raw, keyTenantCustomDomain)
	sess.CSRFToken = stringValue(raw, keyCSRFToken)

	if s.csrfEnabled && sess.CSRFToken == "" {
		sess.CSRFToken = uuid.NewString()
	}
	return sess
}

// Authenticated reports whether the session holds tokens.
func (sess *Session) Authenticated() bool {
	return sess.AccessToken != ""
}

// Expired reports whether the held access token has passed its expiry.
func (sess *Session) Expired() bool {
	return sess.ExpiresAt != 0 && time.Now().UnixMilli() >= sess.ExpiresAt
}

// SetTokens records a fresh token grant on the session.
func (sess *Session) SetTokens(accessToken, refreshToken string, expiresAt int64, tenantName, tenantCustomDomain string) {
	sess.AccessToken = accessToken
	sess.RefreshToken = refreshToken
	sess.ExpiresAt = expiresAt
	sess.TenantName = tenantName
	sess.TenantCustomDomain = tenantCustomDomain
}

// Save writes the session state back into the cookie.
func (sess *Session) Save(w http.ResponseWriter, r *http.Request) error {
	sess.raw.Values[keyAccessToken] = sess.AccessToken
	sess.raw.Values[keyRefreshToken] = sess.RefreshToken
	sess.raw.Values[keyExpiresAt] = sess.ExpiresAt
	sess.raw.Values[keyTenantName] = sess.TenantName
	sess.raw.Values[keyTenantCustomDomain] = sess.TenantCustomDomain
	sess.raw.Values[keyCSRFToken] = sess.CSRFToken

	if err := sess.raw.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Destroy clears all state and expires the cookie.
func (sess *Session) Destroy(w http.ResponseWriter, r *http.Request) error {
	sess.AccessToken = ""
	sess.RefreshToken = ""
	sess.ExpiresAt = 0
	sess.TenantName = ""
	sess.TenantCustomDomain = ""
	sess.CSRFToken = ""

	for k := range sess.raw.Values {
		delete(sess.raw.Values, k)
	}
	sess.raw.Options.MaxAge = -1

	if err := sess.raw.Save(r, w); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// Metadata is the token-free session view returned to browsers. The CSRF
// token is included so client-side code can echo it back in a header.
type Metadata struct {
	IsAuthenticated    bool   `json:"isAuthenticated"`
	TenantName         string `json:"tenantName,omitempty"`
	TenantCustomDomain string `json:"tenantCustomDomain,omitempty"`
	CSRFToken          string `json:"csrfToken,omitempty"`
}

// Metadata returns the session view safe to expose to browsers. Tokens never
// leave the cookie through this path.
func (sess *Session) Metadata() Metadata {
	return Metadata{
		IsAuthenticated:    sess.Authenticated(),
		TenantName:         sess.TenantName,
		TenantCustomDomain: sess.TenantCustomDomain,
		CSRFToken:          sess.CSRFToken,
	}
}

// TokenResponse is the payload of the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// TokenResponse returns the held access token and its expiry.
func (sess *Session) TokenResponse() TokenResponse {
	return TokenResponse{
		AccessToken: sess.AccessToken,
		ExpiresAt:   sess.ExpiresAt,
	}
}

func stringValue(raw *sessions.Session, key string) string {
	if v, ok := raw.Values[key].(string); ok {
		return v
	}
	return ""
}

func int64Value(raw *sessions.Session, key string) int64 {
	if v, ok := raw.Values[key].(int64); ok {
		return v
	}
	return 0
}
