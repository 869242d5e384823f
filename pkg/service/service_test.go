// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wristband/go-service-auth/pkg/bridge"
	"github.com/wristband/go-service-auth/pkg/config"
	"github.com/wristband/go-service-auth/pkg/errors"
	"github.com/wristband/go-service-auth/pkg/session"
	"github.com/wristband/go-service-auth/pkg/shim"
	"github.com/wristband/go-service-auth/pkg/wristband"
)

// fakeClient stands in for the vendor auth client and records what it was
// called with.
type fakeClient struct {
	loginRedirect string
	loginErr      error
	gotLoginOpts  wristband.LoginOptions

	callbackResult   *wristband.CallbackResult
	callbackRedirect string
	callbackErr      error

	logoutRedirect string
	gotLogoutOpts  wristband.LogoutOptions

	// observedSession lets the fake check, at logout time, whether the
	// session was already destroyed.
	observedSession          *session.Session
	sessionClearedBeforeCall bool
}

func (f *fakeClient) Login(_ context.Context, sc *shim.Context, opts wristband.LoginOptions) error {
	f.gotLoginOpts = opts
	if f.loginErr != nil {
		return f.loginErr
	}
	if f.loginRedirect != "" {
		sc.Res.Redirect(f.loginRedirect)
	}
	return nil
}

func (f *fakeClient) Callback(_ context.Context, sc *shim.Context) (*wristband.CallbackResult, error) {
	if f.callbackErr != nil {
		return nil, f.callbackErr
	}
	if f.callbackResult == nil && f.callbackRedirect != "" {
		sc.Res.Redirect(f.callbackRedirect)
	}
	return f.callbackResult, nil
}

func (f *fakeClient) Logout(_ context.Context, sc *shim.Context, opts wristband.LogoutOptions) error {
	f.gotLogoutOpts = opts
	if f.observedSession != nil {
		f.sessionClearedBeforeCall = !f.observedSession.Authenticated()
	}
	if f.logoutRedirect != "" {
		sc.Res.Redirect(f.logoutRedirect)
	}
	return nil
}

type serviceFixture struct {
	params *bridge.Params
	store  *session.Store
	rec    *httptest.ResponseRecorder
	client *fakeClient
}

func newServiceFixture(t *testing.T, client *fakeClient, target string) *serviceFixture {
	t.Helper()

	store, err := session.NewStore(config.SessionConfig{Secrets: []string{"service-test-secret"}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, target, nil)

	return &serviceFixture{
		params: &bridge.Params{
			Native:  &bridge.Native{W: rec, R: r},
			Session: store.Load(r),
			Client:  client,
			Shim:    shim.NewContext(rec, r),
		},
		store:  store,
		rec:    rec,
		client: client,
	}
}

func (f *serviceFixture) reloadSession(t *testing.T) *session.Session {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range f.rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return f.store.Load(r)
}

func TestLoginReturnsVendorRedirect(t *testing.T) {
	t.Parallel()

	client := &fakeClient{loginRedirect: "https://acme-auth.example.com/api/v1/oauth2/authorize?state=x"}
	f := newServiceFixture(t, client, "/auth/wristband/login")

	result, err := NewWristbandService().Login(context.Background(), nil, f.params)
	require.NoError(t, err)
	assert.Equal(t, client.loginRedirect, result.RedirectURL)
}

func TestLoginOverlaysData(t *testing.T) {
	t.Parallel()

	client := &fakeClient{loginRedirect: "https://somewhere/authorize"}
	f := newServiceFixture(t, client, "/auth/wristband/login")

	data := &LoginData{
		TenantName:         "acme",
		ReturnURL:          "/dash",
		TenantCustomDomain: "auth.acme.com",
	}
	_, err := NewWristbandService().Login(context.Background(), data, f.params)
	require.NoError(t, err)

	assert.Equal(t, "acme", f.params.Shim.Req.Query.Get("tenant_domain"))
	assert.Equal(t, "/dash", f.params.Shim.Req.Query.Get("return_url"))
	assert.Equal(t, "auth.acme.com", f.params.Shim.Req.Query.Get("tenant_custom_domain"))
	assert.Equal(t, "example.com", f.params.Shim.Req.Host)
	assert.Equal(t, "acme", client.gotLoginOpts.DefaultTenantDomain)
}

func TestLoginWithoutRedirectIsAServerFault(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, &fakeClient{}, "/auth/wristband/login")

	_, err := NewWristbandService().Login(context.Background(), nil, f.params)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, errors.Code(err))
}

func TestCallbackRedirectRequiredLeavesSessionAlone(t *testing.T) {
	t.Parallel()

	client := &fakeClient{callbackRedirect: "http://localhost:6001/auth/wristband/login?tenant_domain=acme"}
	f := newServiceFixture(t, client, "/auth/wristband/callback")

	result, err := NewWristbandService().Callback(context.Background(), f.params)
	require.NoError(t, err)
	assert.Equal(t, client.callbackRedirect, result.RedirectURL)

	assert.Empty(t, f.rec.Result().Cookies())
	assert.False(t, f.params.Session.Authenticated())
}

func TestCallbackWithNeitherRedirectNorResultIsAServerFault(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, &fakeClient{}, "/auth/wristband/callback")

	_, err := NewWristbandService().Callback(context.Background(), f.params)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, errors.Code(err))
}

func TestCallbackPersistsSession(t *testing.T) {
	t.Parallel()

	expiresAt := time.Now().Add(time.Hour).UnixMilli()
	client := &fakeClient{callbackResult: &wristband.CallbackResult{
		AccessToken:        "at-123",
		RefreshToken:       "rt-456",
		ExpiresAt:          expiresAt,
		TenantName:         "acme",
		TenantCustomDomain: "auth.acme.com",
		ReturnURL:          "/dash",
	}}
	f := newServiceFixture(t, client, "/auth/wristband/callback")

	result, err := NewWristbandService().Callback(context.Background(), f.params)
	require.NoError(t, err)
	assert.Equal(t, "/dash", result.RedirectURL)

	restored := f.reloadSession(t)
	assert.True(t, restored.Authenticated())
	assert.Equal(t, "at-123", restored.AccessToken)
	assert.Equal(t, "rt-456", restored.RefreshToken)
	assert.Equal(t, expiresAt, restored.ExpiresAt)
	assert.Equal(t, "acme", restored.TenantName)
	assert.Equal(t, "auth.acme.com", restored.TenantCustomDomain)
}

func TestCallbackDefaultsReturnURL(t *testing.T) {
	t.Parallel()

	client := &fakeClient{callbackResult: &wristband.CallbackResult{AccessToken: "at"}}
	f := newServiceFixture(t, client, "/auth/wristband/callback")

	result, err := NewWristbandService().Callback(context.Background(), f.params)
	require.NoError(t, err)
	assert.Equal(t, "/", result.RedirectURL)
}

func TestLogoutDestroysSessionBeforeVendorCall(t *testing.T) {
	t.Parallel()

	client := &fakeClient{logoutRedirect: "https://auth.acme.com/api/v1/logout?client_id=c"}
	f := newServiceFixture(t, client, "/auth/wristband/logout")

	f.params.Session.SetTokens("at", "rt-456", time.Now().Add(time.Hour).UnixMilli(), "acme", "auth.acme.com")
	client.observedSession = f.params.Session

	result, err := NewWristbandService().Logout(context.Background(), f.params)
	require.NoError(t, err)
	assert.Equal(t, client.logoutRedirect, result.RedirectURL)

	assert.True(t, client.sessionClearedBeforeCall)
	assert.Equal(t, "rt-456", client.gotLogoutOpts.RefreshToken)
	assert.Equal(t, "acme", client.gotLogoutOpts.TenantName)
	assert.Equal(t, "auth.acme.com", client.gotLogoutOpts.TenantCustomDomain)

	cookies := f.rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestLogoutWithoutRedirectIsAServerFault(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, &fakeClient{}, "/auth/wristband/logout")

	_, err := NewWristbandService().Logout(context.Background(), f.params)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, errors.Code(err))
}

func TestSessionProjection(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, &fakeClient{}, "/auth/wristband/session")
	f.params.Session.SetTokens("at", "rt", 0, "acme", "")
	f.params.Session.CSRFToken = "csrf-abc"

	meta, err := NewWristbandService().Session(context.Background(), f.params)
	require.NoError(t, err)
	assert.True(t, meta.IsAuthenticated)
	assert.Equal(t, "acme", meta.TenantName)
	assert.Equal(t, "csrf-abc", meta.CSRFToken)
}

func TestTokenProjection(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, &fakeClient{}, "/auth/wristband/token")
	f.params.Session.SetTokens("at-123", "rt", 999, "acme", "")

	resp, err := NewWristbandService().Token(context.Background(), f.params)
	require.NoError(t, err)
	assert.Equal(t, "at-123", resp.AccessToken)
	assert.Equal(t, int64(999), resp.ExpiresAt)
}

func TestOperationsFailWithoutWiring(t *testing.T) {
	t.Parallel()

	svc := NewWristbandService()
	empty := &bridge.Params{}

	_, err := svc.Login(context.Background(), nil, empty)
	assert.Equal(t, http.StatusInternalServerError, errors.Code(err))

	_, err = svc.Callback(context.Background(), empty)
	assert.Equal(t, http.StatusInternalServerError, errors.Code(err))

	_, err = svc.Logout(context.Background(), empty)
	assert.Equal(t, http.StatusInternalServerError, errors.Code(err))

	_, err = svc.Session(context.Background(), empty)
	assert.Equal(t, http.StatusInternalServerError, errors.Code(err))

	_, err = svc.Token(context.Background(), empty)
	assert.Equal(t, http.StatusInternalServerError, errors.Code(err))
}
