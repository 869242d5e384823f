// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package wristband

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/wristband/go-service-auth/pkg/errors"
	"github.com/wristband/go-service-auth/pkg/logger"
	"github.com/wristband/go-service-auth/pkg/shim"
)

// Query parameters the login and callback endpoints understand.
const (
	paramTenantDomain       = "tenant_domain"
	paramTenantCustomDomain = "tenant_custom_domain"
	paramReturnURL          = "return_url"
)

// errLoginRequired is the OAuth error code Wristband returns when the user
// must re-authenticate. It is retryable; everything else is not.
const errLoginRequired = "login_required"

// LoginOptions tune a single login call.
type LoginOptions struct {
	// DefaultTenantDomain is used when the request carries no tenant hint.
	DefaultTenantDomain string
}

// CallbackResult is the token bundle produced by a completed code exchange.
type CallbackResult struct {
	AccessToken        string
	RefreshToken       string
	IDToken            string
	ExpiresAt          int64
	TenantName         string
	TenantCustomDomain string
	ReturnURL          string
}

// LogoutOptions carry the session state captured before it was destroyed.
type LogoutOptions struct {
	RefreshToken       string
	TenantName         string
	TenantCustomDomain string
}

// Login records the redirect to the tenant's hosted login page. The state and
// PKCE verifier for the in-flight login are persisted in a signed cookie that
// Callback verifies.
func (c *AuthClient) Login(_ context.Context, sc *shim.Context, opts LoginOptions) error {
	tenantCustomDomain := sc.Req.Query.Get(paramTenantCustomDomain)
	tenantName := sc.Req.Query.Get(paramTenantDomain)
	if tenantName == "" {
		tenantName = opts.DefaultTenantDomain
	}

	authorizeHost := c.vanityDomain
	switch {
	case tenantCustomDomain != "":
		authorizeHost = tenantCustomDomain
	case tenantName != "":
		authorizeHost = c.tenantHost(tenantName)
	}

	state := loginState{
		State:              uuid.NewString(),
		Verifier:           oauth2.GenerateVerifier(),
		ReturnURL:          sc.Req.Query.Get(paramReturnURL),
		TenantName:         tenantName,
		TenantCustomDomain: tenantCustomDomain,
	}
	if err := c.writeLoginState(sc.Res, state); err != nil {
		return errors.Wrap(http.StatusInternalServerError, "failed to persist login state", err)
	}

	authCodeOpts := []oauth2.AuthCodeOption{
		oauth2.S256ChallengeOption(state.Verifier),
	}
	if tenantName != "" {
		authCodeOpts = append(authCodeOpts, oauth2.SetAuthURLParam(paramTenantDomain, tenantName))
	}

	sc.Res.Redirect(c.oauthConfig(authorizeHost).AuthCodeURL(state.State, authCodeOpts...))
	return nil
}

// Callback completes the login. A nil result with a nil error means a
// redirect back to the login endpoint was recorded and no tokens were issued;
// the caller must not touch the session in that case.
func (c *AuthClient) Callback(ctx context.Context, sc *shim.Context) (*CallbackResult, error) {
	query := sc.Req.Query
	oauthErr := query.Get("error")

	state, haveState := c.readLoginState(sc.Req)

	tenantName := query.Get(paramTenantDomain)
	if tenantName == "" {
		tenantName = state.TenantName
	}

	// A missing or mismatched login state means the login is stale (expired
	// cookie, replay, or a second tab finishing first). login_required means
	// the IdP wants the user back at the login page. Both restart the flow.
	if !haveState || state.State != query.Get("state") || oauthErr == errLoginRequired {
		c.clearLoginState(sc.Res)
		sc.Res.Redirect(c.loginRedirectURL(tenantName, state.TenantCustomDomain))
		return nil, nil
	}

	if oauthErr != "" {
		c.clearLoginState(sc.Res)
		return nil, errors.Newf(http.StatusBadRequest, "authorization failed: %s: %s",
			oauthErr, query.Get("error_description"))
	}

	code := query.Get("code")
	if code == "" {
		return nil, errors.NewBadRequest("missing authorization code")
	}

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauthConfig(c.vanityDomain).Exchange(exchangeCtx, code, oauth2.VerifierOption(state.Verifier))
	if err != nil {
		return nil, errors.Wrap(http.StatusInternalServerError, "token exchange failed", err)
	}

	c.clearLoginState(sc.Res)

	result := &CallbackResult{
		AccessToken:        token.AccessToken,
		RefreshToken:       token.RefreshToken,
		TenantName:         state.TenantName,
		TenantCustomDomain: state.TenantCustomDomain,
		ReturnURL:          state.ReturnURL,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		result.IDToken = idToken
	}
	if !token.Expiry.IsZero() {
		result.ExpiresAt = token.Expiry.UnixMilli()
	}
	return result, nil
}

// Logout revokes the refresh token when one is held and records the redirect
// to the tenant's hosted logout page. Revocation failures are logged and
// swallowed; the user still gets logged out locally either way.
func (c *AuthClient) Logout(ctx context.Context, sc *shim.Context, opts LogoutOptions) error {
	if opts.RefreshToken != "" {
		if err := c.revokeRefreshToken(ctx, opts.RefreshToken); err != nil {
			logger.Warnw("failed to revoke refresh token", "error", err)
		}
	}

	var logoutHost string
	switch {
	case opts.TenantCustomDomain != "":
		logoutHost = opts.TenantCustomDomain
	case opts.TenantName != "":
		logoutHost = c.tenantHost(opts.TenantName)
	default:
		// No tenant known for this session; the best we can do is the
		// app-level login page.
		sc.Res.Redirect(c.loginURL)
		return nil
	}

	sc.Res.Redirect(fmt.Sprintf("%s?client_id=%s", endpointURL(logoutHost, logoutPath), url.QueryEscape(c.clientID)))
	return nil
}

func (c *AuthClient) revokeRefreshToken(ctx context.Context, refreshToken string) error {
	form := url.Values{
		"token":           {refreshToken},
		"token_type_hint": {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		endpointURL(c.vanityDomain, revokePath), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("revocation endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
