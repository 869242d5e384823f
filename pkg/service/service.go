// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"net/http"

	"github.com/wristband/go-service-auth/pkg/bridge"
	"github.com/wristband/go-service-auth/pkg/errors"
	"github.com/wristband/go-service-auth/pkg/session"
	"github.com/wristband/go-service-auth/pkg/wristband"
)

// LoginData optionally overrides where the login lands.
type LoginData struct {
	TenantName         string `json:"tenantName,omitempty"`
	ReturnURL          string `json:"returnUrl,omitempty"`
	TenantCustomDomain string `json:"tenantCustomDomain,omitempty"`
}

// WristbandService implements the five auth operations. It is stateless;
// everything request-scoped arrives through the params bag.
type WristbandService struct{}

// NewWristbandService creates the service.
func NewWristbandService() *WristbandService {
	return &WristbandService{}
}

// Login builds the hosted-login redirect. Data overrides are overlaid onto
// the shim request before the auth client reads it, so internal callers and
// REST query parameters take the same path.
func (*WristbandService) Login(ctx context.Context, data *LoginData, pc any) (*RedirectResult, error) {
	client, err := bridge.AuthClientFromParams(pc)
	if err != nil {
		return nil, err
	}
	sc, err := bridge.ShimFromParams(pc)
	if err != nil {
		return nil, err
	}

	opts := wristband.LoginOptions{}
	if data != nil {
		if data.TenantName != "" {
			sc.Req.Query.Set("tenant_domain", data.TenantName)
			opts.DefaultTenantDomain = data.TenantName
		}
		if data.ReturnURL != "" {
			sc.Req.Query.Set("return_url", data.ReturnURL)
		}
		if data.TenantCustomDomain != "" {
			sc.Req.Query.Set("tenant_custom_domain", data.TenantCustomDomain)
		}
	}

	if err := client.Login(ctx, sc, opts); err != nil {
		return nil, err
	}

	redirectURL := sc.Res.RedirectURL()
	if redirectURL == "" {
		return nil, errors.NewInternal("Login redirect missing")
	}
	return &RedirectResult{RedirectURL: redirectURL}, nil
}

// Callback completes the login. A vendor-signaled restart is passed through
// as a redirect without touching the session; a completed exchange is loaded
// into the session and persisted before the post-login redirect is computed.
func (*WristbandService) Callback(ctx context.Context, pc any) (*RedirectResult, error) {
	client, err := bridge.AuthClientFromParams(pc)
	if err != nil {
		return nil, err
	}
	sc, err := bridge.ShimFromParams(pc)
	if err != nil {
		return nil, err
	}

	result, err := client.Callback(ctx, sc)
	if err != nil {
		return nil, err
	}

	if result == nil {
		redirectURL := sc.Res.RedirectURL()
		if redirectURL == "" {
			return nil, errors.NewInternal("Callback redirect missing")
		}
		return &RedirectResult{RedirectURL: redirectURL}, nil
	}

	sess, err := bridge.SessionFromParams(pc)
	if err != nil {
		return nil, err
	}
	native, err := bridge.NativeFromParams(pc)
	if err != nil {
		return nil, err
	}

	sess.SetTokens(result.AccessToken, result.RefreshToken, result.ExpiresAt,
		result.TenantName, result.TenantCustomDomain)
	if err := sess.Save(native.W, native.R); err != nil {
		return nil, errors.Wrap(http.StatusInternalServerError, "failed to persist session", err)
	}

	returnURL := result.ReturnURL
	if returnURL == "" {
		returnURL = "/"
	}
	return &RedirectResult{RedirectURL: returnURL}, nil
}

// Logout destroys the session first, then builds the tenant logout redirect
// from the state captured before destruction.
func (*WristbandService) Logout(ctx context.Context, pc any) (*RedirectResult, error) {
	client, err := bridge.AuthClientFromParams(pc)
	if err != nil {
		return nil, err
	}
	sc, err := bridge.ShimFromParams(pc)
	if err != nil {
		return nil, err
	}
	sess, err := bridge.SessionFromParams(pc)
	if err != nil {
		return nil, err
	}
	native, err := bridge.NativeFromParams(pc)
	if err != nil {
		return nil, err
	}

	opts := wristband.LogoutOptions{
		RefreshToken:       sess.RefreshToken,
		TenantName:         sess.TenantName,
		TenantCustomDomain: sess.TenantCustomDomain,
	}

	if err := sess.Destroy(native.W, native.R); err != nil {
		return nil, errors.Wrap(http.StatusInternalServerError, "failed to destroy session", err)
	}

	if err := client.Logout(ctx, sc, opts); err != nil {
		return nil, err
	}

	redirectURL := sc.Res.RedirectURL()
	if redirectURL == "" {
		return nil, errors.NewInternal("Logout redirect missing")
	}
	return &RedirectResult{RedirectURL: redirectURL}, nil
}

// Session returns the token-free session projection.
func (*WristbandService) Session(_ context.Context, pc any) (session.Metadata, error) {
	sess, err := bridge.SessionFromParams(pc)
	if err != nil {
		return session.Metadata{}, err
	}
	return sess.Metadata(), nil
}

// Token returns the held access token. For internal and server-to-server
// callers; expose it externally only behind additional authorization.
func (*WristbandService) Token(_ context.Context, pc any) (session.TokenResponse, error) {
	sess, err := bridge.SessionFromParams(pc)
	if err != nil {
		return session.TokenResponse{}, err
	}
	return sess.TokenResponse(), nil
}
