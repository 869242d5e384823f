// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package wristband

import (
	"net/http"

	"github.com/wristband/go-service-auth/pkg/shim"
)

// loginStateCookie carries the in-flight login across the authorize redirect.
const (
	loginStateCookie = "wb_login_state"
	loginStateMaxAge = 3600
)

// loginState is the signed payload of the login-state cookie. It binds the
// callback to the authorize request that started it.
type loginState struct {
	State              string `json:"state"`
	Verifier           string `json:"verifier"`
	ReturnURL          string `json:"returnUrl,omitempty"`
	TenantName         string `json:"tenantName,omitempty"`
	TenantCustomDomain string `json:"tenantCustomDomain,omitempty"`
}

func (c *AuthClient) loginStateCookieOptions() shim.CookieOptions {
	return shim.CookieOptions{
		MaxAge:   loginStateMaxAge,
		Secure:   c.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *AuthClient) writeLoginState(res *shim.Response, state loginState) error {
	encoded, err := c.codec.Encode(loginStateCookie, state)
	if err != nil {
		return err
	}
	res.SetCookie(loginStateCookie, encoded, c.loginStateCookieOptions())
	return nil
}

// readLoginState decodes the login-state cookie. A missing or unverifiable
// cookie returns ok=false; the callback treats that as a stale login.
func (c *AuthClient) readLoginState(req *shim.Request) (loginState, bool) {
	raw, ok := req.Cookie(loginStateCookie)
	if !ok {
		return loginState{}, false
	}

	var state loginState
	if err := c.codec.Decode(loginStateCookie, raw, &state); err != nil {
		return loginState{}, false
	}
	return state, true
}

func (c *AuthClient) clearLoginState(res *shim.Response) {
	res.ClearCookie(loginStateCookie, c.loginStateCookieOptions())
}
