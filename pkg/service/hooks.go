// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package service exposes the Wristband auth operations (login, callback,
// logout, session, token) behind a hook pipeline and a chi REST mount.
//
// Operations and hooks never write the response themselves; they record the
// outcome on the hook context and the transport writes it once the whole
// chain has run. That keeps redirects and cache headers inspectable by later
// hooks, matching how the shim records instead of sends.
package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/wristband/go-service-auth/pkg/auth"
	"github.com/wristband/go-service-auth/pkg/bridge"
	"github.com/wristband/go-service-auth/pkg/errors"
)

// ProviderREST marks calls that arrived through the REST transport. Internal
// calls leave the provider empty and are exempt from the transport-shaping
// hooks.
const ProviderREST = "rest"

// CSRFHeader is the request header CSRF-protected calls must carry.
const CSRFHeader = "x-csrf-token"

const bearerPrefix = "Bearer "

// HTTPShape is the transport-level outcome recorded by after-hooks.
type HTTPShape struct {
	Status   int
	Location string
	Headers  map[string]string
}

// HookContext carries one service call through its before-hooks, operation,
// and after-hooks.
type HookContext struct {
	// Method is the service method name ("login", "create", ...).
	Method string

	// Params is the per-request parameter bag.
	Params *bridge.Params

	// Data is the call payload, if any.
	Data any

	// Result is the operation outcome; after-hooks may rewrite it.
	Result any

	// HTTP is the transport shape derived from the result.
	HTTP HTTPShape

	// Auth is the authentication service the guard delegates to.
	Auth auth.Authenticator
}

// AuthParams lets the bridge accessors unwrap a hook context directly.
func (hc *HookContext) AuthParams() *bridge.Params {
	return hc.Params
}

// requestHeader reads a header off the call's request, preferring the shim
// view when present.
func (hc *HookContext) requestHeader(name string) string {
	p := hc.Params
	if p == nil {
		return ""
	}
	if p.Shim != nil {
		return p.Shim.Req.Headers.Get(name)
	}
	if p.Native != nil {
		return p.Native.R.Header.Get(name)
	}
	return ""
}

// Hook runs before or after a service operation. Returning an error aborts
// the call.
type Hook func(ctx context.Context, hc *HookContext) error

// GuardOptions tune the auth guard.
type GuardOptions struct {
	// AllowSessionFallbackOnBadJWT lets a request with an invalid bearer
	// token still pass on the strength of its session. Off by default: a
	// presented token that fails validation is rejected outright.
	AllowSessionFallbackOnBadJWT bool
}

// Guard returns the two-tier authentication hook: a presented bearer token
// is validated through the authentication service first; requests without
// one fall back to the session.
func Guard(opts GuardOptions) Hook {
	return func(ctx context.Context, hc *HookContext) error {
		if hc.Params == nil {
			return errors.NewInternal("request params not found. Did you configure the wristband bridge middleware?")
		}

		authHeader := hc.requestHeader("Authorization")
		if strings.HasPrefix(authHeader, bearerPrefix) {
			if hc.Auth == nil {
				return errors.NewInternal("Authentication service not available")
			}

			result, err := hc.Auth.Authenticate(ctx, &auth.Request{
				Strategy:    auth.StrategyName,
				AccessToken: strings.TrimPrefix(authHeader, bearerPrefix),
			})
			if err == nil {
				hc.Params.Authentication = result
				hc.Params.User = result.User
				hc.Params.Authenticated = true
				if n := hc.Params.Native; n != nil && n.R != nil {
					// Handlers past the hook chain read the identity off
					// the request context.
					n.R = n.R.WithContext(auth.WithIdentity(n.R.Context(), result.User))
				}
				return nil
			}
			if !opts.AllowSessionFallbackOnBadJWT {
				return errors.NewUnauthorized("Invalid access token")
			}
		}

		if sess := hc.Params.Session; sess != nil && sess.Authenticated() {
			hc.Params.Authenticated = true
			return nil
		}
		return errors.NewUnauthorized("Not authenticated")
	}
}

// Methods that mutate state and therefore require a CSRF token.
var csrfMethods = map[string]struct{}{
	"create": {},
	"update": {},
	"patch":  {},
	"remove": {},
}

// CSRFProtect rejects external mutating calls whose x-csrf-token header does
// not match the session's CSRF token. Internal calls and read methods pass
// through untouched. Token generation and rotation live in the session
// store, not here.
func CSRFProtect(_ context.Context, hc *HookContext) error {
	if hc.Params == nil || hc.Params.Provider == "" {
		return nil
	}
	if _, mutating := csrfMethods[hc.Method]; !mutating {
		return nil
	}

	sess := hc.Params.Session
	if sess == nil || sess.CSRFToken == "" {
		return errors.NewForbidden("Forbidden (CSRF)")
	}

	header := hc.requestHeader(CSRFHeader)
	if header == "" || header != sess.CSRFToken {
		return errors.NewForbidden("Forbidden (CSRF)")
	}
	return nil
}

// RedirectResult is the outcome of the redirect-producing operations.
type RedirectResult struct {
	RedirectURL string `json:"redirectUrl"`
}

// OKResult replaces a redirect result's body so the redirect target never
// appears in a visible response body.
type OKResult struct {
	OK bool `json:"ok"`
}

// RedirectAfter turns a redirect result into a 302 with a Location header
// for external calls. Internal callers keep the raw result.
func RedirectAfter(_ context.Context, hc *HookContext) error {
	if hc.Params == nil || hc.Params.Provider != ProviderREST {
		return nil
	}

	rr, ok := hc.Result.(*RedirectResult)
	if !ok || rr == nil {
		return nil
	}

	hc.HTTP.Status = http.StatusFound
	hc.HTTP.Location = rr.RedirectURL
	hc.Result = &OKResult{OK: true}
	return nil
}

// NoStoreAfter marks external responses as non-cacheable, preserving any
// headers already recorded.
func NoStoreAfter(_ context.Context, hc *HookContext) error {
	if hc.Params == nil || hc.Params.Provider != ProviderREST {
		return nil
	}

	if hc.HTTP.Headers == nil {
		hc.HTTP.Headers = make(map[string]string)
	}
	hc.HTTP.Headers["Cache-Control"] = "no-store"
	hc.HTTP.Headers["Pragma"] = "no-cache"
	return nil
}
