// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package bridge wires the auth client and the session store into the
// request pipeline. The middleware materializes a per-request parameter bag
// (native pair, session, shim, auth client) that the service operations and
// hooks read through typed accessors instead of reaching into the request
// context themselves.
package bridge

import (
	"context"
	"net/http"

	"github.com/wristband/go-service-auth/pkg/auth"
	"github.com/wristband/go-service-auth/pkg/session"
	"github.com/wristband/go-service-auth/pkg/shim"
	"github.com/wristband/go-service-auth/pkg/wristband"
)

// AuthClient is the vendor-flow surface the service operations need. The
// concrete implementation is *wristband.AuthClient; tests substitute fakes.
type AuthClient interface {
	Login(ctx context.Context, sc *shim.Context, opts wristband.LoginOptions) error
	Callback(ctx context.Context, sc *shim.Context) (*wristband.CallbackResult, error)
	Logout(ctx context.Context, sc *shim.Context, opts wristband.LogoutOptions) error
}

// Native is the underlying request/response pair.
type Native struct {
	W http.ResponseWriter
	R *http.Request
}

// Params is the per-request parameter bag. Exactly one exists per request;
// the middleware owns its lifecycle.
type Params struct {
	// Native is the platform request/response pair.
	Native *Native

	// Session is the cookie-backed session for this request.
	Session *session.Session

	// Client is the shared auth client.
	Client AuthClient

	// Shim is the portable request/response view handed to the auth flows.
	Shim *shim.Context

	// Provider names the transport that delivered the call ("rest"), or is
	// empty for internal calls.
	Provider string

	// Authentication state populated by the guard hook.
	Authenticated  bool
	Authentication *auth.Result
	User           *auth.Identity
}

// ParamsCarrier is implemented by values that wrap a Params, such as the
// service hook context. Accessors accept either a *Params or a carrier.
type ParamsCarrier interface {
	AuthParams() *Params
}

type paramsContextKey struct{}

// WithParams stores the bag in the request context.
func WithParams(ctx context.Context, p *Params) context.Context {
	return context.WithValue(ctx, paramsContextKey{}, p)
}

// ParamsFromContext retrieves the bag from a request context.
func ParamsFromContext(ctx context.Context) (*Params, bool) {
	p, ok := ctx.Value(paramsContextKey{}).(*Params)
	return p, ok
}

// Middleware loads the session and attaches the parameter bag to every
// request. When an earlier middleware already attached a bag, its fields are
// merged rather than overwritten so authentication state survives.
func Middleware(client AuthClient, store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params, ok := ParamsFromContext(r.Context())
			if !ok {
				params = &Params{}
				r = r.WithContext(WithParams(r.Context(), params))
			}

			if params.Native == nil {
				params.Native = &Native{W: w, R: r}
			}
			if params.Session == nil {
				params.Session = store.Load(r)
			}
			if params.Client == nil {
				params.Client = client
			}
			if params.Shim == nil {
				params.Shim = shim.NewContext(w, r)
			}

			next.ServeHTTP(w, r)
		})
	}
}
