// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wristband/go-service-auth/pkg/auth"
	"github.com/wristband/go-service-auth/pkg/bridge"
	"github.com/wristband/go-service-auth/pkg/errors"
	"github.com/wristband/go-service-auth/pkg/logger"
)

// Handler mounts the service operations on a REST router. The bridge
// middleware must run before it so the params bag exists.
type Handler struct {
	service *WristbandService
	auth    auth.Authenticator

	before map[string][]Hook
	after  map[string][]Hook
}

// Option customizes a Handler.
type Option func(*Handler)

// WithBeforeHooks appends before-hooks for one method.
func WithBeforeHooks(method string, hooks ...Hook) Option {
	return func(h *Handler) {
		h.before[method] = append(h.before[method], hooks...)
	}
}

// WithAfterHooks appends after-hooks for one method, after the defaults.
func WithAfterHooks(method string, hooks ...Hook) Option {
	return func(h *Handler) {
		h.after[method] = append(h.after[method], hooks...)
	}
}

// NewHandler builds the REST handler. The default after-hooks mirror the
// service contract: login, callback, and logout redirect; session is marked
// non-cacheable.
func NewHandler(authService auth.Authenticator, opts ...Option) *Handler {
	h := &Handler{
		service: NewWristbandService(),
		auth:    authService,
		before:  make(map[string][]Hook),
		after: map[string][]Hook{
			"login":    {RedirectAfter},
			"callback": {RedirectAfter},
			"logout":   {RedirectAfter},
			"session":  {NoStoreAfter},
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router for the auth/wristband mount.
//
// The token endpoint ships unguarded because its intended callers are
// internal; mount it behind Guard (WithBeforeHooks) before exposing the
// router to browsers.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/login", h.operation("login", func(ctx context.Context, hc *HookContext) (any, error) {
		return h.service.Login(ctx, nil, hc)
	}))
	r.Get("/callback", h.operation("callback", func(ctx context.Context, hc *HookContext) (any, error) {
		return h.service.Callback(ctx, hc)
	}))
	r.Get("/logout", h.operation("logout", func(ctx context.Context, hc *HookContext) (any, error) {
		return h.service.Logout(ctx, hc)
	}))
	r.Get("/session", h.operation("session", func(ctx context.Context, hc *HookContext) (any, error) {
		return h.service.Session(ctx, hc)
	}))
	r.Post("/token", h.operation("token", func(ctx context.Context, hc *HookContext) (any, error) {
		return h.service.Token(ctx, hc)
	}))

	return r
}

func (h *Handler) operation(method string, run func(ctx context.Context, hc *HookContext) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, ok := bridge.ParamsFromContext(r.Context())
		if !ok {
			writeError(w, errors.NewInternal("request params not found. Did you configure the wristband bridge middleware?"))
			return
		}
		params.Provider = ProviderREST

		hc := &HookContext{
			Method: method,
			Params: params,
			Auth:   h.auth,
		}

		for _, hook := range h.before[method] {
			if err := hook(r.Context(), hc); err != nil {
				writeError(w, err)
				return
			}
		}

		result, err := run(r.Context(), hc)
		if err != nil {
			writeError(w, err)
			return
		}
		hc.Result = result

		for _, hook := range h.after[method] {
			if err := hook(r.Context(), hc); err != nil {
				writeError(w, err)
				return
			}
		}

		writeShape(w, hc)
	}
}

func writeShape(w http.ResponseWriter, hc *HookContext) {
	for name, value := range hc.HTTP.Headers {
		w.Header().Set(name, value)
	}
	if hc.HTTP.Location != "" {
		w.Header().Set("Location", hc.HTTP.Location)
	}

	status := hc.HTTP.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if hc.Result != nil {
		if err := json.NewEncoder(w).Encode(hc.Result); err != nil {
			logger.Errorw("failed to encode response body", "error", err)
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps a failure to a response. Server faults are logged in full
// and genericized so internals never reach the client; client errors carry
// their message through.
func writeError(w http.ResponseWriter, err error) {
	code := errors.Code(err)

	message := err.Error()
	var tagged *errors.Error
	if stderrors.As(err, &tagged) {
		message = tagged.Message
	}

	if code >= http.StatusInternalServerError {
		logger.Errorw("internal error while handling auth request", "error", err)
		message = "An internal error occurred"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if encodeErr := json.NewEncoder(w).Encode(errorBody{Error: message}); encodeErr != nil {
		logger.Errorw("failed to encode error response", "error", encodeErr)
	}
}
