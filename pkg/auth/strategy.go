// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"net/http"
	"strings"
	"sync"

	stderrors "errors"

	"github.com/wristband/go-service-auth/pkg/auth/token"
	"github.com/wristband/go-service-auth/pkg/errors"
)

// StrategyName is the name the Wristband strategy registers under.
const StrategyName = "wristband"

const bearerPrefix = "Bearer "

// StrategyConfig is the wristband sub-object of the authentication service
// configuration, merged with the strategy name.
type StrategyConfig struct {
	Name      string
	Issuer    string
	Audiences []string
}

// WristbandStrategy validates Wristband-issued bearer JWTs.
//
// The underlying token validator is built lazily on first use from the
// configured issuer and reused for the lifetime of the strategy. The
// transition is one-way; a strategy is never re-pointed at another issuer.
type WristbandStrategy struct {
	service *Service

	mu        sync.Mutex
	validator *token.Validator
}

// NewWristbandStrategy creates the strategy. Register it on the
// authentication service before use.
func NewWristbandStrategy() *WristbandStrategy {
	return &WristbandStrategy{}
}

// Name returns the strategy name.
func (*WristbandStrategy) Name() string {
	return StrategyName
}

func (s *WristbandStrategy) setService(svc *Service) {
	s.service = svc
}

// Configuration reads the wristband sub-object from the owning service's
// configuration. Re-read on every call; no caching.
func (s *WristbandStrategy) Configuration() StrategyConfig {
	cfg := StrategyConfig{Name: StrategyName}
	if s.service == nil {
		return cfg
	}
	if wb := s.service.Configuration().Wristband; wb != nil {
		cfg.Issuer = wb.Issuer
		cfg.Audiences = wb.Audience
	}
	return cfg
}

// Parse extracts a bearer token from the request. A missing or non-Bearer
// Authorization header is not an error; it just means this strategy does not
// claim the request.
func (*WristbandStrategy) Parse(r *http.Request) (*Request, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, false
	}
	return &Request{
		Strategy:    StrategyName,
		AccessToken: strings.TrimPrefix(authHeader, bearerPrefix),
	}, true
}

// Authenticate validates the access token and maps its claims to a user
// identity.
func (s *WristbandStrategy) Authenticate(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.AccessToken == "" {
		return nil, errors.NewBadRequest("No access token provided")
	}

	cfg := s.Configuration()
	if cfg.Issuer == "" {
		// A missing issuer is a deployment misconfiguration, not a client error.
		return nil, errors.NewInternal("Wristband issuer is not configured")
	}

	validator, err := s.validatorFor(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(http.StatusInternalServerError, "failed to initialize token validator", err)
	}

	claims, err := validator.ValidateToken(ctx, req.AccessToken)
	if err != nil {
		if stderrors.Is(err, token.ErrInvalidAudience) {
			return nil, errors.NewUnauthorized("Invalid audience")
		}
		return nil, errors.Wrap(http.StatusUnauthorized, "Invalid access token", err)
	}

	user, err := claimsToIdentity(claims)
	if err != nil {
		return nil, err
	}

	return &Result{
		AccessToken:    req.AccessToken,
		Authentication: Authentication{Strategy: StrategyName},
		User:           user,
	}, nil
}

// validatorFor returns the memoized validator, building it on first use.
// Construction is guarded so concurrent first calls observe one instance.
func (s *WristbandStrategy) validatorFor(ctx context.Context, cfg StrategyConfig) (*token.Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.validator != nil {
		return s.validator, nil
	}

	validator, err := token.NewValidator(ctx, token.ValidatorConfig{
		Issuer:    cfg.Issuer,
		Audiences: cfg.Audiences,
	})
	if err != nil {
		return nil, err
	}

	s.validator = validator
	return s.validator, nil
}
