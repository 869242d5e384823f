// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"net/http"

	"github.com/wristband/go-service-auth/pkg/config"
	"github.com/wristband/go-service-auth/pkg/errors"
)

// Request is a credential bundle routed to a named strategy.
type Request struct {
	// Strategy names the strategy that should handle the request.
	Strategy string

	// AccessToken is the bearer token presented by the caller.
	AccessToken string
}

// Authentication describes how a result was produced.
type Authentication struct {
	Strategy string `json:"strategy"`
}

// Result is a successful authentication outcome.
type Result struct {
	AccessToken    string         `json:"accessToken"`
	Authentication Authentication `json:"authentication"`
	User           *Identity      `json:"user,omitempty"`
}

// Authenticator turns request credentials into an authenticated identity.
// The guard hook depends on this interface rather than on the concrete
// service so tests can substitute their own.
type Authenticator interface {
	Authenticate(ctx context.Context, req *Request) (*Result, error)
}

// Strategy is a pluggable authentication method.
type Strategy interface {
	Name() string
	Authenticate(ctx context.Context, req *Request) (*Result, error)
}

// serviceAware is implemented by strategies that read their configuration
// from the owning service.
type serviceAware interface {
	setService(*Service)
}

// Config holds the per-strategy configuration sub-objects.
type Config struct {
	// Wristband configures the Wristband JWT strategy.
	Wristband *config.JWTConfig
}

// Service is the authentication subsystem: a registry of named strategies
// plus their configuration. Construct once at startup and share.
type Service struct {
	config     Config
	strategies map[string]Strategy
}

// NewService creates an authentication service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{
		config:     cfg,
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy under its own name. Strategies that read service
// configuration get a back-reference to this service.
func (s *Service) Register(strategy Strategy) {
	if aware, ok := strategy.(serviceAware); ok {
		aware.setService(s)
	}
	s.strategies[strategy.Name()] = strategy
}

// Configuration returns the service configuration. Strategies re-read it on
// every authentication call; it is static but cheap to read.
func (s *Service) Configuration() Config {
	return s.config
}

// Authenticate routes the request to the named strategy.
func (s *Service) Authenticate(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Strategy == "" {
		return nil, errors.NewBadRequest("authentication strategy is required")
	}

	strategy, ok := s.strategies[req.Strategy]
	if !ok {
		return nil, errors.Newf(http.StatusBadRequest, "unknown authentication strategy %q", req.Strategy)
	}

	return strategy.Authenticate(ctx, req)
}
