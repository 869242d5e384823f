// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package token provides JWT validation against a JWKS endpoint.
package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/wristband/go-service-auth/pkg/auth/oidc"
	"github.com/wristband/go-service-auth/pkg/networking"
)

// Common errors
var (
	ErrNoToken                 = errors.New("no token provided")
	ErrInvalidToken            = errors.New("invalid token")
	ErrTokenExpired            = errors.New("token expired")
	ErrInvalidIssuer           = errors.New("invalid issuer")
	ErrInvalidAudience         = errors.New("invalid audience")
	ErrFailedToDiscoverOIDC    = errors.New("failed to discover OIDC configuration")
	ErrMissingIssuerAndJWKSURL = errors.New("either issuer or JWKS URL must be provided")
)

// Validator validates JWTs against the issuer's JWKS.
type Validator struct {
	issuer     string
	audiences  []string
	jwksURL    string
	jwksClient *jwk.Cache

	// Lazy JWKS registration
	jwksRegistered      bool
	jwksRegistrationMu  sync.Mutex
	jwksRegistrationErr error
}

// ValidatorConfig contains configuration for the token validator.
type ValidatorConfig struct {
	// Issuer is the expected token issuer. When JWKSURL is empty, the JWKS
	// endpoint is discovered from the issuer's OIDC configuration.
	Issuer string

	// Audiences are the accepted audiences. A token is valid when at least
	// one of its aud values appears here. Empty disables the check.
	Audiences []string

	// JWKSURL is the URL to fetch the JWKS from.
	JWKSURL string
}

// NewValidator creates a new token validator.
func NewValidator(ctx context.Context, config ValidatorConfig) (*Validator, error) {
	jwksURL := config.JWKSURL

	// If JWKS URL is not provided but issuer is, discover it
	if jwksURL == "" && config.Issuer != "" {
		doc, err := oidc.DiscoverEndpoints(ctx, config.Issuer)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToDiscoverOIDC, err)
		}
		jwksURL = doc.JWKSURI
	}

	if jwksURL == "" {
		return nil, ErrMissingIssuerAndJWKSURL
	}

	httpClient, err := networking.NewHttpClientBuilder().Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	// JWKS client with auto-refresh
	httprcClient := httprc.NewClient(httprc.WithHTTPClient(httpClient))
	cache, err := jwk.NewCache(ctx, httprcClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS cache: %w", err)
	}

	return &Validator{
		issuer:     config.Issuer,
		audiences:  config.Audiences,
		jwksURL:    jwksURL,
		jwksClient: cache,
	}, nil
}

// ensureJWKSRegistered ensures that the JWKS URL is registered with the cache.
func (v *Validator) ensureJWKSRegistered(ctx context.Context) error {
	v.jwksRegistrationMu.Lock()
	defer v.jwksRegistrationMu.Unlock()

	if v.jwksRegistered {
		return v.jwksRegistrationErr
	}

	registrationCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := v.jwksClient.Register(registrationCtx, v.jwksURL)
	if err != nil {
		v.jwksRegistrationErr = fmt.Errorf("failed to register JWKS URL: %w", err)
	} else {
		v.jwksRegistrationErr = nil
	}

	v.jwksRegistered = true
	return v.jwksRegistrationErr
}

// getKeyFromJWKS gets the key from the JWKS.
func (v *Validator) getKeyFromJWKS(ctx context.Context, token *jwt.Token) (interface{}, error) {
	if err := v.ensureJWKSRegistered(ctx); err != nil {
		return nil, fmt.Errorf("JWKS registration failed: %w", err)
	}

	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}

	kid, ok := token.Header["kid"].(string)
	if !ok {
		return nil, fmt.Errorf("token header missing kid")
	}

	keySet, err := v.jwksClient.Lookup(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup JWKS: %w", err)
	}

	key, found := keySet.LookupKeyID(kid)
	if !found {
		return nil, fmt.Errorf("key ID %s not found in JWKS", kid)
	}

	var rawKey interface{}
	if err := jwk.Export(key, &rawKey); err != nil {
		return nil, fmt.Errorf("failed to export raw key: %w", err)
	}

	return rawKey, nil
}

// validateClaims validates the claims in the token.
func (v *Validator) validateClaims(claims jwt.MapClaims) error {
	if v.issuer != "" {
		issuerClaim, err := claims.GetIssuer()
		if err != nil {
			return fmt.Errorf("failed to get issuer from claims: %w", err)
		}
		if strings.TrimSpace(issuerClaim) != strings.TrimSpace(v.issuer) {
			return ErrInvalidIssuer
		}
	}

	if len(v.audiences) > 0 {
		audiences, err := claims.GetAudience()
		if err != nil {
			return ErrInvalidAudience
		}

		// The aud claim may be a string or a list on both sides; the token
		// passes when the two sets intersect.
		found := false
		for _, aud := range audiences {
			for _, expected := range v.audiences {
				if aud == expected {
					found = true
					break
				}
			}
			if found {
				break
			}
		}

		if !found {
			return ErrInvalidAudience
		}
	}

	expirationTime, err := claims.GetExpirationTime()
	if err != nil || expirationTime == nil || expirationTime.Before(time.Now()) {
		return ErrTokenExpired
	}

	return nil
}

// ValidateToken validates a token and returns its claims.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return v.getKeyFromJWKS(ctx, token)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to get claims from token")
	}

	if err := v.validateClaims(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// JWKSURL returns the JWKS URL used by the validator
func (v *Validator) JWKSURL() string {
	return v.jwksURL
}
