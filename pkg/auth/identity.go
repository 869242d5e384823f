// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package auth provides the authentication subsystem: a strategy registry,
// the Wristband bearer-token strategy, and identity context storage.
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/wristband/go-service-auth/pkg/errors"
)

// Claim carrying the tenant in Wristband-issued tokens. Tokens minted by
// other tooling may use a plain "tenant" claim instead.
const tenantClaim = "wb:tenant"

// Identity represents an authenticated user.
type Identity struct {
	// Subject is the OIDC sub claim.
	Subject string `json:"sub"`

	// Email is the user's email address, when present in the token.
	Email string `json:"email,omitempty"`

	// Tenant is the Wristband tenant the user belongs to.
	Tenant string `json:"tenant,omitempty"`

	// Claims holds the full decoded token payload for authorization logic
	// that needs provider-specific claims.
	Claims jwt.MapClaims `json:"-"`
}

// claimsToIdentity converts JWT claims to an Identity.
// It requires the 'sub' claim per OIDC Core 1.0 spec § 5.1.
func claimsToIdentity(claims jwt.MapClaims) (*Identity, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.NewUnauthorized("missing or invalid 'sub' claim")
	}

	identity := &Identity{
		Subject: sub,
		Claims:  claims,
	}

	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}

	if tenant, ok := claims[tenantClaim].(string); ok {
		identity.Tenant = tenant
	} else if tenant, ok := claims["tenant"].(string); ok {
		identity.Tenant = tenant
	}

	return identity, nil
}
