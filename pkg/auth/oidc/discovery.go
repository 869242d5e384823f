// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package oidc provides OpenID Connect discovery for the token validator.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gooidc "github.com/coreos/go-oidc/v3/oidc"

	"github.com/wristband/go-service-auth/pkg/networking"
)

// DiscoveryDocument holds the subset of the OIDC discovery document the
// adapter cares about.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint,omitempty"`
	JWKSURI               string `json:"jwks_uri"`
	RevocationEndpoint    string `json:"revocation_endpoint,omitempty"`
}

// DiscoverEndpoints fetches {issuer}/.well-known/openid-configuration and
// returns the discovered endpoints. go-oidc performs the fetch and validates
// that the document's issuer matches the requested one.
func DiscoverEndpoints(ctx context.Context, issuer string) (*DiscoveryDocument, error) {
	return discoverEndpointsWithClient(ctx, issuer, nil)
}

func discoverEndpointsWithClient(ctx context.Context, issuer string, client *http.Client) (*DiscoveryDocument, error) {
	if err := networking.ValidateEndpointURL(issuer); err != nil {
		return nil, fmt.Errorf("invalid issuer URL: %w", err)
	}

	if client == nil {
		built, err := networking.NewHttpClientBuilder().Build()
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client = built
	}

	ctx = gooidc.ClientContext(ctx, client)
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC endpoints: %w", err)
	}

	var doc DiscoveryDocument
	if err := provider.Claims(&doc); err != nil {
		return nil, fmt.Errorf("failed to extract provider claims: %w", err)
	}

	if doc.JWKSURI == "" {
		return nil, errors.New("discovery document is missing jwks_uri")
	}

	return &doc, nil
}
