// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package wristband implements the OAuth client side of the Wristband hosted
// login flow: building the tenant authorize redirect, exchanging the callback
// code, revoking refresh tokens, and building the tenant logout redirect.
//
// The client is immutable after construction and safe to share across
// requests; all per-request state travels through the shim context and the
// signed login-state cookie.
package wristband

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/securecookie"
	"golang.org/x/oauth2"

	"github.com/wristband/go-service-auth/pkg/config"
	"github.com/wristband/go-service-auth/pkg/networking"
)

// Paths of the Wristband OAuth and logout endpoints, relative to the tenant
// or application vanity domain.
const (
	authorizePath = "/api/v1/oauth2/authorize"
	tokenPath     = "/api/v1/oauth2/token"
	revokePath    = "/api/v1/oauth2/revoke"
	logoutPath    = "/api/v1/logout"
)

// Scopes requested during login. offline_access yields the refresh token the
// session keeps for silent renewal and logout-time revocation.
var loginScopes = []string{"openid", "offline_access", "email"}

// AuthClient drives the hosted login flow against one Wristband application.
type AuthClient struct {
	clientID      string
	clientSecret  string
	vanityDomain  string
	loginURL      string
	redirectURI   string
	secureCookies bool

	codec      *securecookie.SecureCookie
	httpClient *http.Client
}

// NewAuthClient builds a client from validated configuration.
func NewAuthClient(cfg config.AuthConfig) (*AuthClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth configuration: %w", err)
	}

	client, err := networking.NewHttpClientBuilder().Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP client: %w", err)
	}

	return &AuthClient{
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		vanityDomain:  cfg.VanityDomain,
		loginURL:      cfg.LoginURL,
		redirectURI:   cfg.RedirectURI,
		secureCookies: !cfg.DangerouslyDisableSecureCookies,
		codec:         newLoginStateCodec(cfg.ClientSecret),
		httpClient:    client,
	}, nil
}

// newLoginStateCodec derives distinct signing and encryption keys from the
// client secret so the login-state cookie is opaque to the browser.
func newLoginStateCodec(clientSecret string) *securecookie.SecureCookie {
	hashKey := sha256.Sum256([]byte(clientSecret + ":login-state-hash"))
	blockKey := sha256.Sum256([]byte(clientSecret + ":login-state-block"))
	return securecookie.New(hashKey[:], blockKey[:])
}

// scheme returns https for real hosts, http for local development hosts.
func scheme(host string) string {
	if networking.IsLocalhost(host) {
		return networking.HttpScheme
	}
	return networking.HttpsScheme
}

// tenantHost builds the tenant-level domain for a tenant name. Wristband
// tenant domains hang off the application vanity domain with a dash.
func (c *AuthClient) tenantHost(tenantName string) string {
	return tenantName + "-" + c.vanityDomain
}

// endpointURL joins a scheme-qualified host with an endpoint path.
func endpointURL(host, path string) string {
	return fmt.Sprintf("%s://%s%s", scheme(host), host, path)
}

// oauthConfig builds the x/oauth2 configuration for one login exchange. The
// authorize endpoint lives on the tenant host; the token endpoint always
// lives on the application vanity domain.
func (c *AuthClient) oauthConfig(authorizeHost string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  c.redirectURI,
		Scopes:       loginScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   endpointURL(authorizeHost, authorizePath),
			TokenURL:  endpointURL(c.vanityDomain, tokenPath),
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// loginRedirectURL points back at this service's login endpoint, carrying
// tenant hints so the retried login lands on the same tenant.
func (c *AuthClient) loginRedirectURL(tenantName, tenantCustomDomain string) string {
	u, err := url.Parse(c.loginURL)
	if err != nil {
		return c.loginURL
	}
	q := u.Query()
	if tenantName != "" {
		q.Set("tenant_domain", tenantName)
	}
	if tenantCustomDomain != "" {
		q.Set("tenant_custom_domain", tenantCustomDomain)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
