// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config defines the configuration surface of the adapter.
//
// All values are constant for the process lifetime: AuthConfig describes the
// Wristband application this service authenticates against, SessionConfig
// describes the session cookie, and JWTConfig feeds the bearer-token
// strategy. Each struct validates itself; validation failures are deployment
// bugs and should abort startup.
package config

import (
	"errors"
	"fmt"

	"github.com/wristband/go-service-auth/pkg/networking"
)

// Session cookie defaults applied when SessionConfig leaves them unset.
const (
	DefaultSessionMaxAge = 86400
	DefaultCookieName    = "wb_session"
)

// AuthConfig identifies the Wristband application client.
type AuthConfig struct {
	// ClientID is the OAuth client ID issued by Wristband.
	ClientID string `mapstructure:"client_id"`

	// ClientSecret is the OAuth client secret issued by Wristband.
	ClientSecret string `mapstructure:"client_secret"`

	// VanityDomain is the Wristband application vanity domain
	// (e.g. myapp-mycompany.us.wristband.dev). OAuth endpoints are derived
	// from it.
	VanityDomain string `mapstructure:"vanity_domain"`

	// LoginURL is the absolute URL of this service's login endpoint. The
	// callback flow redirects here when the login state is missing or stale.
	LoginURL string `mapstructure:"login_url"`

	// RedirectURI is the absolute URL of this service's callback endpoint,
	// registered with Wristband.
	RedirectURI string `mapstructure:"redirect_uri"`

	// DangerouslyDisableSecureCookies drops the Secure attribute from the
	// cookies the auth client writes. Local development only.
	DangerouslyDisableSecureCookies bool `mapstructure:"dangerously_disable_secure_cookies"`
}

// Validate checks that AuthConfig has all required fields and valid values.
func (c *AuthConfig) Validate() error {
	if c.ClientID == "" {
		return errors.New("client ID is required")
	}
	if c.ClientSecret == "" {
		return errors.New("client secret is required")
	}
	if c.VanityDomain == "" {
		return errors.New("application vanity domain is required")
	}
	if err := networking.ValidateEndpointURL(c.LoginURL); err != nil {
		return fmt.Errorf("invalid login URL: %w", err)
	}
	if err := networking.ValidateEndpointURL(c.RedirectURI); err != nil {
		return fmt.Errorf("invalid redirect URI: %w", err)
	}
	return nil
}

// SessionConfig describes the session cookie issued by the bridge.
type SessionConfig struct {
	// Secrets sign the session cookie. The first entry signs new cookies;
	// the rest remain valid for verification, enabling key rotation.
	Secrets []string `mapstructure:"secrets"`

	// MaxAge is the cookie lifetime in seconds. Defaults to 86400.
	MaxAge int `mapstructure:"max_age"`

	// CookieName defaults to "wb_session".
	CookieName string `mapstructure:"cookie_name"`

	// Secure controls the cookie's Secure attribute. Defaults to true when
	// unset.
	Secure *bool `mapstructure:"secure"`

	// CSRFProtectionEnabled makes the session carry a CSRF token for the
	// CSRF guard hook to check.
	CSRFProtectionEnabled bool `mapstructure:"csrf_protection_enabled"`
}

// Validate checks that SessionConfig is usable.
func (c *SessionConfig) Validate() error {
	if len(c.Secrets) == 0 {
		return errors.New("at least one session secret is required")
	}
	for _, s := range c.Secrets {
		if s == "" {
			return errors.New("session secrets must be non-empty")
		}
	}
	if c.MaxAge < 0 {
		return errors.New("session max age must not be negative")
	}
	return nil
}

// MaxAgeOrDefault returns the configured max age, or the default.
func (c *SessionConfig) MaxAgeOrDefault() int {
	if c.MaxAge == 0 {
		return DefaultSessionMaxAge
	}
	return c.MaxAge
}

// CookieNameOrDefault returns the configured cookie name, or the default.
func (c *SessionConfig) CookieNameOrDefault() string {
	if c.CookieName == "" {
		return DefaultCookieName
	}
	return c.CookieName
}

// SecureOrDefault returns the configured Secure attribute, or true.
func (c *SessionConfig) SecureOrDefault() bool {
	if c.Secure == nil {
		return true
	}
	return *c.Secure
}

// JWTConfig configures the bearer-token strategy.
type JWTConfig struct {
	// Issuer is the expected token issuer. JWKS keys are discovered from it.
	Issuer string `mapstructure:"issuer"`

	// Audience lists the accepted audiences. A token passes when at least
	// one of its aud values appears here. Empty disables the audience check.
	Audience []string `mapstructure:"audience"`
}

// Validate checks that JWTConfig is usable.
func (c *JWTConfig) Validate() error {
	if err := networking.ValidateEndpointURL(c.Issuer); err != nil {
		return fmt.Errorf("invalid issuer: %w", err)
	}
	return nil
}

// Config aggregates the adapter configuration for the demo server.
type Config struct {
	Auth    AuthConfig    `mapstructure:"auth"`
	Session SessionConfig `mapstructure:"session"`
	JWT     JWTConfig     `mapstructure:"jwt"`
}

// Validate checks all sections.
func (c *Config) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("jwt: %w", err)
	}
	return nil
}
