// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package networking provides HTTP client plumbing shared by the adapter's
// outbound calls (token exchange, revocation, JWKS and discovery fetches).
package networking

import (
	"net/url"
	"strings"
)

// Scheme constants for URL validation
const (
	HttpsScheme = "https"
	HttpScheme  = "http"
)

// IsURL reports whether the string is a well-formed http or https URL.
func IsURL(input string) bool {
	parsed, err := url.Parse(input)
	if err != nil {
		return false
	}
	if parsed.Scheme != HttpsScheme && parsed.Scheme != HttpScheme {
		return false
	}
	return parsed.Host != ""
}

// IsLocalhost reports whether the host (optionally host:port) refers to the
// local machine. Used to relax the HTTPS requirement for development setups.
func IsLocalhost(host string) bool {
	for _, local := range []string{"localhost", "127.0.0.1", "[::1]"} {
		if host == local || strings.HasPrefix(host, local+":") {
			return true
		}
	}
	return false
}

// ValidateEndpointURL checks that the URL is well-formed and uses HTTPS,
// allowing plain HTTP only for localhost endpoints.
func ValidateEndpointURL(endpoint string) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if parsed.Host == "" {
		return &url.Error{Op: "validate", URL: endpoint, Err: errMissingHost}
	}
	if parsed.Scheme == HttpsScheme {
		return nil
	}
	if parsed.Scheme == HttpScheme && IsLocalhost(parsed.Host) {
		return nil
	}
	return &url.Error{Op: "validate", URL: endpoint, Err: errInsecureScheme}
}
