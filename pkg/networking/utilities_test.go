// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package networking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"valid https url", "https://example.com", true},
		{"valid http url", "http://example.com", true},
		{"valid https url with path and query", "https://example.com/path?param=value", true},
		{"valid https url with port", "https://example.com:8080", true},
		{"empty string", "", false},
		{"not a url", "not-a-url", false},
		{"unsupported scheme", "ftp://example.com", false},
		{"missing scheme", "example.com", false},
		{"missing host", "https://", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsURL(tt.input), "Input: %s", tt.input)
		})
	}
}

func TestIsLocalhost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"localhost without port", "localhost", true},
		{"localhost with port", "localhost:8080", true},
		{"127.0.0.1 without port", "127.0.0.1", true},
		{"127.0.0.1 with port", "127.0.0.1:8080", true},
		{"IPv6 localhost without port", "[::1]", true},
		{"IPv6 localhost with port", "[::1]:8080", true},
		{"empty string", "", false},
		{"random hostname", "example.com", false},
		{"random hostname with port", "example.com:8080", false},
		{"public IP", "8.8.8.8:443", false},
		{"private IP", "192.168.1.1", false},
		{"uppercase localhost", "LOCALHOST", false},
		{"localhost with trailing space", "localhost ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsLocalhost(tt.input), "Input: %s", tt.input)
		})
	}
}

func TestValidateEndpointURL(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateEndpointURL("https://app.example.com/api/v1/oauth2/token"))
	require.NoError(t, ValidateEndpointURL("http://localhost:8080/api/v1/oauth2/token"))
	require.NoError(t, ValidateEndpointURL("http://127.0.0.1:39211/token"))
	require.Error(t, ValidateEndpointURL("http://app.example.com/api/v1/oauth2/token"))
	require.Error(t, ValidateEndpointURL("https://"))
}
