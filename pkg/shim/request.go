// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package shim presents HTTP requests and responses through a small portable
// surface so the auth flows never touch net/http types directly. Handlers
// mutate the shim; the transport layer decides when and how the recorded
// state is written to the wire.
package shim

import (
	"net/http"
	"net/url"
	"strings"
)

// Request is a read-mostly view of an incoming HTTP request.
//
// Query is a mutable copy; callers may overlay computed parameters (for
// example a resolved tenant) without affecting the underlying request.
type Request struct {
	Method  string
	Path    string
	Host    string
	Query   url.Values
	Headers http.Header
	Cookies map[string]string
}

// NewRequest builds a Request from a native request.
func NewRequest(r *http.Request) *Request {
	query := url.Values{}
	for k, vs := range r.URL.Query() {
		query[k] = append([]string(nil), vs...)
	}

	return &Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Host:    r.Host,
		Query:   query,
		Headers: r.Header,
		Cookies: parseCookies(r.Header.Get("Cookie")),
	}
}

// parseCookies splits a raw Cookie header into a name/value map. Pairs
// without an equals sign or with a value that fails URL decoding are
// dropped rather than failing the whole header.
func parseCookies(raw string) map[string]string {
	cookies := make(map[string]string)
	if raw == "" {
		return cookies
	}

	for _, pair := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		cookies[name] = decoded
	}
	return cookies
}

// Cookie returns the named cookie value, if present.
func (r *Request) Cookie(name string) (string, bool) {
	v, ok := r.Cookies[name]
	return v, ok
}

// Header returns the first value of the named header.
func (r *Request) Header(name string) string {
	return r.Headers.Get(name)
}
