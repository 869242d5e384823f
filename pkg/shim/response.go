// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package shim

import (
	"net/http"
)

// CookieOptions controls the attributes of a cookie written through the
// response shim. The zero value yields an HttpOnly session cookie on "/".
type CookieOptions struct {
	// MaxAge in seconds. Zero means a session cookie, negative deletes.
	MaxAge int

	// Path defaults to "/".
	Path string

	Secure   bool
	SameSite http.SameSite

	// HTTPOnly defaults to true. Set to a false pointer only for cookies
	// that client-side script must read.
	HTTPOnly *bool
}

func (o CookieOptions) toCookie(name, value string) *http.Cookie {
	path := o.Path
	if path == "" {
		path = "/"
	}
	httpOnly := true
	if o.HTTPOnly != nil {
		httpOnly = *o.HTTPOnly
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: httpOnly,
		SameSite: o.SameSite,
	}
}

// Response records headers, cookies, and an optional redirect target on top
// of a native response writer.
//
// Setting a cookie twice keeps only the latest write; the Set-Cookie headers
// are rebuilt from the tracked set on every mutation. A redirect is recorded,
// not sent; the transport layer turns it into a real 302 after the handler
// chain finishes so later hooks can still inspect or amend the response.
type Response struct {
	w http.ResponseWriter

	cookieOrder []string
	cookies     map[string]*http.Cookie
	written     map[string]struct{}

	redirectURL string
}

// NewResponse wraps a native response writer.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{
		w:       w,
		cookies: make(map[string]*http.Cookie),
		written: make(map[string]struct{}),
	}
}

// SetHeader sets a response header, replacing any previous value.
func (res *Response) SetHeader(name, value string) {
	res.w.Header().Set(name, value)
}

// SetCookie writes a cookie, replacing any earlier cookie of the same name.
func (res *Response) SetCookie(name, value string, opts CookieOptions) {
	if _, seen := res.cookies[name]; !seen {
		res.cookieOrder = append(res.cookieOrder, name)
	}
	res.cookies[name] = opts.toCookie(name, value)
	res.rewriteCookies()
}

// ClearCookie expires a cookie. The attributes must match the ones the
// cookie was set with or browsers will not remove it.
func (res *Response) ClearCookie(name string, opts CookieOptions) {
	opts.MaxAge = -1
	res.SetCookie(name, "", opts)
}

// rewriteCookies rebuilds the Set-Cookie headers for the tracked cookies.
// Values written to the underlying writer outside the shim, such as a
// session save, are kept in place.
func (res *Response) rewriteCookies() {
	h := res.w.Header()

	var kept []string
	for _, v := range h["Set-Cookie"] {
		if _, ours := res.written[v]; !ours {
			kept = append(kept, v)
		}
	}

	h.Del("Set-Cookie")
	res.written = make(map[string]struct{}, len(res.cookieOrder))
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
	for _, name := range res.cookieOrder {
		if v := res.cookies[name].String(); v != "" {
			h.Add("Set-Cookie", v)
			res.written[v] = struct{}{}
		}
	}
}

// Redirect records the redirect target. The last recorded URL wins.
func (res *Response) Redirect(url string) {
	res.redirectURL = url
}

// RedirectURL returns the recorded redirect target, or "" when none was set.
func (res *Response) RedirectURL() string {
	return res.redirectURL
}

// Native exposes the underlying writer for the transport layer.
func (res *Response) Native() http.ResponseWriter {
	return res.w
}
