// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package shim

import "net/http"

// Context bundles the request view and response recorder for one HTTP
// exchange.
type Context struct {
	Req *Request
	Res *Response
}

// NewContext builds a shim context from a native request/response pair.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{
		Req: NewRequest(r),
		Res: NewResponse(w),
	}
}
