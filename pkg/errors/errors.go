// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package errors provides the error type used across the adapter.
//
// Every failure surfaced to a caller carries a numeric HTTP status code so
// the transport can map it to a response without inspecting error strings.
// Setup errors (missing wiring, missing issuer configuration) are always 500;
// runtime auth errors (400/401/403) are expected conditions the caller can
// recover from, typically by re-authenticating.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a failure tagged with an HTTP status code.
type Error struct {
	// Code is the HTTP status code equivalent for this error
	Code int

	// Message is the error message
	Message string

	// Cause is the underlying error
	Cause error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new error with the given code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new error with the given code and a formatted message.
func Newf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new error with the given code and an underlying cause.
func Wrap(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NewBadRequest creates a new 400 error.
func NewBadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// NewUnauthorized creates a new 401 error.
func NewUnauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// NewForbidden creates a new 403 error.
func NewForbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// NewInternal creates a new 500 error.
func NewInternal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// Code extracts the HTTP status code from an error. Errors without a code
// anywhere in their chain are treated as internal server errors.
func Code(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}

// IsUnauthorized checks if the error carries a 401 code.
func IsUnauthorized(err error) bool {
	return Code(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error carries a 403 code.
func IsForbidden(err error) bool {
	return Code(err) == http.StatusForbidden
}

// IsInternal checks if the error carries a 500 code.
func IsInternal(err error) bool {
	return Code(err) == http.StatusInternalServerError
}
