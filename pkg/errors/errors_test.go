// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewUnauthorized("Not authenticated")
	assert.Equal(t, "Not authenticated", err.Error())

	wrapped := Wrap(http.StatusInternalServerError, "session store failed", errors.New("boom"))
	assert.Equal(t, "session store failed: boom", wrapped.Error())
}

func TestCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", NewBadRequest("missing token"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("invalid token"), http.StatusUnauthorized},
		{"forbidden", NewForbidden("Forbidden (CSRF)"), http.StatusForbidden},
		{"internal", NewInternal("misconfigured"), http.StatusInternalServerError},
		{"untagged error defaults to 500", errors.New("plain"), http.StatusInternalServerError},
		{"tagged error inside a chain", fmt.Errorf("outer: %w", NewUnauthorized("inner")), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")
	err := Wrap(http.StatusInternalServerError, "wrapper", cause)

	require.ErrorIs(t, err, cause)
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUnauthorized(NewUnauthorized("nope")))
	assert.False(t, IsUnauthorized(NewForbidden("nope")))
	assert.True(t, IsForbidden(NewForbidden("nope")))
	assert.True(t, IsInternal(errors.New("untagged")))
}
