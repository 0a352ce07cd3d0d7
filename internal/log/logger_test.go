// SPDX-License-Identifier: MIT

package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, "", RequestIDFromContext(nil)) //nolint:staticcheck
}

func TestUserIDRoundTrip(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "guest-42")
	assert.Equal(t, "guest-42", UserIDFromContext(ctx))
}

func TestWithComponent(t *testing.T) {
	l := WithComponent("chat")
	// Must not panic and must be usable.
	l.Debug().Msg("component logger works")
}
