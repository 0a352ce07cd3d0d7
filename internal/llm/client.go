// SPDX-License-Identifier: MIT

// Package llm wraps the fallback language model used when no intent,
// FAQ or menu item matches a message.
package llm

import (
	"context"
	"errors"

	"github.com/hazelbot/hazel/internal/conversation"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("llm: disabled")

// Client generates a free-form reply from the user message and recent
// conversation history.
type Client interface {
	Generate(ctx context.Context, message string, history []conversation.Turn) (string, error)
}

// Disabled is the client used when HAZEL_LLM_API_KEY is unset; every
// call fails so the engine falls through to its apology reply.
type Disabled struct{}

func (Disabled) Generate(context.Context, string, []conversation.Turn) (string, error) {
	return "", ErrDisabled
}
