// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/hazelbot/hazel/internal/config"
	"github.com/hazelbot/hazel/internal/conversation"
	"github.com/hazelbot/hazel/internal/knowledge"
	"github.com/hazelbot/hazel/internal/log"
	"github.com/hazelbot/hazel/internal/metrics"
)

const maxReplyTokens = 512

// OpenRouter calls an OpenAI-compatible completion API through
// langchaingo. Requests are rate limited, retried with backoff, and
// bounded by a per-request timeout.
type OpenRouter struct {
	model   llms.Model
	limiter *rate.Limiter
	retries int
	timeout time.Duration
	system  string
}

// NewOpenRouter builds a client from config. The store info is folded
// into the system prompt so the model answers as the café's barista.
func NewOpenRouter(cfg *config.Config, store knowledge.StoreInfo) (*OpenRouter, error) {
	model, err := openai.New(
		openai.WithBaseURL(cfg.LLMBaseURL),
		openai.WithToken(cfg.LLMAPIKey),
		openai.WithModel(cfg.LLMModel),
		openai.WithHTTPClient(&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.LLMTimeout,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	return &OpenRouter{
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(cfg.LLMRPS), 1),
		retries: cfg.LLMRetries,
		timeout: cfg.LLMTimeout,
		system:  systemPrompt(store),
	}, nil
}

func systemPrompt(store knowledge.StoreInfo) string {
	var b strings.Builder
	name := store.Name
	if name == "" {
		name = "the café"
	}
	fmt.Fprintf(&b, "You are a friendly barista chatbot for %s.", name)
	if store.Location != "" {
		fmt.Fprintf(&b, " The café is located at %s.", store.Location)
	}
	b.WriteString(" Answer briefly and warmly. Only discuss the café, its menu, and café-adjacent topics.")
	b.WriteString(" If asked something you cannot know, say so and suggest asking the staff.")
	return b.String()
}

// Generate asks the model for a reply, retrying transient failures.
func (c *OpenRouter) Generate(ctx context.Context, message string, history []conversation.Turn) (string, error) {
	logger := log.WithComponentFromContext(ctx, "llm")

	content := make([]llms.MessageContent, 0, len(history)*2+2)
	content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, c.system))
	for _, turn := range history {
		content = append(content,
			llms.TextParts(llms.ChatMessageTypeHuman, turn.Message),
			llms.TextParts(llms.ChatMessageTypeAI, turn.Response),
		)
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, message))

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		start := time.Now()
		reply, err := c.generateOnce(ctx, content)
		metrics.RecordLLMRequest(outcomeFor(err), time.Since(start))
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		logger.Warn().Err(err).Int("attempt", attempt).Msg("llm request failed")
		if attempt < c.retries {
			backoff := time.Duration(attempt*attempt*500) * time.Millisecond
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return "", fmt.Errorf("llm: %d attempts failed: %w", c.retries, lastErr)
}

func (c *OpenRouter) generateOnce(ctx context.Context, content []llms.MessageContent) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, content, llms.WithMaxTokens(maxReplyTokens))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// FromConfig returns the configured client, or Disabled when no key is set.
func FromConfig(cfg *config.Config, store knowledge.StoreInfo) (Client, error) {
	if cfg.LLMDisabled {
		llmLog := log.WithComponent("llm")
		llmLog.Info().Msg("llm fallback disabled, no api key configured")
		return Disabled{}, nil
	}
	return NewOpenRouter(cfg, store)
}
