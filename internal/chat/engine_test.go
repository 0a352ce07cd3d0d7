// SPDX-License-Identifier: MIT

package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazelbot/hazel/internal/conversation"
	"github.com/hazelbot/hazel/internal/intent"
	"github.com/hazelbot/hazel/internal/knowledge"
	"github.com/hazelbot/hazel/internal/menu"
	"github.com/hazelbot/hazel/internal/order"
	"github.com/hazelbot/hazel/internal/session"
)

const engineKnowledgeYAML = `
intents:
  - tag: greeting
    priority: high
    patterns: [hello, hi, hey]
    responses: ["Hi! I'm Hazel, your virtual barista. How can I help you today?"]
  - tag: menu
    patterns: [menu, what do you have]
    responses: ["Here's our menu:"]
  - tag: start_order
    patterns: [i want to order, start order, order]
    responses: ["Let's get started!"]
  - tag: view_order
    patterns: [view order, my order]
    responses: ["Here's your order:"]
  - tag: checkout
    patterns: [checkout, pay, complete order]
    responses: ["Checking out."]
  - tag: cancel_order
    patterns: [cancel order, cancel]
    responses: ["Cancelled."]
  - tag: hours
    patterns: [what time do you close, opening hours, hours]
    responses: ["We're open 7am-7pm daily."]
`

const engineMenuYAML = `
items:
  - name: Latte
    category: hot
    description: Espresso with steamed milk
    sizes:
      - size: Small
        price: "4.00"
      - size: Large
        price: "5.00"
  - name: Croissant
    category: pastry
    price: "3.25"
`

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Generate(_ context.Context, _ string, _ []conversation.Turn) (string, error) {
	f.calls++
	return f.reply, f.err
}

func newTestEngine(t *testing.T, llmClient *fakeLLM) (*Engine, session.Store) {
	t.Helper()
	kb, err := knowledge.Parse([]byte(engineKnowledgeYAML))
	require.NoError(t, err)
	m, err := menu.Parse([]byte(engineMenuYAML))
	require.NoError(t, err)

	store := session.NewMemory()
	if llmClient == nil {
		llmClient = &fakeLLM{err: errors.New("down")}
	}
	eng := New(Options{
		Knowledge: kb,
		Menu:      m,
		Store:     store,
		Matcher:   intent.SubstringLongest{},
		LLM:       llmClient,
		IDs:       &order.Counter{},
		Now:       func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) },
	})
	return eng, store
}

func TestGreetingToCheckoutFlow(t *testing.T) {
	eng, store := newTestEngine(t, nil)
	ctx := context.Background()

	r, err := eng.Handle(ctx, "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, TypeIntro, r.Type)
	assert.Equal(t, "u1", r.UserID)

	r, err = eng.Handle(ctx, "u1", "i want to order")
	require.NoError(t, err)
	assert.Equal(t, TypeOrderStart, r.Type)

	r, err = eng.Handle(ctx, "u1", "a latte please")
	require.NoError(t, err)
	assert.Equal(t, TypeOrderUpdate, r.Type)
	assert.Contains(t, r.OrderSummary, "1x Latte")
	assert.Contains(t, r.OrderSummary, "$4.00", "sized item priced at first declared size")

	// Same item again merges into one line.
	r, err = eng.Handle(ctx, "u1", "latte")
	require.NoError(t, err)
	assert.Contains(t, r.OrderSummary, "2x Latte")

	r, err = eng.Handle(ctx, "u1", "checkout")
	require.NoError(t, err)
	assert.Equal(t, TypeOrderCheckout, r.Type)
	assert.Contains(t, r.OrderSummary, "Total: $8.00")

	// Order persists as preparing after checkout.
	o, err := store.OrderByID(ctx, "1000")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPreparing, o.Status)

	// Ordering flag cleared: the next message is a normal turn.
	r, err = eng.Handle(ctx, "u1", "hours")
	require.NoError(t, err)
	assert.Equal(t, TypeHours, r.Type)
}

func TestCancelDeletesOrder(t *testing.T) {
	eng, store := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := eng.Handle(ctx, "u1", "start order")
	require.NoError(t, err)
	_, err = eng.Handle(ctx, "u1", "croissant")
	require.NoError(t, err)

	r, err := eng.Handle(ctx, "u1", "cancel")
	require.NoError(t, err)
	assert.Equal(t, TypeOrderCancel, r.Type)

	_, err = store.OrderByID(ctx, "1000")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.ActiveOrder(ctx, "u1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestOrderPromptOnUnknownItem(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := eng.Handle(ctx, "u1", "start order")
	require.NoError(t, err)

	r, err := eng.Handle(ctx, "u1", "a bowl of ramen")
	require.NoError(t, err)
	assert.Equal(t, TypeOrderPrompt, r.Type)
	assert.Empty(t, r.OrderSummary, "no mutation on unrecognized input")
}

func TestMenuItemLookupOutsideOrdering(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	r, err := eng.Handle(context.Background(), "u1", "tell me about the croissant")
	require.NoError(t, err)
	assert.Equal(t, TypeMenuItem, r.Type)
	assert.Equal(t, "Croissant", r.Title)
	assert.Contains(t, r.Text, "$3.25")
}

func TestLongestPatternWins(t *testing.T) {
	eng, _ := newTestEngine(t, nil)

	// "order" and "what time do you close" both appear; the longer
	// pattern decides the intent.
	r, err := eng.Handle(context.Background(), "u1", "before I order, what time do you close?")
	require.NoError(t, err)
	assert.Equal(t, TypeHours, r.Type)
}

func TestLLMFallbackAndApology(t *testing.T) {
	t.Run("llm reply", func(t *testing.T) {
		fake := &fakeLLM{reply: "Our beans are Ethiopian."}
		eng, _ := newTestEngine(t, fake)

		r, err := eng.Handle(context.Background(), "u1", "where are your beans from")
		require.NoError(t, err)
		assert.Equal(t, TypeLLM, r.Type)
		assert.Equal(t, "Our beans are Ethiopian.", r.Text)
		assert.Equal(t, 1, fake.calls)
	})

	t.Run("llm failure becomes apology, not error", func(t *testing.T) {
		eng, _ := newTestEngine(t, &fakeLLM{err: errors.New("upstream down")})

		r, err := eng.Handle(context.Background(), "u1", "where are your beans from")
		require.NoError(t, err)
		assert.Equal(t, TypeText, r.Type)
		assert.Equal(t, apologyText, r.Text)
	})
}

func TestHistoryRecordedEveryTurn(t *testing.T) {
	eng, store := newTestEngine(t, nil)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := eng.Handle(ctx, "u1", "hello")
		require.NoError(t, err)
	}

	convo, err := store.Context(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, convo.History, 10, "history capped at ten turns")
}

func TestGreetingRemembersName(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeLLM{reply: "Nice to meet you!"})
	ctx := context.Background()

	_, err := eng.Handle(ctx, "u1", "my name is Sam")
	require.NoError(t, err)

	r, err := eng.Handle(ctx, "u1", "hello")
	require.NoError(t, err)
	assert.Contains(t, r.Text, "Welcome back, Sam!")
}

func TestUsersAreIsolated(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := eng.Handle(ctx, "u1", "start order")
	require.NoError(t, err)

	// u2 is not ordering; the same message starts their own order.
	r, err := eng.Handle(ctx, "u2", "latte")
	require.NoError(t, err)
	assert.Equal(t, TypeMenuItem, r.Type, "u2 sees item details, not an order update")
}

func TestEmptyUserIDRejected(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	_, err := eng.Handle(context.Background(), "", "hello")
	assert.Error(t, err)
}
