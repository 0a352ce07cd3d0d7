// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazelbot/hazel/internal/chat"
	"github.com/hazelbot/hazel/internal/config"
	"github.com/hazelbot/hazel/internal/intent"
	"github.com/hazelbot/hazel/internal/knowledge"
	"github.com/hazelbot/hazel/internal/llm"
	"github.com/hazelbot/hazel/internal/menu"
	"github.com/hazelbot/hazel/internal/order"
	"github.com/hazelbot/hazel/internal/session"
)

const apiKnowledgeYAML = `
intents:
  - tag: greeting
    patterns: [hello, hi]
    responses: ["Hi! How can I help?"]
  - tag: start_order
    patterns: [i want to order, start order]
    responses: ["Let's go!"]
  - tag: checkout
    patterns: [checkout, pay]
    responses: ["Checking out."]
  - tag: cancel_order
    patterns: [cancel]
    responses: ["Cancelled."]
`

const apiMenuYAML = `
items:
  - name: Latte
    category: hot
    sizes:
      - size: Small
        price: "4.00"
      - size: Large
        price: "5.00"
    customizations:
      milk:
        - name: Oat Milk
          price: "0.60"
  - name: Croissant
    category: pastry
    price: "3.25"
`

func newTestServer(t *testing.T) (*Server, session.Store) {
	t.Helper()

	kb, err := knowledge.Parse([]byte(apiKnowledgeYAML))
	require.NoError(t, err)
	m, err := menu.Parse([]byte(apiMenuYAML))
	require.NoError(t, err)
	store := session.NewMemory()

	engine := chat.New(chat.Options{
		Knowledge: kb,
		Menu:      m,
		Store:     store,
		Matcher:   intent.SubstringLongest{},
		LLM:       llm.Disabled{},
		IDs:       &order.Counter{},
	})

	srv := New(Options{
		Config: &config.Config{
			PrepareDelay: 5 * time.Minute,
			RateLimitRPM: 0,
		},
		Engine:    engine,
		Knowledge: kb,
		Menu:      m,
		Store:     store,
		IDs:       &order.Counter{},
	})
	return srv, store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	t.Run("missing message is 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid json is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString("{nope"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("guest gets a minted userId", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "hello"})
		require.Equal(t, http.StatusOK, rec.Code)

		var reply chat.Reply
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
		assert.Equal(t, chat.TypeIntro, reply.Type)
		assert.NotEmpty(t, reply.UserID)
	})

	t.Run("existing userId echoed back", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "hello", "userId": "u42"})
		require.Equal(t, http.StatusOK, rec.Code)

		var reply chat.Reply
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
		assert.Equal(t, "u42", reply.UserID)
	})

	t.Run("llm failure still returns 200 with apology", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "write me a poem about turtles", "userId": "u42"})
		require.Equal(t, http.StatusOK, rec.Code)

		var reply chat.Reply
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
		assert.Equal(t, chat.TypeText, reply.Type)
		assert.Contains(t, reply.Text, "always learning")
	})
}

func TestCreateOrderEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Router()

	t.Run("empty items is 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/order", map[string]any{"items": []any{}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown item is 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/order", map[string]any{
			"items": []map[string]any{{"name": "Pizza", "quantity": 1}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown size is 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/order", map[string]any{
			"items": []map[string]any{{
				"name": "Latte", "quantity": 1,
				"customization": map[string]any{"size": "Venti"},
			}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("customized order priced per line", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/order", map[string]any{
			"userId": "u1",
			"items": []map[string]any{
				{
					"name": "Latte", "quantity": 2,
					"customization": map[string]any{"size": "Large", "options": []string{"Oat Milk"}},
				},
				{"name": "Croissant", "quantity": 1},
			},
			"customerInfo":  map[string]string{"name": "Sam"},
			"paymentMethod": "card",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp createOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		// 2 × (5.00 + 0.60) + 3.25
		assert.Equal(t, "14.45", resp.Total)
		assert.Equal(t, "5 minutes", resp.EstimatedTime)

		o, err := store.OrderByID(t.Context(), resp.OrderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPreparing, o.Status)
		assert.Equal(t, "Sam", o.Customer.Name)
	})
}

func TestOrderStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	t.Run("unknown order is 404", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/order/9999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("created order is retrievable", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/order", map[string]any{
			"items": []map[string]any{{"name": "Croissant", "quantity": 2}},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var created createOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = doJSON(t, h, http.MethodGet, "/api/order/"+created.OrderID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var status orderStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, order.StatusPreparing, status.Status)
		assert.Equal(t, "6.50", status.Total)
	})
}

func TestCancelledOrderIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	// Start and cancel an order through the chat flow.
	rec := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "start order", "userId": "u9"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "latte", "userId": "u9"})
	require.Equal(t, http.StatusOK, rec.Code)

	var reply chat.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.Contains(t, reply.OrderSummary, "Order #")

	rec = doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "cancel", "userId": "u9"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/order/1000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrainingEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	t.Run("train rejects empty payload", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/train", map[string]any{"tag": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("trained intent answers immediately", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/train", map[string]any{
			"tag":       "wifi",
			"patterns":  []string{"wifi password"},
			"responses": []string{"It's on the chalkboard."},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "what's the wifi password?", "userId": "u1"})
		require.Equal(t, http.StatusOK, rec.Code)
		var reply chat.Reply
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
		assert.Equal(t, "It's on the chalkboard.", reply.Text)
	})

	t.Run("training data lists intents", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/training-data", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Intents []intent.Intent `json:"intents"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Intents)
	})

	t.Run("forget removes intent", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodDelete, "/api/train/wifi", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, h, http.MethodDelete, "/api/train/wifi", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
