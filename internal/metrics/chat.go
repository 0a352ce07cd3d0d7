// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the hazel daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Chat pipeline metrics
	chatTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hazel_chat_turns_total",
		Help: "Chat turns processed by dispatch outcome",
	}, []string{"outcome"}) // outcome=order_flow|intent|menu_item|llm|apology

	intentMatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hazel_intent_matches_total",
		Help: "Intent matches by tag",
	}, []string{"tag"})

	chatTurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hazel_chat_turn_duration_seconds",
		Help:    "End-to-end chat turn latencies in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// LLM fallback metrics
	llmRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hazel_llm_requests_total",
		Help: "LLM fallback attempts by outcome",
	}, []string{"outcome"}) // outcome=success|error|timeout

	llmRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hazel_llm_request_duration_seconds",
		Help:    "LLM fallback call latencies in seconds",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15},
	})

	// Order metrics
	ordersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hazel_orders_active",
		Help: "Orders currently open in the active store",
	})

	ordersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hazel_orders_total",
		Help: "Order lifecycle events by transition",
	}, []string{"transition"}) // transition=started|checked_out|cancelled|ready

	// Knowledge base metrics
	knowledgeReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hazel_knowledge_reloads_total",
		Help: "Knowledge base reloads by outcome",
	}, []string{"outcome"}) // outcome=success|failure
)

// RecordChatTurn counts one dispatched turn and its latency.
func RecordChatTurn(outcome string, d time.Duration) {
	chatTurnsTotal.WithLabelValues(outcome).Inc()
	chatTurnDuration.Observe(d.Seconds())
}

// RecordIntentMatch counts a successful intent match for the given tag.
func RecordIntentMatch(tag string) {
	intentMatchesTotal.WithLabelValues(tag).Inc()
}

// RecordLLMRequest counts one LLM fallback attempt and its latency.
func RecordLLMRequest(outcome string, d time.Duration) {
	llmRequestsTotal.WithLabelValues(outcome).Inc()
	llmRequestDuration.Observe(d.Seconds())
}

// RecordOrderTransition counts an order lifecycle transition.
func RecordOrderTransition(transition string) {
	ordersTotal.WithLabelValues(transition).Inc()
}

// IncActiveOrders tracks one newly opened order.
func IncActiveOrders() { ordersActive.Inc() }

// DecActiveOrders tracks one closed or cancelled order.
func DecActiveOrders() { ordersActive.Dec() }

// RecordKnowledgeReload counts a knowledge base reload.
func RecordKnowledgeReload(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	knowledgeReloadsTotal.WithLabelValues(outcome).Inc()
}
