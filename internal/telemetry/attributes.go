// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Chat attributes
	ChatUserKey     = "chat.user_id"
	ChatIntentKey   = "chat.intent"
	ChatReplyKey    = "chat.reply_type"
	ChatStrategyKey = "chat.match_strategy"

	// Order attributes
	OrderIDKey     = "order.id"
	OrderStatusKey = "order.status"
	OrderItemsKey  = "order.items"

	// LLM attributes
	LLMModelKey   = "llm.model"
	LLMAttemptKey = "llm.attempt"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ChatAttributes creates chat-turn span attributes.
func ChatAttributes(userID, intentTag, replyType string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if userID != "" {
		attrs = append(attrs, attribute.String(ChatUserKey, userID))
	}
	if intentTag != "" {
		attrs = append(attrs, attribute.String(ChatIntentKey, intentTag))
	}
	if replyType != "" {
		attrs = append(attrs, attribute.String(ChatReplyKey, replyType))
	}
	return attrs
}

// OrderAttributes creates order lifecycle span attributes.
func OrderAttributes(orderID, status string, items int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(OrderIDKey, orderID),
		attribute.String(OrderStatusKey, status),
		attribute.Int(OrderItemsKey, items),
	}
}
