// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldOrderID   = "order_id"

	// Dispatch fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldIntent    = "intent"
	FieldStrategy  = "strategy"
	FieldReplyType = "reply_type"

	// Order fields
	FieldItem      = "item"
	FieldQuantity  = "quantity"
	FieldOldStatus = "old_status"
	FieldNewStatus = "new_status"
)
