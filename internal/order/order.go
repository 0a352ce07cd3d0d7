// SPDX-License-Identifier: MIT

// Package order models café orders and their lifecycle.
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is an order's lifecycle stage.
type Status string

const (
	StatusOpen      Status = "open"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
)

// Line is one merged order line. Quantity accumulates when the same
// item is added again.
type Line struct {
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Options   []string        `json:"options,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Customer holds optional customer details for a detailed order.
type Customer struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Order is a single customer's order.
type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Items     []Line    `json:"items"`
	Status    Status    `json:"status"`
	Customer  Customer  `json:"customer,omitempty"`
	Payment   string    `json:"payment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New opens an empty order.
func New(id, userID string, now time.Time) *Order {
	return &Order{ID: id, UserID: userID, Status: StatusOpen, CreatedAt: now, UpdatedAt: now}
}

// Add merges an item into the order: same-name lines bump the quantity,
// anything else appends a new line.
func (o *Order) Add(line Line, now time.Time) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	for i, existing := range o.Items {
		if strings.EqualFold(existing.Name, line.Name) && existing.Size == line.Size {
			o.Items[i].Quantity += line.Quantity
			o.UpdatedAt = now
			return
		}
	}
	o.Items = append(o.Items, line)
	o.UpdatedAt = now
}

// Total is the exact sum of unit price times quantity over all lines.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Items {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Empty reports whether no lines have been added yet.
func (o *Order) Empty() bool { return len(o.Items) == 0 }

// Summary renders the order for a chat reply. Prices are formatted to
// two decimals for display only; the stored values stay exact.
func (o *Order) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%s\n", o.ID)
	for _, l := range o.Items {
		fmt.Fprintf(&b, "  %dx %s", l.Quantity, l.Name)
		if l.Size != "" {
			fmt.Fprintf(&b, " (%s)", l.Size)
		}
		lineTotal := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		fmt.Fprintf(&b, " - $%s\n", lineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: $%s", o.Total().StringFixed(2))
	return b.String()
}
