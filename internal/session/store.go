// SPDX-License-Identifier: MIT

// Package session persists conversation contexts and orders behind a
// pluggable backend.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/hazelbot/hazel/internal/config"
	"github.com/hazelbot/hazel/internal/conversation"
	"github.com/hazelbot/hazel/internal/order"
)

// ErrNotFound is returned when a context or order does not exist.
var ErrNotFound = errors.New("session: not found")

// Store holds per-user conversation state and orders. Implementations
// return copies; mutating a returned value never changes stored state
// until it is put back.
type Store interface {
	// Context returns the user's conversation context, or ErrNotFound.
	Context(ctx context.Context, userID string) (*conversation.Context, error)
	// PutContext stores a conversation context keyed by its UserID.
	PutContext(ctx context.Context, c *conversation.Context) error

	// ActiveOrder returns the user's in-progress order, or ErrNotFound.
	ActiveOrder(ctx context.Context, userID string) (*order.Order, error)
	// PutActiveOrder stores an order and marks it active for its user.
	PutActiveOrder(ctx context.Context, o *order.Order) error
	// DeleteActiveOrder removes the user's active order entirely.
	DeleteActiveOrder(ctx context.Context, userID string) error

	// OrderByID returns any order by id, active or settled.
	OrderByID(ctx context.Context, orderID string) (*order.Order, error)
	// PutOrder stores an order by id without touching the active index.
	PutOrder(ctx context.Context, o *order.Order) error
	// UpdateOrderStatus flips a stored order's status.
	UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) error

	// Close releases backend resources.
	Close() error
}

// Open builds the store named by the config's backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
