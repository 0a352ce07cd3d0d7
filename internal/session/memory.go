// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"sync"

	"github.com/hazelbot/hazel/internal/conversation"
	"github.com/hazelbot/hazel/internal/order"
)

// Memory is the default in-process store. All values are deep-copied on
// the way in and out so callers never alias stored state.
type Memory struct {
	mu       sync.RWMutex
	contexts map[string]*conversation.Context
	orders   map[string]*order.Order
	active   map[string]string // userID -> orderID
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		contexts: make(map[string]*conversation.Context),
		orders:   make(map[string]*order.Order),
		active:   make(map[string]string),
	}
}

func copyContext(c *conversation.Context) *conversation.Context {
	out := *c
	out.History = append([]conversation.Turn(nil), c.History...)
	if c.Preferences != nil {
		out.Preferences = make(map[string]string, len(c.Preferences))
		for k, v := range c.Preferences {
			out.Preferences[k] = v
		}
	}
	return &out
}

func copyOrder(o *order.Order) *order.Order {
	out := *o
	out.Items = make([]order.Line, len(o.Items))
	for i, l := range o.Items {
		out.Items[i] = l
		out.Items[i].Options = append([]string(nil), l.Options...)
	}
	return &out
}

func (m *Memory) Context(_ context.Context, userID string) (*conversation.Context, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.contexts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyContext(c), nil
}

func (m *Memory) PutContext(_ context.Context, c *conversation.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts[c.UserID] = copyContext(c)
	return nil
}

func (m *Memory) ActiveOrder(_ context.Context, userID string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.active[userID]
	if !ok {
		return nil, ErrNotFound
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyOrder(o), nil
}

func (m *Memory) PutActiveOrder(_ context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = copyOrder(o)
	m.active[o.UserID] = o.ID
	return nil
}

func (m *Memory) DeleteActiveOrder(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.active[userID]
	if !ok {
		return ErrNotFound
	}
	delete(m.active, userID)
	delete(m.orders, id)
	return nil
}

func (m *Memory) OrderByID(_ context.Context, orderID string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyOrder(o), nil
}

func (m *Memory) PutOrder(_ context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = copyOrder(o)
	return nil
}

func (m *Memory) UpdateOrderStatus(_ context.Context, orderID string, status order.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	// An order that left the preparing queue is no longer the user's
	// active order.
	if status == order.StatusReady && m.active[o.UserID] == orderID {
		delete(m.active, o.UserID)
	}
	return nil
}

func (m *Memory) Close() error { return nil }
