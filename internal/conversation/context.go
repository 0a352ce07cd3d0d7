// SPDX-License-Identifier: MIT

// Package conversation tracks per-user dialogue state between turns.
package conversation

import "time"

// historyCap bounds remembered turns; the oldest turn is evicted first.
const historyCap = 10

// Turn is one remembered exchange.
type Turn struct {
	Message  string    `json:"message"`
	Response string    `json:"response"`
	At       time.Time `json:"at"`
}

// Context is the per-user conversation state. The zero value plus a
// UserID is a valid fresh context.
type Context struct {
	UserID        string            `json:"userId"`
	Ordering      bool              `json:"ordering"`
	CurrentIntent string            `json:"currentIntent,omitempty"`
	History       []Turn            `json:"history,omitempty"`
	Preferences   map[string]string `json:"preferences,omitempty"`
}

// New returns a fresh context for a user.
func New(userID string) *Context {
	return &Context{UserID: userID}
}

// Remember appends a turn, evicting the oldest once the cap is reached.
func (c *Context) Remember(message, response string, at time.Time) {
	c.History = append(c.History, Turn{Message: message, Response: response, At: at})
	if len(c.History) > historyCap {
		c.History = c.History[len(c.History)-historyCap:]
	}
}

// Preference returns a stored preference value.
func (c *Context) Preference(key string) (string, bool) {
	v, ok := c.Preferences[key]
	return v, ok
}

// SetPreference stores a preference, allocating the map lazily.
func (c *Context) SetPreference(key, value string) {
	if c.Preferences == nil {
		c.Preferences = make(map[string]string)
	}
	c.Preferences[key] = value
}
