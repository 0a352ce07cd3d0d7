// SPDX-License-Identifier: MIT

// Package intent matches user messages against trained intent patterns.
package intent

// Priority weights an intent during weighted matching.
type Priority string

const (
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityStandard Priority = "standard"
)

// Multiplier returns the score multiplier for weighted matching.
func (p Priority) Multiplier() float64 {
	switch p {
	case PriorityHigh:
		return 1.2
	case PriorityMedium:
		return 1.1
	default:
		return 1.0
	}
}

// Intent is one trainable unit: patterns to match, responses to pick
// from, and quick-reply suggestions to offer.
type Intent struct {
	Tag         string   `yaml:"tag" json:"tag"`
	Priority    Priority `yaml:"priority,omitempty" json:"priority,omitempty"`
	Patterns    []string `yaml:"patterns" json:"patterns"`
	Responses   []string `yaml:"responses" json:"responses"`
	Suggestions []string `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
}

// Match is a successful intent resolution.
type Match struct {
	Intent  Intent
	Pattern string
	Score   float64
}

// Strategy resolves a message to an intent, or reports no match.
type Strategy interface {
	// Name identifies the strategy in logs and config.
	Name() string
	// Match scans intents for the best fit to the message.
	Match(message string, intents []Intent) (Match, bool)
}
